package v1

import (
	"net/http"
	"strconv"

	"github.com/clinicore/clinic-api/internal/domain/room"
	"github.com/clinicore/clinic-api/internal/service"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	svc *service.RoomService
}

func NewRoomHandler(svc *service.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

type roomRequest struct {
	Number int `json:"number" binding:"required"`
	Floor  int `json:"floor"`
}

type roomResponse struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Floor  int    `json:"floor"`
}

func toRoomResponse(r *room.Room) roomResponse {
	return roomResponse{ID: r.ID.String(), Number: r.Number, Floor: r.Floor}
}

func (h *RoomHandler) Register(c *gin.Context) {
	var req roomRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	r, err := h.svc.Register(c.Request.Context(), &room.RegisterRoomCommand{
		Number: req.Number,
		Floor:  req.Floor,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toRoomResponse(r))
}

func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.svc.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRoomResponse(r))
}

func (h *RoomHandler) GetByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid number: must be an integer")
		return
	}

	r, err := h.svc.GetRoomByNumber(c.Request.Context(), number)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRoomResponse(r))
}

func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.svc.ListRooms(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResponse(r))
	}
	respondOK(c, out)
}

func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req roomRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	r, err := h.svc.UpdateRoom(c.Request.Context(), id, &room.UpdateRoomCommand{
		Number: req.Number,
		Floor:  req.Floor,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toRoomResponse(r))
}

func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := callerClaims(c)
	if err := h.svc.DeleteRoom(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
