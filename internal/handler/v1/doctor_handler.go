package v1

import (
	"net/http"

	"github.com/clinicore/clinic-api/internal/domain/doctor"
	"github.com/clinicore/clinic-api/internal/service"
	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	svc *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

type doctorRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	SecondLastName string `json:"second_last_name"`
	Specialty      string `json:"specialty" binding:"required"`
}

type doctorResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	SecondLastName string `json:"second_last_name,omitempty"`
	Specialty      string `json:"specialty"`
}

func toDoctorResponse(d *doctor.Doctor) doctorResponse {
	return doctorResponse{
		ID:             d.ID.String(),
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		SecondLastName: d.SecondLastName,
		Specialty:      d.Specialty,
	}
}

func (h *DoctorHandler) Register(c *gin.Context) {
	var req doctorRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	d, err := h.svc.Register(c.Request.Context(), &doctor.RegisterDoctorCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		Specialty:      req.Specialty,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toDoctorResponse(d))
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}

// List returns all doctors, optionally filtered by ?specialty.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.svc.ListDoctors(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]doctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorResponse(d))
	}
	respondOK(c, out)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req doctorRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	d, err := h.svc.UpdateDoctor(c.Request.Context(), id, &doctor.UpdateDoctorCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		Specialty:      req.Specialty,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := callerClaims(c)
	if err := h.svc.DeleteDoctor(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
