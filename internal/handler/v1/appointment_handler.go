package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/clinicore/clinic-api/internal/service"
	"github.com/clinicore/clinic-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	svc     *service.AppointmentService
	metrics *metrics.Collector
}

func NewAppointmentHandler(svc *service.AppointmentService, m *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, metrics: m}
}

type bookAppointmentRequest struct {
	DoctorID    string `json:"doctor_id" binding:"required"`
	RoomID      string `json:"room_id" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"`
	PatientName string `json:"patient_name" binding:"required"`
}

type appointmentResponse struct {
	ID          string `json:"id"`
	ScheduledAt string `json:"scheduled_at"`
	PatientName string `json:"patient_name"`

	DoctorID        string `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty"`

	RoomID     string `json:"room_id"`
	RoomNumber int    `json:"room_number"`
	RoomFloor  int    `json:"room_floor"`
}

func toAppointmentResponse(d *service.AppointmentDetails) appointmentResponse {
	return appointmentResponse{
		ID:              d.Appointment.ID.String(),
		ScheduledAt:     d.Appointment.ScheduledAt.Format(appointment.TimeLayout),
		PatientName:     d.Appointment.PatientName,
		DoctorID:        d.Doctor.ID.String(),
		DoctorName:      d.Doctor.FullName(),
		DoctorSpecialty: d.Doctor.Specialty,
		RoomID:          d.Room.ID.String(),
		RoomNumber:      d.Room.Number,
		RoomFloor:       d.Room.Floor,
	}
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd, ok := h.parseBooking(c, req.DoctorID, req.RoomID, req.ScheduledAt)
	if !ok {
		return
	}

	claims := callerClaims(c)
	details, err := h.svc.Book(c.Request.Context(), &appointment.BookAppointmentCommand{
		DoctorID:    cmd.doctorID,
		RoomID:      cmd.roomID,
		ScheduledAt: cmd.scheduledAt,
		PatientName: req.PatientName,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		h.countRejection(err)
		respondServiceError(c, err)
		return
	}

	h.metrics.AppointmentsBookedTotal.Inc()
	respondCreated(c, toAppointmentResponse(details))
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd, ok := h.parseBooking(c, req.DoctorID, req.RoomID, req.ScheduledAt)
	if !ok {
		return
	}

	claims := callerClaims(c)
	details, err := h.svc.Reschedule(c.Request.Context(), id, &appointment.RescheduleAppointmentCommand{
		DoctorID:    cmd.doctorID,
		RoomID:      cmd.roomID,
		ScheduledAt: cmd.scheduledAt,
		PatientName: req.PatientName,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		h.countRejection(err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(details))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(details))
}

// List returns one calendar day's appointments; ?date is required, ?room_id
// and ?doctor_id narrow the result.
func (h *AppointmentHandler) List(c *gin.Context) {
	day, err := time.Parse(appointment.DateLayout, c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date: must be YYYY-MM-DD")
		return
	}

	q := &appointment.ListByDayQuery{Day: day}
	if raw := c.Query("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid room_id: must be a valid UUID")
			return
		}
		q.RoomID = &id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctor_id: must be a valid UUID")
			return
		}
		q.DoctorID = &id
	}

	details, err := h.svc.ListByDay(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]appointmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toAppointmentResponse(d))
	}
	respondOK(c, out)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := callerClaims(c)
	if err := h.svc.Cancel(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.AppointmentsCancelledTotal.Inc()
	c.Status(http.StatusNoContent)
}

type parsedBooking struct {
	doctorID    uuid.UUID
	roomID      uuid.UUID
	scheduledAt time.Time
}

func (h *AppointmentHandler) parseBooking(c *gin.Context, doctorID, roomID, scheduledAt string) (parsedBooking, bool) {
	var p parsedBooking
	var err error

	if p.doctorID, err = uuid.Parse(doctorID); err != nil {
		respondError(c, http.StatusBadRequest, "invalid doctor_id: must be a valid UUID")
		return p, false
	}
	if p.roomID, err = uuid.Parse(roomID); err != nil {
		respondError(c, http.StatusBadRequest, "invalid room_id: must be a valid UUID")
		return p, false
	}
	if p.scheduledAt, err = time.Parse(appointment.TimeLayout, scheduledAt); err != nil {
		respondError(c, http.StatusBadRequest, "invalid scheduled_at: must be YYYY-MM-DD HH:MM:SS")
		return p, false
	}
	return p, true
}

func (h *AppointmentHandler) countRejection(err error) {
	var violation *appointment.Violation
	if errors.As(err, &violation) {
		h.metrics.BookingRejectionsTotal.WithLabelValues(string(violation.Rule)).Inc()
	}
}
