package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/clinicore/clinic-api/internal/domain/doctor"
	"github.com/clinicore/clinic-api/internal/domain/room"
	"github.com/clinicore/clinic-api/internal/service"
	"github.com/gin-gonic/gin"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rule violation maps to conflict", &appointment.Violation{Rule: appointment.RuleRoomConflict, Message: "room busy"}, http.StatusConflict},
		{"appointment not found", appointment.ErrAppointmentNotFound, http.StatusNotFound},
		{"doctor not found", doctor.ErrDoctorNotFound, http.StatusNotFound},
		{"room not found", room.ErrRoomNotFound, http.StatusNotFound},
		{"doctor has appointments", doctor.ErrDoctorHasAppointments, http.StatusConflict},
		{"room has appointments", room.ErrRoomHasAppointments, http.StatusConflict},
		{"room number taken", room.ErrRoomNumberTaken, http.StatusConflict},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"scheduled in past", appointment.ErrScheduledInPast, http.StatusBadRequest},
		{"appointment passed", appointment.ErrAppointmentPassed, http.StatusBadRequest},
		{"blank patient name", appointment.ErrPatientNameRequired, http.StatusBadRequest},
		{"invalid room number", room.ErrInvalidRoomNumber, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"account locked", service.ErrAccountLocked, http.StatusTooManyRequests},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRespondServiceErrorIncludesRuleCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, &appointment.Violation{
		Rule:    appointment.RulePatientProximity,
		Message: "patient already has another appointment less than 2 hours away",
	})

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if body.Code != string(appointment.RulePatientProximity) {
		t.Errorf("Code = %q, want %q", body.Code, appointment.RulePatientProximity)
	}
	if body.Error == "" {
		t.Error("expected a human-readable error message")
	}
}

func TestRespondServiceErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, errors.New("pq: connection refused at 10.1.2.3:5432"))

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("Error = %q, internal detail must not leak", body.Error)
	}
}
