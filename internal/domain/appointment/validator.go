package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// Minimum spacing between two appointments of the same patient.
	proximityLimit = 120 * time.Minute

	// Maximum appointments per doctor per calendar day.
	dailyLimit = 8
)

// Rule identifies which booking rule rejected a request.
type Rule string

const (
	RuleRoomConflict     Rule = "room_conflict"
	RuleDoctorConflict   Rule = "doctor_conflict"
	RulePatientProximity Rule = "patient_proximity"
	RuleDoctorDailyLimit Rule = "doctor_daily_limit"
)

// Violation is a booking rule rejection. It is always recoverable: handlers
// surface it to the client as a conflict, never as a server failure.
type Violation struct {
	Rule    Rule
	Message string
}

func (v *Violation) Error() string {
	return v.Message
}

// BookingRequest is the proposed doctor/room/time/patient tuple submitted
// for creation or edit.
type BookingRequest struct {
	DoctorID    uuid.UUID
	RoomID      uuid.UUID
	ScheduledAt time.Time
	PatientName string

	// ExcludeID identifies the appointment being edited so it does not
	// conflict with itself. Nil when booking a new appointment.
	ExcludeID *uuid.UUID
}

// Validator decides whether a booking request may proceed. It is stateless
// and safe for concurrent use; every invocation re-evaluates all rules
// against the store. The check-then-act window between validation and the
// caller's insert is closed by the unique (room_id, scheduled_at) and
// (doctor_id, scheduled_at) indexes, which turn a lost race into a write
// conflict.
type Validator struct {
	store ConflictStore
}

func NewValidator(store ConflictStore) *Validator {
	return &Validator{store: store}
}

// Validate applies the four booking rules in order and short-circuits on the
// first failure. It returns nil when the request may proceed, a *Violation
// for a rule rejection, or a storage error. Doctor and room existence is a
// precondition the caller establishes before validating.
func (v *Validator) Validate(ctx context.Context, req *BookingRequest) error {
	if err := v.checkRoomFree(ctx, req); err != nil {
		return err
	}
	if err := v.checkDoctorFree(ctx, req); err != nil {
		return err
	}
	if err := v.checkPatientSpacing(ctx, req); err != nil {
		return err
	}
	return v.checkDoctorDailyLimit(ctx, req)
}

func (v *Validator) checkRoomFree(ctx context.Context, req *BookingRequest) error {
	occupied, err := v.store.ExistsByRoomAt(ctx, req.RoomID, req.ScheduledAt)
	if err != nil {
		return fmt.Errorf("checking room occupancy: %w", err)
	}
	if !occupied {
		return nil
	}
	if req.ExcludeID != nil {
		self, err := v.occupantIsSelf(ctx, *req.ExcludeID, req.ScheduledAt, func(a *Appointment) bool {
			return a.RoomID == req.RoomID
		})
		if err != nil {
			return err
		}
		if self {
			return nil
		}
	}
	return &Violation{
		Rule:    RuleRoomConflict,
		Message: fmt.Sprintf("room %s already has an appointment at %s", req.RoomID, req.ScheduledAt.Format(TimeLayout)),
	}
}

func (v *Validator) checkDoctorFree(ctx context.Context, req *BookingRequest) error {
	busy, err := v.store.ExistsByDoctorAt(ctx, req.DoctorID, req.ScheduledAt)
	if err != nil {
		return fmt.Errorf("checking doctor availability: %w", err)
	}
	if !busy {
		return nil
	}
	if req.ExcludeID != nil {
		self, err := v.occupantIsSelf(ctx, *req.ExcludeID, req.ScheduledAt, func(a *Appointment) bool {
			return a.DoctorID == req.DoctorID
		})
		if err != nil {
			return err
		}
		if self {
			return nil
		}
	}
	return &Violation{
		Rule:    RuleDoctorConflict,
		Message: fmt.Sprintf("doctor %s already has another appointment at %s", req.DoctorID, req.ScheduledAt.Format(TimeLayout)),
	}
}

func (v *Validator) checkPatientSpacing(ctx context.Context, req *BookingRequest) error {
	// The query window is one minute narrower than ±2h on each side; the
	// exact spacing condition is re-checked below.
	from := req.ScheduledAt.Add(-2*time.Hour + time.Minute)
	to := req.ScheduledAt.Add(2*time.Hour - time.Minute)

	candidates, err := v.store.FindByPatientBetween(ctx, req.PatientName, from, to)
	if err != nil {
		return fmt.Errorf("finding nearby patient appointments: %w", err)
	}

	for _, c := range candidates {
		if req.ExcludeID != nil && c.ID == *req.ExcludeID {
			continue
		}
		gap := req.ScheduledAt.Sub(c.ScheduledAt)
		if gap < 0 {
			gap = -gap
		}
		if gap < proximityLimit {
			return &Violation{
				Rule:    RulePatientProximity,
				Message: fmt.Sprintf("patient %s already has another appointment less than 2 hours away", req.PatientName),
			}
		}
	}
	return nil
}

func (v *Validator) checkDoctorDailyLimit(ctx context.Context, req *BookingRequest) error {
	count, err := v.store.CountByDoctorOn(ctx, req.DoctorID, req.ScheduledAt)
	if err != nil {
		return fmt.Errorf("counting doctor appointments: %w", err)
	}

	// When editing one of the doctor's own same-day appointments the count
	// already includes the record being moved, so the edit is not a 9th
	// appointment and the threshold shifts by one.
	editingSameDoctorDay := false
	if req.ExcludeID != nil {
		orig, err := v.store.GetByID(ctx, *req.ExcludeID)
		switch {
		case err == nil:
			editingSameDoctorDay = orig.DoctorID == req.DoctorID &&
				sameCalendarDay(orig.ScheduledAt, req.ScheduledAt)
		case errors.Is(err, ErrAppointmentNotFound):
			// Dangling exclude id: treat as a new booking for this check.
		default:
			return fmt.Errorf("loading edited appointment: %w", err)
		}
	}

	day := req.ScheduledAt.Format(DateLayout)
	if editingSameDoctorDay {
		if count > dailyLimit {
			return &Violation{
				Rule:    RuleDoctorDailyLimit,
				Message: fmt.Sprintf("doctor %s would exceed the limit of %d appointments on %s with this change", req.DoctorID, dailyLimit, day),
			}
		}
		return nil
	}
	if count >= dailyLimit {
		return &Violation{
			Rule:    RuleDoctorDailyLimit,
			Message: fmt.Sprintf("doctor %s already has %d appointments on %s", req.DoctorID, dailyLimit, day),
		}
	}
	return nil
}

// occupantIsSelf reports whether the appointment being edited is itself the
// occupant found at the requested datetime. The uniqueness invariants
// guarantee at most one occupant per room or doctor and datetime, so
// re-fetching the edited appointment is enough to identify it. A dangling
// exclude id degrades to non-edit behavior.
func (v *Validator) occupantIsSelf(ctx context.Context, excludeID uuid.UUID, at time.Time, samePlace func(*Appointment) bool) (bool, error) {
	a, err := v.store.GetByID(ctx, excludeID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading edited appointment: %w", err)
	}
	return a.ScheduledAt.Equal(at) && samePlace(a), nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
