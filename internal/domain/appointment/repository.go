package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	Update(ctx context.Context, a *Appointment) error

	// Delete removes the appointment permanently. Cancelled appointments
	// are not retained.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByDay returns all appointments on the query's calendar day,
	// ordered by scheduled time.
	ListByDay(ctx context.Context, q *ListByDayQuery) ([]*Appointment, error)

	// ExistsByDoctor reports whether the doctor has any appointments.
	// Guards doctor deletion.
	ExistsByDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error)

	// ExistsByRoom reports whether the room has any appointments.
	// Guards room deletion.
	ExistsByRoom(ctx context.Context, roomID uuid.UUID) (bool, error)
}

// ConflictStore is the read-only view of persisted appointments the booking
// Validator consults. It is deliberately narrower than Repository so the
// validator cannot write.
type ConflictStore interface {
	// ExistsByRoomAt reports whether any appointment occupies the room at
	// exactly the given datetime.
	ExistsByRoomAt(ctx context.Context, roomID uuid.UUID, at time.Time) (bool, error)

	// ExistsByDoctorAt reports whether the doctor has any appointment at
	// exactly the given datetime.
	ExistsByDoctorAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)

	// FindByPatientBetween returns the patient's appointments with
	// from <= scheduled_at < to. Patient names match by exact string
	// equality.
	FindByPatientBetween(ctx context.Context, patientName string, from, to time.Time) ([]*Appointment, error)

	// CountByDoctorOn counts the doctor's appointments on the calendar day
	// containing the given time.
	CountByDoctorOn(ctx context.Context, doctorID uuid.UUID, day time.Time) (int64, error)

	// GetByID returns ErrAppointmentNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
}
