package appointment

import (
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the wire format for appointment datetimes. Appointments are
// scheduled with second precision and compared without timezone conversion.
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout is the wire format for calendar dates in list queries.
const DateLayout = "2006-01-02"

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID    uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	RoomID      uuid.UUID `gorm:"column:room_id;type:uuid;not null;index"`
	ScheduledAt time.Time `gorm:"column:scheduled_at;not null;index"`
	PatientName string    `gorm:"column:patient_name;type:varchar(100);not null;index"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

type BookAppointmentCommand struct {
	DoctorID    uuid.UUID
	RoomID      uuid.UUID
	ScheduledAt time.Time
	PatientName string
}

// RescheduleAppointmentCommand carries the full replacement state for an
// existing appointment; edits are whole-record, as on the create path.
type RescheduleAppointmentCommand struct {
	DoctorID    uuid.UUID
	RoomID      uuid.UUID
	ScheduledAt time.Time
	PatientName string
}

// ListByDayQuery filters appointments to a single calendar day, optionally
// narrowed to one room and/or one doctor.
type ListByDayQuery struct {
	Day      time.Time
	RoomID   *uuid.UUID
	DoctorID *uuid.UUID
}
