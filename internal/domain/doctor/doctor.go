package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FirstName      string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName       string `gorm:"column:last_name;type:varchar(100);not null"`
	SecondLastName string `gorm:"column:second_last_name;type:varchar(100);not null"`
	Specialty      string `gorm:"column:specialty;type:varchar(100);not null;index"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

// FullName is the display name used on appointment responses.
func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

type RegisterDoctorCommand struct {
	FirstName      string
	LastName       string
	SecondLastName string
	Specialty      string
}

type UpdateDoctorCommand struct {
	FirstName      string
	LastName       string
	SecondLastName string
	Specialty      string
}
