package doctor

import "errors"

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrDoctorHasAppointments = errors.New("doctor has appointments and cannot be deleted")
	ErrNameRequired          = errors.New("doctor first and last name are required")
	ErrSpecialtyRequired     = errors.New("doctor specialty is required")
)
