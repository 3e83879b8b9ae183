package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrScheduledInPast     = errors.New("cannot schedule appointment in the past")
	ErrPatientNameRequired = errors.New("patient name is required")
	ErrPatientNameTooLong  = errors.New("patient name must not exceed 100 characters")
	ErrAppointmentPassed   = errors.New("cannot cancel an appointment that has already passed")
)
