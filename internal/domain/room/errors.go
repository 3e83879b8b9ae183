package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomNumberTaken     = errors.New("a room with this number already exists")
	ErrRoomHasAppointments = errors.New("room has appointments and cannot be deleted")
	ErrInvalidRoomNumber   = errors.New("room number must be positive")
)
