package room

import (
	"time"

	"github.com/google/uuid"
)

// Room is a consulting room. Room numbers are unique across the clinic.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Number int `gorm:"column:number;not null;uniqueIndex"`
	Floor  int `gorm:"column:floor;not null"`
}

func (Room) TableName() string {
	return "clinical.rooms"
}

type RegisterRoomCommand struct {
	Number int
	Floor  int
}

type UpdateRoomCommand struct {
	Number int
	Floor  int
}
