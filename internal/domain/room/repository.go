package room

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Room) error

	// GetByID returns ErrRoomNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)

	GetByNumber(ctx context.Context, number int) (*Room, error)

	// ExistsByNumber checks room-number uniqueness without fetching the
	// row. excludeID skips the room being updated.
	ExistsByNumber(ctx context.Context, number int, excludeID *uuid.UUID) (bool, error)

	List(ctx context.Context) ([]*Room, error)

	Update(ctx context.Context, r *Room) error

	Delete(ctx context.Context, id uuid.UUID) error
}
