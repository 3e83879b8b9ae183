package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error

	// GetByID returns ErrDoctorNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	List(ctx context.Context) ([]*Doctor, error)

	ListBySpecialty(ctx context.Context, specialty string) ([]*Doctor, error)

	Update(ctx context.Context, d *Doctor) error

	Delete(ctx context.Context, id uuid.UUID) error
}
