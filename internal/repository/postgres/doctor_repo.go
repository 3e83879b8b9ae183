package postgres

import (
	"context"
	"errors"

	"github.com/clinicore/clinic-api/internal/domain/doctor"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

var _ doctor.Repository = (*DoctorRepository)(nil)

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]*doctor.Doctor, error) {
	var doctors []*doctor.Doctor
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorRepository) ListBySpecialty(ctx context.Context, specialty string) ([]*doctor.Doctor, error) {
	var doctors []*doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("specialty = ?", specialty).
		Order("last_name, first_name").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorRepository) Update(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&doctor.Doctor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return doctor.ErrDoctorNotFound
	}
	return nil
}
