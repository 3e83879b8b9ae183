package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

var (
	_ appointment.Repository    = (*AppointmentRepository)(nil)
	_ appointment.ConflictStore = (*AppointmentRepository)(nil)
)

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&appointment.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) ListByDay(ctx context.Context, q *appointment.ListByDayQuery) ([]*appointment.Appointment, error) {
	start, end := dayBounds(q.Day)
	tx := r.db.WithContext(ctx).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end)
	if q.RoomID != nil {
		tx = tx.Where("room_id = ?", *q.RoomID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}

	var appts []*appointment.Appointment
	if err := tx.Order("scheduled_at").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) ExistsByDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	return r.exists(ctx, "doctor_id = ?", doctorID)
}

func (r *AppointmentRepository) ExistsByRoom(ctx context.Context, roomID uuid.UUID) (bool, error) {
	return r.exists(ctx, "room_id = ?", roomID)
}

func (r *AppointmentRepository) ExistsByRoomAt(ctx context.Context, roomID uuid.UUID, at time.Time) (bool, error) {
	return r.exists(ctx, "room_id = ? AND scheduled_at = ?", roomID, at)
}

func (r *AppointmentRepository) ExistsByDoctorAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	return r.exists(ctx, "doctor_id = ? AND scheduled_at = ?", doctorID, at)
}

func (r *AppointmentRepository) FindByPatientBetween(ctx context.Context, patientName string, from, to time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_name = ? AND scheduled_at >= ? AND scheduled_at < ?", patientName, from, to).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) CountByDoctorOn(ctx context.Context, doctorID uuid.UUID, day time.Time) (int64, error) {
	start, end := dayBounds(day)
	var n int64
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND scheduled_at >= ? AND scheduled_at < ?", doctorID, start, end).
		Count(&n).Error
	return n, err
}

func (r *AppointmentRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where(query, args...).
		Count(&n).Error
	return n > 0, err
}

// dayBounds returns [midnight, next midnight) in the given time's location;
// calendar dates are never converted across timezones.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
