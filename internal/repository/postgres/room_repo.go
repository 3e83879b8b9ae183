package postgres

import (
	"context"
	"errors"

	"github.com/clinicore/clinic-api/internal/domain/room"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

var _ room.Repository = (*RoomRepository)(nil)

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	return r.db.WithContext(ctx).Create(rm).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	var rm room.Room
	err := r.db.WithContext(ctx).First(&rm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, room.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) GetByNumber(ctx context.Context, number int) (*room.Room, error) {
	var rm room.Room
	err := r.db.WithContext(ctx).First(&rm, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, room.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) ExistsByNumber(ctx context.Context, number int, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&room.Room{}).Where("number = ?", number)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*room.Room, error) {
	var rooms []*room.Room
	if err := r.db.WithContext(ctx).Order("number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	return r.db.WithContext(ctx).Save(rm).Error
}

func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&room.Room{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}
