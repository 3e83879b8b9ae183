package service

import (
	"context"
	"fmt"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/clinicore/clinic-api/internal/domain/room"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService struct {
	repo     room.Repository
	apptRepo appointment.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewRoomService(repo room.Repository, apptRepo appointment.Repository, auditSvc *AuditService, log *zap.Logger) *RoomService {
	return &RoomService{repo: repo, apptRepo: apptRepo, auditSvc: auditSvc, log: log}
}

func (s *RoomService) Register(ctx context.Context, cmd *room.RegisterRoomCommand, callerID uuid.UUID, callerRole string, ip string) (*room.Room, error) {
	if cmd.Number <= 0 {
		return nil, room.ErrInvalidRoomNumber
	}

	taken, err := s.repo.ExistsByNumber(ctx, cmd.Number, nil)
	if err != nil {
		s.log.Error("failed to check room number uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking room number: %w", err)
	}
	if taken {
		return nil, room.ErrRoomNumberTaken
	}

	r := &room.Room{Number: cmd.Number, Floor: cmd.Floor}
	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error("failed to create room", zap.Error(err))
		return nil, fmt.Errorf("creating room: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "room",
		ResourceID:   r.ID.String(),
		IPAddress:    ip,
	})

	return r, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RoomService) GetRoomByNumber(ctx context.Context, number int) (*room.Room, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*room.Room, error) {
	return s.repo.List(ctx)
}

func (s *RoomService) UpdateRoom(ctx context.Context, id uuid.UUID, cmd *room.UpdateRoomCommand, callerID uuid.UUID, callerRole string, ip string) (*room.Room, error) {
	if cmd.Number <= 0 {
		return nil, room.ErrInvalidRoomNumber
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByNumber(ctx, cmd.Number, &id)
	if err != nil {
		return nil, fmt.Errorf("checking room number: %w", err)
	}
	if taken {
		return nil, room.ErrRoomNumberTaken
	}

	r.Number = cmd.Number
	r.Floor = cmd.Floor

	if err := s.repo.Update(ctx, r); err != nil {
		s.log.Error("failed to update room", zap.Error(err))
		return nil, fmt.Errorf("updating room: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "room",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return r, nil
}

// DeleteRoom removes a room. A room with appointments cannot be deleted.
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	busy, err := s.apptRepo.ExistsByRoom(ctx, id)
	if err != nil {
		return fmt.Errorf("checking room appointments: %w", err)
	}
	if busy {
		return room.ErrRoomHasAppointments
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "delete",
		ResourceType: "room",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return nil
}
