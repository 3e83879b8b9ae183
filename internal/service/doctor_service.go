package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/clinicore/clinic-api/internal/domain/doctor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DoctorService struct {
	repo     doctor.Repository
	apptRepo appointment.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewDoctorService(repo doctor.Repository, apptRepo appointment.Repository, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, apptRepo: apptRepo, auditSvc: auditSvc, log: log}
}

func (s *DoctorService) Register(ctx context.Context, cmd *doctor.RegisterDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	if err := validateDoctorFields(cmd.FirstName, cmd.LastName, cmd.Specialty); err != nil {
		return nil, err
	}

	d := &doctor.Doctor{
		FirstName:      strings.TrimSpace(cmd.FirstName),
		LastName:       strings.TrimSpace(cmd.LastName),
		SecondLastName: strings.TrimSpace(cmd.SecondLastName),
		Specialty:      strings.TrimSpace(cmd.Specialty),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "doctor",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})

	return d, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) ListDoctors(ctx context.Context, specialty string) ([]*doctor.Doctor, error) {
	if specialty != "" {
		return s.repo.ListBySpecialty(ctx, specialty)
	}
	return s.repo.List(ctx)
}

func (s *DoctorService) UpdateDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	if err := validateDoctorFields(cmd.FirstName, cmd.LastName, cmd.Specialty); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.FirstName = strings.TrimSpace(cmd.FirstName)
	d.LastName = strings.TrimSpace(cmd.LastName)
	d.SecondLastName = strings.TrimSpace(cmd.SecondLastName)
	d.Specialty = strings.TrimSpace(cmd.Specialty)

	if err := s.repo.Update(ctx, d); err != nil {
		s.log.Error("failed to update doctor", zap.Error(err))
		return nil, fmt.Errorf("updating doctor: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "doctor",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return d, nil
}

// DeleteDoctor removes a doctor. A doctor with appointments cannot be
// deleted; the appointments must be cancelled or rebooked first.
func (s *DoctorService) DeleteDoctor(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	busy, err := s.apptRepo.ExistsByDoctor(ctx, id)
	if err != nil {
		return fmt.Errorf("checking doctor appointments: %w", err)
	}
	if busy {
		return doctor.ErrDoctorHasAppointments
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting doctor: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "delete",
		ResourceType: "doctor",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return nil
}

func validateDoctorFields(firstName, lastName, specialty string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return doctor.ErrNameRequired
	}
	if strings.TrimSpace(specialty) == "" {
		return doctor.ErrSpecialtyRequired
	}
	return nil
}
