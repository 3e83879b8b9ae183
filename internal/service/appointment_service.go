package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/clinicore/clinic-api/internal/domain/doctor"
	"github.com/clinicore/clinic-api/internal/domain/room"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppointmentDetails joins an appointment with the doctor and room it
// references, for response mapping.
type AppointmentDetails struct {
	Appointment *appointment.Appointment
	Doctor      *doctor.Doctor
	Room        *room.Room
}

type AppointmentService struct {
	repo       appointment.Repository
	doctorRepo doctor.Repository
	roomRepo   room.Repository
	validator  *appointment.Validator
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctorRepo doctor.Repository,
	roomRepo room.Repository,
	validator *appointment.Validator,
	auditSvc *AuditService,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:       repo,
		doctorRepo: doctorRepo,
		roomRepo:   roomRepo,
		validator:  validator,
		auditSvc:   auditSvc,
		log:        log,
	}
}

// Book creates a new appointment after resolving the doctor and room and
// running the booking rules.
func (s *AppointmentService) Book(ctx context.Context, cmd *appointment.BookAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*AppointmentDetails, error) {
	if err := validateBookingInput(cmd.PatientName, cmd.ScheduledAt); err != nil {
		return nil, err
	}

	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}
	r, err := s.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(ctx, &appointment.BookingRequest{
		DoctorID:    cmd.DoctorID,
		RoomID:      cmd.RoomID,
		ScheduledAt: cmd.ScheduledAt,
		PatientName: cmd.PatientName,
	}); err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		DoctorID:    cmd.DoctorID,
		RoomID:      cmd.RoomID,
		ScheduledAt: cmd.ScheduledAt,
		PatientName: cmd.PatientName,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.Time("scheduled_at", a.ScheduledAt),
	)

	return &AppointmentDetails{Appointment: a, Doctor: d, Room: r}, nil
}

// Reschedule replaces an existing appointment's doctor, room, datetime, and
// patient, re-running the booking rules with the appointment excluded from
// self-conflict.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*AppointmentDetails, error) {
	if err := validateBookingInput(cmd.PatientName, cmd.ScheduledAt); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}
	r, err := s.roomRepo.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(ctx, &appointment.BookingRequest{
		DoctorID:    cmd.DoctorID,
		RoomID:      cmd.RoomID,
		ScheduledAt: cmd.ScheduledAt,
		PatientName: cmd.PatientName,
		ExcludeID:   &id,
	}); err != nil {
		return nil, err
	}

	a.DoctorID = cmd.DoctorID
	a.RoomID = cmd.RoomID
	a.ScheduledAt = cmd.ScheduledAt
	a.PatientName = cmd.PatientName

	if err := s.repo.Update(ctx, a); err != nil {
		s.log.Error("failed to update appointment", zap.Error(err))
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return &AppointmentDetails{Appointment: a, Doctor: d, Room: r}, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentDetails, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withReferences(ctx, a)
}

// ListByDay returns the appointments on one calendar day, optionally
// filtered by room and/or doctor, joined with their references.
func (s *AppointmentService) ListByDay(ctx context.Context, q *appointment.ListByDayQuery) ([]*AppointmentDetails, error) {
	appts, err := s.repo.ListByDay(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	doctors := make(map[uuid.UUID]*doctor.Doctor)
	rooms := make(map[uuid.UUID]*room.Room)
	details := make([]*AppointmentDetails, 0, len(appts))
	for _, a := range appts {
		d, ok := doctors[a.DoctorID]
		if !ok {
			if d, err = s.doctorRepo.GetByID(ctx, a.DoctorID); err != nil {
				return nil, fmt.Errorf("resolving doctor %s: %w", a.DoctorID, err)
			}
			doctors[a.DoctorID] = d
		}
		r, ok := rooms[a.RoomID]
		if !ok {
			if r, err = s.roomRepo.GetByID(ctx, a.RoomID); err != nil {
				return nil, fmt.Errorf("resolving room %s: %w", a.RoomID, err)
			}
			rooms[a.RoomID] = r
		}
		details = append(details, &AppointmentDetails{Appointment: a, Doctor: d, Room: r})
	}
	return details, nil
}

// Cancel deletes an appointment that has not yet taken place.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.ScheduledAt.Before(time.Now()) {
		return appointment.ErrAppointmentPassed
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "delete",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment cancelled", zap.String("appointment_id", id.String()))
	return nil
}

func (s *AppointmentService) withReferences(ctx context.Context, a *appointment.Appointment) (*AppointmentDetails, error) {
	d, err := s.doctorRepo.GetByID(ctx, a.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("resolving doctor %s: %w", a.DoctorID, err)
	}
	r, err := s.roomRepo.GetByID(ctx, a.RoomID)
	if err != nil {
		return nil, fmt.Errorf("resolving room %s: %w", a.RoomID, err)
	}
	return &AppointmentDetails{Appointment: a, Doctor: d, Room: r}, nil
}

func validateBookingInput(patientName string, scheduledAt time.Time) error {
	// The name is stored verbatim: proximity matching is exact string
	// equality, so no normalization happens anywhere.
	if strings.TrimSpace(patientName) == "" {
		return appointment.ErrPatientNameRequired
	}
	if len(patientName) > 100 {
		return appointment.ErrPatientNameTooLong
	}
	if scheduledAt.Before(time.Now()) {
		return appointment.ErrScheduledInPast
	}
	return nil
}
