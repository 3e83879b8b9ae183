package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicore/clinic-api/internal/domain/appointment"
	"github.com/clinicore/clinic-api/internal/domain/doctor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newDoctorFixture(t *testing.T) (*DoctorService, *memDoctorRepo, *memApptRepo) {
	t.Helper()

	repo := newMemDoctorRepo()
	apptRepo := newMemApptRepo()

	auditSvc := NewAuditService(&memAuditRepo{}, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)

	return NewDoctorService(repo, apptRepo, auditSvc, zap.NewNop()), repo, apptRepo
}

func TestRegisterDoctor(t *testing.T) {
	svc, _, _ := newDoctorFixture(t)

	d, err := svc.Register(context.Background(), &doctor.RegisterDoctorCommand{
		FirstName: "  Laura ",
		LastName:  "Medina",
		Specialty: "Cardiology",
	}, uuid.New(), "admin", "10.0.0.1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if d.FirstName != "Laura" {
		t.Errorf("FirstName = %q, want trimmed %q", d.FirstName, "Laura")
	}
	if d.ID == uuid.Nil {
		t.Error("expected doctor to be assigned an id")
	}
}

func TestRegisterDoctorRequiresName(t *testing.T) {
	svc, _, _ := newDoctorFixture(t)

	_, err := svc.Register(context.Background(), &doctor.RegisterDoctorCommand{
		FirstName: "",
		LastName:  "Medina",
		Specialty: "Cardiology",
	}, uuid.New(), "admin", "10.0.0.1")
	if !errors.Is(err, doctor.ErrNameRequired) {
		t.Errorf("Register() error = %v, want ErrNameRequired", err)
	}
}

func TestRegisterDoctorRequiresSpecialty(t *testing.T) {
	svc, _, _ := newDoctorFixture(t)

	_, err := svc.Register(context.Background(), &doctor.RegisterDoctorCommand{
		FirstName: "Laura",
		LastName:  "Medina",
		Specialty: "  ",
	}, uuid.New(), "admin", "10.0.0.1")
	if !errors.Is(err, doctor.ErrSpecialtyRequired) {
		t.Errorf("Register() error = %v, want ErrSpecialtyRequired", err)
	}
}

func TestListDoctorsBySpecialty(t *testing.T) {
	svc, repo, _ := newDoctorFixture(t)

	seed := []*doctor.Doctor{
		{FirstName: "Laura", LastName: "Medina", Specialty: "Cardiology"},
		{FirstName: "Jorge", LastName: "Soto", Specialty: "Dermatology"},
	}
	for _, d := range seed {
		if err := repo.Create(context.Background(), d); err != nil {
			t.Fatalf("seeding doctor: %v", err)
		}
	}

	cardiologists, err := svc.ListDoctors(context.Background(), "Cardiology")
	if err != nil {
		t.Fatalf("ListDoctors() error = %v", err)
	}
	if len(cardiologists) != 1 {
		t.Fatalf("len(cardiologists) = %d, want 1", len(cardiologists))
	}

	all, err := svc.ListDoctors(context.Background(), "")
	if err != nil {
		t.Fatalf("ListDoctors() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}
}

func TestUpdateDoctor(t *testing.T) {
	svc, repo, _ := newDoctorFixture(t)

	d := &doctor.Doctor{FirstName: "Laura", LastName: "Medina", Specialty: "Cardiology"}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding doctor: %v", err)
	}

	updated, err := svc.UpdateDoctor(context.Background(), d.ID, &doctor.UpdateDoctorCommand{
		FirstName: "Laura",
		LastName:  "Medina",
		Specialty: "Pediatrics",
	}, uuid.New(), "admin", "10.0.0.1")
	if err != nil {
		t.Fatalf("UpdateDoctor() error = %v", err)
	}
	if updated.Specialty != "Pediatrics" {
		t.Errorf("Specialty = %q, want %q", updated.Specialty, "Pediatrics")
	}
}

func TestDeleteDoctorBlockedByAppointments(t *testing.T) {
	svc, repo, apptRepo := newDoctorFixture(t)

	d := &doctor.Doctor{FirstName: "Laura", LastName: "Medina", Specialty: "Cardiology"}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding doctor: %v", err)
	}
	if err := apptRepo.Create(context.Background(), &appointment.Appointment{
		DoctorID:    d.ID,
		RoomID:      uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
		PatientName: "Ana Torres",
	}); err != nil {
		t.Fatalf("seeding appointment: %v", err)
	}

	err := svc.DeleteDoctor(context.Background(), d.ID, uuid.New(), "admin", "10.0.0.1")
	if !errors.Is(err, doctor.ErrDoctorHasAppointments) {
		t.Errorf("DeleteDoctor() error = %v, want ErrDoctorHasAppointments", err)
	}
}

func TestDeleteDoctor(t *testing.T) {
	svc, repo, _ := newDoctorFixture(t)

	d := &doctor.Doctor{FirstName: "Laura", LastName: "Medina", Specialty: "Cardiology"}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding doctor: %v", err)
	}

	if err := svc.DeleteDoctor(context.Background(), d.ID, uuid.New(), "admin", "10.0.0.1"); err != nil {
		t.Fatalf("DeleteDoctor() error = %v", err)
	}
	if _, err := svc.GetDoctor(context.Background(), d.ID); !errors.Is(err, doctor.ErrDoctorNotFound) {
		t.Errorf("GetDoctor() after delete error = %v, want ErrDoctorNotFound", err)
	}
}
