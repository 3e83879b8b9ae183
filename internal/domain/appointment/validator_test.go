package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// memStore is a map-backed ConflictStore for validator tests.
type memStore struct {
	appts map[uuid.UUID]*Appointment
}

func newMemStore() *memStore {
	return &memStore{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *memStore) add(doctorID, roomID uuid.UUID, at time.Time, patient string) *Appointment {
	a := &Appointment{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		RoomID:      roomID,
		ScheduledAt: at,
		PatientName: patient,
	}
	m.appts[a.ID] = a
	return a
}

func (m *memStore) ExistsByRoomAt(_ context.Context, roomID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range m.appts {
		if a.RoomID == roomID && a.ScheduledAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistsByDoctorAt(_ context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range m.appts {
		if a.DoctorID == doctorID && a.ScheduledAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) FindByPatientBetween(_ context.Context, patientName string, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PatientName == patientName && !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *memStore) CountByDoctorOn(_ context.Context, doctorID uuid.UUID, day time.Time) (int64, error) {
	var n int64
	for _, a := range m.appts {
		if a.DoctorID == doctorID && sameCalendarDay(a.ScheduledAt, day) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 1, hour, min, 0, 0, time.UTC)
}

func requireViolation(t *testing.T, err error, rule Rule) {
	t.Helper()
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected violation, got %v", err)
	}
	if v.Rule != rule {
		t.Fatalf("expected rule %s, got %s (%s)", rule, v.Rule, v.Message)
	}
}

func TestValidateAcceptsFreeSlot(t *testing.T) {
	store := newMemStore()
	v := NewValidator(store)

	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    uuid.New(),
		RoomID:      uuid.New(),
		ScheduledAt: at(10, 0),
		PatientName: "Ana Gomez",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoomConflict(t *testing.T) {
	store := newMemStore()
	room := uuid.New()
	store.add(uuid.New(), room, at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    uuid.New(),
		RoomID:      room,
		ScheduledAt: at(10, 0),
		PatientName: "Luis Perez",
	})
	requireViolation(t, err, RuleRoomConflict)
}

func TestDoctorConflict(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	store.add(doctor, uuid.New(), at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      uuid.New(),
		ScheduledAt: at(10, 0),
		PatientName: "Luis Perez",
	})
	requireViolation(t, err, RuleDoctorConflict)
}

func TestDoctorConflictExactTimeOnly(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	store.add(doctor, uuid.New(), at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	// Same doctor, same day, different time: only exact collisions count.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      uuid.New(),
		ScheduledAt: at(14, 0),
		PatientName: "Luis Perez",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoomConflictFirstWhenBothCollide(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	room := uuid.New()
	store.add(doctor, room, at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	// Both the room and doctor rules would fire; evaluation stops at the
	// room rule.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      room,
		ScheduledAt: at(10, 0),
		PatientName: "Luis Perez",
	})
	requireViolation(t, err, RuleRoomConflict)
}

func TestSelfEditSameSlotAccepted(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	room := uuid.New()
	existing := store.add(doctor, room, at(9, 0), "Ana Gomez")
	v := NewValidator(store)

	// Editing an appointment without changing room, doctor, or datetime
	// must never conflict with itself.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      room,
		ScheduledAt: at(9, 0),
		PatientName: "Ana Gomez",
		ExcludeID:   &existing.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEditIntoOccupiedRoomRejected(t *testing.T) {
	store := newMemStore()
	room := uuid.New()
	store.add(uuid.New(), room, at(10, 0), "Ana Gomez")
	edited := store.add(uuid.New(), uuid.New(), at(12, 0), "Luis Perez")
	v := NewValidator(store)

	// The occupant at the target slot is a different appointment, so the
	// exclusion does not apply.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    edited.DoctorID,
		RoomID:      room,
		ScheduledAt: at(10, 0),
		PatientName: "Luis Perez",
		ExcludeID:   &edited.ID,
	})
	requireViolation(t, err, RuleRoomConflict)
}

func TestDanglingExcludeIDFallsBackToCreateSemantics(t *testing.T) {
	store := newMemStore()
	room := uuid.New()
	store.add(uuid.New(), room, at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	ghost := uuid.New()
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    uuid.New(),
		RoomID:      room,
		ScheduledAt: at(10, 0),
		PatientName: "Luis Perez",
		ExcludeID:   &ghost,
	})
	requireViolation(t, err, RuleRoomConflict)
}

func TestPatientProximityRejected(t *testing.T) {
	store := newMemStore()
	store.add(uuid.New(), uuid.New(), at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	// 90 minutes apart: under the 120-minute spacing.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    uuid.New(),
		RoomID:      uuid.New(),
		ScheduledAt: at(11, 30),
		PatientName: "Ana Gomez",
	})
	requireViolation(t, err, RulePatientProximity)
}

func TestPatientProximityBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		proposed time.Time
		rejected bool
	}{
		{"118 minutes before", at(8, 2), true},
		// The search window's upper bound is exclusive, so a candidate
		// sitting exactly 119 minutes ahead is never fetched.
		{"119 minutes before", at(8, 1), false},
		{"119 minutes after", at(11, 59), true},
		{"exactly 120 minutes after", at(12, 0), false},
		{"exactly 120 minutes before", at(8, 0), false},
		{"125 minutes after", at(12, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.add(uuid.New(), uuid.New(), at(10, 0), "Ana Gomez")
			v := NewValidator(store)

			err := v.Validate(context.Background(), &BookingRequest{
				DoctorID:    uuid.New(),
				RoomID:      uuid.New(),
				ScheduledAt: tt.proposed,
				PatientName: "Ana Gomez",
			})
			if tt.rejected {
				requireViolation(t, err, RulePatientProximity)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPatientNameMatchIsCaseSensitive(t *testing.T) {
	store := newMemStore()
	store.add(uuid.New(), uuid.New(), at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	// Free-text names match by exact string equality; no normalization.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    uuid.New(),
		RoomID:      uuid.New(),
		ScheduledAt: at(11, 0),
		PatientName: "ana gomez",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPatientProximityEditExcludesSelf(t *testing.T) {
	store := newMemStore()
	edited := store.add(uuid.New(), uuid.New(), at(10, 0), "Ana Gomez")
	v := NewValidator(store)

	// Nudging the patient's only appointment by 30 minutes: the lone
	// proximity candidate is the appointment being edited.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    edited.DoctorID,
		RoomID:      edited.RoomID,
		ScheduledAt: at(10, 30),
		PatientName: "Ana Gomez",
		ExcludeID:   &edited.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// fillDoctorDay books the doctor into n hourly slots starting at 08:00, each
// in its own room with a distinct patient.
func fillDoctorDay(store *memStore, doctor uuid.UUID, n int) []*Appointment {
	appts := make([]*Appointment, 0, n)
	patients := []string{
		"Ana Gomez", "Luis Perez", "Carla Diaz", "Ruben Soto",
		"Elena Ortiz", "Mario Luna", "Sofia Vega", "Diego Rios",
	}
	for i := 0; i < n; i++ {
		appts = append(appts, store.add(doctor, uuid.New(), at(8+i, 0), patients[i%len(patients)]))
	}
	return appts
}

func TestDoctorDailyLimitNinthRejected(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	fillDoctorDay(store, doctor, 8)
	v := NewValidator(store)

	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      uuid.New(),
		ScheduledAt: at(18, 0),
		PatientName: "Nora Ibarra",
	})
	requireViolation(t, err, RuleDoctorDailyLimit)
}

func TestDoctorDailyLimitEditAtCapacityAccepted(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	appts := fillDoctorDay(store, doctor, 8)
	edited := appts[2]
	v := NewValidator(store)

	// The doctor is at exactly 8; moving one of those 8 within the same
	// day is not a 9th appointment.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      edited.RoomID,
		ScheduledAt: at(18, 30),
		PatientName: edited.PatientName,
		ExcludeID:   &edited.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoctorDailyLimitEditFromAnotherDayRejected(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	fillDoctorDay(store, doctor, 8)
	otherDay := store.add(doctor, uuid.New(), at(10, 0).AddDate(0, 0, 1), "Nora Ibarra")
	v := NewValidator(store)

	// Moving an appointment in from another day would be a 9th on the
	// target date.
	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      otherDay.RoomID,
		ScheduledAt: at(18, 30),
		PatientName: "Nora Ibarra",
		ExcludeID:   &otherDay.ID,
	})
	requireViolation(t, err, RuleDoctorDailyLimit)
}

func TestDoctorDailyLimitSeventhAccepted(t *testing.T) {
	store := newMemStore()
	doctor := uuid.New()
	fillDoctorDay(store, doctor, 6)
	v := NewValidator(store)

	err := v.Validate(context.Background(), &BookingRequest{
		DoctorID:    doctor,
		RoomID:      uuid.New(),
		ScheduledAt: at(18, 0),
		PatientName: "Nora Ibarra",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
