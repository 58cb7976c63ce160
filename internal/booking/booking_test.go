package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
	"github.com/Shekhar0165/doctor-appointment-system/internal/store"
)

// fakeRepo enforces the composite-key constraint under a mutex, the way the
// database's partial unique index does: at most one non-cancelled row per
// (doctor, date, start time).
type fakeRepo struct {
	mu           sync.Mutex
	appointments map[string]*model.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[string]*model.Appointment)}
}

func slotKey(doctorID string, date time.Time, startTime string) string {
	return doctorID + "|" + date.Format("2006-01-02") + "|" + startTime
}

func (r *fakeRepo) ActiveAppointmentExists(_ context.Context, doctorID string, date time.Time, startTime string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(doctorID, date, startTime), nil
}

func (r *fakeRepo) activeLocked(doctorID string, date time.Time, startTime string) bool {
	key := slotKey(doctorID, date, startTime)
	for _, a := range r.appointments {
		if a.Status != model.StatusCancelled && slotKey(a.DoctorID, a.Date, a.TimeSlot.StartTime) == key {
			return true
		}
	}
	return false
}

func (r *fakeRepo) CreateAppointment(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeLocked(a.DoctorID, a.Date, a.TimeSlot.StartTime) {
		return store.ErrDuplicate
	}
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeRepo) AppointmentByID(_ context.Context, id string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) SetAppointmentStatus(_ context.Context, id, status string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) BookedSlots(_ context.Context, doctorID string, date time.Time) ([]model.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TimeSlot
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != model.StatusCancelled {
			out = append(out, a.TimeSlot)
		}
	}
	return out, nil
}

func (r *fakeRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.appointments {
		if a.Status != model.StatusCancelled {
			n++
		}
	}
	return n
}

var testDate = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) // a Monday

func testRequest() Request {
	return Request{
		DoctorID:     "doc-1",
		HospitalID:   "hosp-1",
		PatientName:  "Jordan Reyes",
		PatientPhone: "5550100",
		PatientEmail: "jordan@example.com",
		Date:         testDate,
		Slot:         model.TimeSlot{Day: "Monday", StartTime: "09:00", EndTime: "09:59"},
	}
}

func TestAdmitSuccess(t *testing.T) {
	svc := NewService(newFakeRepo())

	a, err := svc.Admit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if a.Status != model.StatusScheduled {
		t.Errorf("expected scheduled, got %s", a.Status)
	}
	if a.ID == "" {
		t.Error("empty appointment id")
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("id is not a uuid: %v", err)
	}
}

func TestAdmitValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing doctor", func(r *Request) { r.DoctorID = "" }},
		{"missing hospital", func(r *Request) { r.HospitalID = "" }},
		{"missing name", func(r *Request) { r.PatientName = "" }},
		{"missing phone", func(r *Request) { r.PatientPhone = "" }},
		{"missing email", func(r *Request) { r.PatientEmail = "" }},
		{"bad email", func(r *Request) { r.PatientEmail = "not-an-email" }},
		{"missing date", func(r *Request) { r.Date = time.Time{} }},
		{"missing slot", func(r *Request) { r.Slot = model.TimeSlot{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			_, err := svc.Admit(context.Background(), req)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestAdmitSlotTaken(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Admit(ctx, testRequest()); err != nil {
		t.Fatalf("first admit: %v", err)
	}

	// same key, different patient
	req := testRequest()
	req.PatientName = "Sam Okafor"
	req.PatientEmail = "sam@example.com"
	_, err := svc.Admit(ctx, req)
	if !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}
	if n := repo.activeCount(); n != 1 {
		t.Errorf("expected 1 active appointment, got %d", n)
	}
}

func TestAdmitDifferentSlotsNoConflict(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Admit(ctx, testRequest()); err != nil {
		t.Fatalf("first admit: %v", err)
	}

	req := testRequest()
	req.Slot = model.TimeSlot{Day: "Monday", StartTime: "10:00", EndTime: "10:59"}
	if _, err := svc.Admit(ctx, req); err != nil {
		t.Errorf("different slot should succeed: %v", err)
	}

	// same slot, different doctor
	req = testRequest()
	req.DoctorID = "doc-2"
	if _, err := svc.Admit(ctx, req); err != nil {
		t.Errorf("different doctor should succeed: %v", err)
	}

	// same slot, different date
	req = testRequest()
	req.Date = testDate.AddDate(0, 0, 7)
	if _, err := svc.Admit(ctx, req); err != nil {
		t.Errorf("different date should succeed: %v", err)
	}
}

// raceRepo reports the slot free during the pre-check so every admission
// proceeds to the insert, where the constraint decides the winner.
type raceRepo struct{ *fakeRepo }

func (r *raceRepo) ActiveAppointmentExists(context.Context, string, time.Time, string) (bool, error) {
	return false, nil
}

func TestAdmitRace(t *testing.T) {
	repo := &raceRepo{newFakeRepo()}
	svc := NewService(repo)

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Admit(context.Background(), testRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 success, got %d", successes)
	}
	if conflicts != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
	}
	if cnt := repo.activeCount(); cnt != 1 {
		t.Errorf("expected exactly 1 stored appointment, got %d", cnt)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	a, err := svc.Admit(ctx, testRequest())
	if err != nil {
		t.Fatalf("admit: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, a.ID, "jordan@example.com")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	// same key admits again after cancellation
	if _, err := svc.Admit(ctx, testRequest()); err != nil {
		t.Errorf("rebooking a cancelled slot should succeed: %v", err)
	}
}

func TestCancelOwnership(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	a, err := svc.Admit(ctx, testRequest())
	if err != nil {
		t.Fatalf("admit: %v", err)
	}

	// another patient cannot cancel, and cannot learn the id exists
	_, err = svc.Cancel(ctx, a.ID, "intruder@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// case-insensitive email match for the owner
	if _, err := svc.Cancel(ctx, a.ID, "Jordan@Example.com"); err != nil {
		t.Errorf("owner cancel: %v", err)
	}
}

func TestCancelUnknownID(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Cancel(context.Background(), uuid.New().String(), "jordan@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor := &model.Doctor{
		ID: "doc-1",
		AvailableSlots: []model.TimeSlot{
			{Day: "Monday", StartTime: "09:00", EndTime: "12:00"},
		},
	}

	req := testRequest()
	req.Slot = model.TimeSlot{Day: "Monday", StartTime: "10:00", EndTime: "10:59"}
	if _, err := svc.Admit(ctx, req); err != nil {
		t.Fatalf("admit: %v", err)
	}

	free, taken, err := svc.Availability(ctx, doctor, testDate)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(free) != 2 || len(taken) != 1 {
		t.Fatalf("expected 2 free / 1 taken, got %d / %d", len(free), len(taken))
	}
	if taken[0].StartTime != "10:00" {
		t.Errorf("expected 10:00 taken, got %s", taken[0].StartTime)
	}
}
