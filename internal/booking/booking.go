// Package booking is the sole gate through which appointments are created
// and cancelled. Admission runs two layers: an advisory pre-check against
// existing bookings, then an insert guarded by the database's uniqueness
// constraint on (doctor, date, start time). The constraint is the
// enforcement point; the pre-check only gives the friendlier error.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
	"github.com/Shekhar0165/doctor-appointment-system/internal/schedule"
	"github.com/Shekhar0165/doctor-appointment-system/internal/store"
)

var (
	// ErrSlotTaken: the pre-check found an existing booking for the slot.
	ErrSlotTaken = errors.New("this time slot is already booked")
	// ErrSlotConflict: the insert lost a race; a concurrent booking took
	// the slot between the pre-check and the write.
	ErrSlotConflict = errors.New("this time slot was just booked by someone else")
	// ErrNotFound: no appointment with the given id is visible to the
	// caller.
	ErrNotFound = errors.New("appointment not found")
)

// ValidationError reports a missing or malformed request field.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Repository is the persistence surface the booking service needs. The
// production implementation is *store.Store; CreateAppointment must return
// store.ErrDuplicate when the slot uniqueness constraint is violated.
type Repository interface {
	ActiveAppointmentExists(ctx context.Context, doctorID string, date time.Time, startTime string) (bool, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	SetAppointmentStatus(ctx context.Context, id, status string) (*model.Appointment, error)
	BookedSlots(ctx context.Context, doctorID string, date time.Time) ([]model.TimeSlot, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Request is a booking attempt for one slot. Patient identity comes from
// the authenticated session, not from client-held state.
type Request struct {
	DoctorID     string
	HospitalID   string
	PatientName  string
	PatientPhone string
	PatientEmail string
	Date         time.Time
	Slot         model.TimeSlot
}

func (r Request) validate() error {
	switch {
	case r.DoctorID == "":
		return ValidationError("doctor is required")
	case r.HospitalID == "":
		return ValidationError("hospital is required")
	case r.PatientName == "":
		return ValidationError("patient name is required")
	case r.PatientPhone == "":
		return ValidationError("patient phone is required")
	case r.PatientEmail == "":
		return ValidationError("patient email is required")
	case !strings.Contains(r.PatientEmail, "@"):
		return ValidationError("patient email is invalid")
	case r.Date.IsZero():
		return ValidationError("appointment date is required")
	case r.Slot.Day == "" || r.Slot.StartTime == "" || r.Slot.EndTime == "":
		return ValidationError("time slot is required")
	}
	return nil
}

// Admit creates the appointment if the slot is free. Exactly one of any
// set of concurrent calls for the same (doctor, date, start time) succeeds;
// the others get ErrSlotTaken or ErrSlotConflict depending on timing.
func (s *Service) Admit(ctx context.Context, req Request) (*model.Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.ActiveAppointmentExists(ctx, req.DoctorID, req.Date, req.Slot.StartTime)
	if err != nil {
		return nil, fmt.Errorf("slot pre-check: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	a := &model.Appointment{
		ID:           uuid.New().String(),
		DoctorID:     req.DoctorID,
		HospitalID:   req.HospitalID,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PatientEmail: req.PatientEmail,
		Date:         req.Date,
		TimeSlot:     req.Slot,
		Status:       model.StatusScheduled,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// Cancel marks the appointment cancelled, freeing its slot for future
// admission. The appointment must belong to patientEmail; a mismatch is
// reported as not found so callers cannot probe other patients' bookings.
func (s *Service) Cancel(ctx context.Context, id, patientEmail string) (*model.Appointment, error) {
	a, err := s.repo.AppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if !strings.EqualFold(a.PatientEmail, patientEmail) {
		return nil, ErrNotFound
	}

	updated, err := s.repo.SetAppointmentStatus(ctx, id, model.StatusCancelled)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return updated, nil
}

// Availability expands the doctor's weekly windows for the date and splits
// the resulting catalog into free and taken slots. Advisory only; Admit is
// where the answer becomes binding.
func (s *Service) Availability(ctx context.Context, doctor *model.Doctor, date time.Time) (free, taken []schedule.Slot, err error) {
	booked, err := s.repo.BookedSlots(ctx, doctor.ID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("booked slots: %w", err)
	}

	bookedSlots := make([]schedule.Slot, len(booked))
	for i, b := range booked {
		bookedSlots[i] = schedule.Slot{StartTime: b.StartTime, EndTime: b.EndTime}
	}

	catalog := schedule.ExpandSlots(doctor.AvailableSlots, date)
	free, taken = schedule.Partition(catalog, bookedSlots)
	return free, taken, nil
}
