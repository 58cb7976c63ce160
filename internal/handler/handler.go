package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Shekhar0165/doctor-appointment-system/internal/booking"
	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
	"github.com/Shekhar0165/doctor-appointment-system/internal/store"
)

// Store is the persistence surface the handlers need; *store.Store
// implements it. Appointment writes are absent on purpose: they go through
// the booking service.
type Store interface {
	CreateHospital(ctx context.Context, h *model.Hospital) error
	HospitalByUsername(ctx context.Context, username string) (*model.Hospital, error)
	HospitalByEmail(ctx context.Context, email string) (*model.Hospital, error)
	HospitalByID(ctx context.Context, id string) (*model.Hospital, error)
	ListHospitals(ctx context.Context) ([]model.Hospital, error)

	CreatePatient(ctx context.Context, p *model.Patient) error
	PatientByUsername(ctx context.Context, username string) (*model.Patient, error)
	PatientByEmail(ctx context.Context, email string) (*model.Patient, error)
	PatientByID(ctx context.Context, id string) (*model.Patient, error)

	CreateDoctor(ctx context.Context, d *model.Doctor) error
	UpdateDoctor(ctx context.Context, d *model.Doctor) error
	DeleteDoctor(ctx context.Context, id, hospitalID string) error
	DoctorByID(ctx context.Context, id string) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]model.Doctor, error)

	BookedSlots(ctx context.Context, doctorID string, date time.Time) ([]model.TimeSlot, error)
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	AppointmentsByPatientEmail(ctx context.Context, email string) ([]model.Appointment, error)
	AppointmentsByHospital(ctx context.Context, hospitalID string) ([]model.Appointment, error)

	CreateRefreshToken(ctx context.Context, subjectID, role, tokenHash string, expiresAt time.Time) (string, error)
	RefreshTokenByHash(ctx context.Context, tokenHash string) (*store.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, subjectID, role, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, subjectID string) error
}

type Handler struct {
	store   Store
	booking *booking.Service
	secret  string
}

func New(st Store, svc *booking.Service, secret string) *Handler {
	return &Handler{store: st, booking: svc, secret: secret}
}

// Response envelope: {"success": true, "data": …} on success,
// {"success": false, "message": …} on failure.

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"success": true, "data": data})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"success": false, "message": msg})
}

// bookingError maps the admission taxonomy onto HTTP statuses:
// validation → 400, pre-check hit → 400, lost race → 409, unknown id → 404,
// anything else → 500.
func bookingError(c echo.Context, err error) error {
	var verr booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		return fail(c, http.StatusBadRequest,
			"This time slot is already booked. Please select a different time.")
	case errors.Is(err, booking.ErrSlotConflict):
		return fail(c, http.StatusConflict,
			"This time slot was just booked by someone else. Please select a different time.")
	case errors.Is(err, booking.ErrNotFound):
		return fail(c, http.StatusNotFound, "Appointment not found")
	default:
		return fail(c, http.StatusInternalServerError, "internal error")
	}
}

// parseDate accepts the calendar-date form the booking UI sends.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
