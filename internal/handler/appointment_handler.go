package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Shekhar0165/doctor-appointment-system/internal/booking"
	"github.com/Shekhar0165/doctor-appointment-system/internal/middleware"
	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
	"github.com/Shekhar0165/doctor-appointment-system/internal/store"
)

type bookingRequest struct {
	Doctor   string         `json:"doctor"`
	Hospital string         `json:"hospital"`
	Date     string         `json:"date"`
	TimeSlot model.TimeSlot `json:"timeSlot"`
}

// CreateAppointment books a slot for the authenticated patient. Contact
// details come from the patient record, not the request body.
func (h *Handler) CreateAppointment(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Date == "" {
		return fail(c, http.StatusBadRequest, "Please provide the appointment date")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	ctx := c.Request().Context()
	p, err := h.store.PatientByID(ctx, c.Get(middleware.SubjectIDKey).(string))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	a, err := h.booking.Admit(ctx, booking.Request{
		DoctorID:     req.Doctor,
		HospitalID:   req.Hospital,
		PatientName:  p.Name,
		PatientPhone: p.Phone,
		PatientEmail: p.Email,
		Date:         date,
		Slot:         req.TimeSlot,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return respond(c, http.StatusCreated, a)
}

// BookedSlots lists the non-cancelled time slots for a doctor on a date, so
// the booking UI can grey them out.
func (h *Handler) BookedSlots(c echo.Context) error {
	doctorID := c.QueryParam("doctor")
	dateStr := c.QueryParam("date")
	if doctorID == "" || dateStr == "" {
		return fail(c, http.StatusBadRequest, "Date and doctor ID are required")
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	slots, err := h.store.BookedSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return respond(c, http.StatusOK, slots)
}

// PatientAppointments lists the authenticated patient's appointments, most
// recent date first.
func (h *Handler) PatientAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.store.PatientByID(ctx, c.Get(middleware.SubjectIDKey).(string))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	appointments, err := h.store.AppointmentsByPatientEmail(ctx, p.Email)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	return respond(c, http.StatusOK, appointments)
}

func (h *Handler) HospitalAppointments(c echo.Context) error {
	hospitalID := c.Get(middleware.SubjectIDKey).(string)
	appointments, err := h.store.AppointmentsByHospital(c.Request().Context(), hospitalID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}
	return respond(c, http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.store.PatientByID(ctx, c.Get(middleware.SubjectIDKey).(string))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	a, err := h.store.AppointmentByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Appointment not found")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	// hide other patients' appointments
	if !strings.EqualFold(a.PatientEmail, p.Email) {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	return respond(c, http.StatusOK, a)
}

// CancelAppointment flips the status to cancelled, freeing the slot.
func (h *Handler) CancelAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.store.PatientByID(ctx, c.Get(middleware.SubjectIDKey).(string))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	a, err := h.booking.Cancel(ctx, c.Param("id"), p.Email)
	if err != nil {
		return bookingError(c, err)
	}
	return respond(c, http.StatusOK, a)
}
