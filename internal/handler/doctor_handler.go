package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Shekhar0165/doctor-appointment-system/internal/middleware"
	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
	"github.com/Shekhar0165/doctor-appointment-system/internal/schedule"
	"github.com/Shekhar0165/doctor-appointment-system/internal/store"
)

func (h *Handler) ListHospitals(c echo.Context) error {
	hospitals, err := h.store.ListHospitals(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if hospitals == nil {
		hospitals = []model.Hospital{}
	}
	return respond(c, http.StatusOK, hospitals)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.store.ListDoctors(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if doctors == nil {
		doctors = []model.Doctor{}
	}
	return respond(c, http.StatusOK, doctors)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	d, err := h.store.DoctorByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Doctor not found")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, d)
}

type doctorRequest struct {
	Name           string           `json:"name"`
	Specialization string           `json:"specialization"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	AvailableSlots []model.TimeSlot `json:"availableSlots"`
}

func (r doctorRequest) validate() string {
	switch {
	case r.Name == "":
		return "Please provide the doctor name"
	case r.Specialization == "":
		return "Please provide the specialization"
	case r.Phone == "":
		return "Please provide a phone number"
	case r.Email == "":
		return "Please provide an email"
	}
	if err := schedule.ValidateWindows(r.AvailableSlots); err != nil {
		return err.Error()
	}
	return ""
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	d := &model.Doctor{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Specialization: req.Specialization,
		HospitalID:     c.Get(middleware.SubjectIDKey).(string),
		Phone:          req.Phone,
		Email:          req.Email,
		AvailableSlots: req.AvailableSlots,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.store.CreateDoctor(c.Request().Context(), d); err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusCreated, d)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	d := &model.Doctor{
		ID:             c.Param("id"),
		Name:           req.Name,
		Specialization: req.Specialization,
		HospitalID:     c.Get(middleware.SubjectIDKey).(string),
		Phone:          req.Phone,
		Email:          req.Email,
		AvailableSlots: req.AvailableSlots,
	}
	if err := h.store.UpdateDoctor(c.Request().Context(), d); err != nil {
		// not found also covers doctors owned by another hospital
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Doctor not found")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	hospitalID := c.Get(middleware.SubjectIDKey).(string)
	if err := h.store.DeleteDoctor(c.Request().Context(), c.Param("id"), hospitalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Doctor not found")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, echo.Map{})
}

// DoctorAvailability returns the doctor's expanded slot catalog for a date,
// split into free and taken. Advisory: the availability can change between
// this read and a booking attempt, which is why admission re-checks.
func (h *Handler) DoctorAvailability(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return fail(c, http.StatusBadRequest, "date is required")
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	ctx := c.Request().Context()
	d, err := h.store.DoctorByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Doctor not found")
		}
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	free, taken, err := h.booking.Availability(ctx, d, date)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if free == nil {
		free = []schedule.Slot{}
	}
	if taken == nil {
		taken = []schedule.Slot{}
	}
	return respond(c, http.StatusOK, echo.Map{
		"date":       dateStr,
		"day":        date.Weekday().String(),
		"freeSlots":  free,
		"takenSlots": taken,
	})
}
