package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Shekhar0165/doctor-appointment-system/internal/auth"
	"github.com/Shekhar0165/doctor-appointment-system/internal/middleware"
)

// Routes wires the REST surface. Register/login are rate limited; doctor
// management needs a hospital token, booking and cancellation a patient
// token; catalog reads are public.
func (h *Handler) Routes(e *echo.Echo, rl *middleware.RateLimiter) {
	api := e.Group("/api")
	limited := middleware.RateLimit(rl)

	api.POST("/patients/register", h.PatientRegister, limited)
	api.POST("/patients/login", h.PatientLogin, limited)
	api.POST("/hospitals/register", h.HospitalRegister, limited)
	api.POST("/hospitals/login", h.HospitalLogin, limited)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/logout", h.Logout)

	api.GET("/hospitals", h.ListHospitals)
	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.GET("/doctors/:id/availability", h.DoctorAvailability)
	api.GET("/appointments/booked", h.BookedSlots)

	hospital := middleware.Auth(h.secret, auth.RoleHospital)
	api.POST("/doctors", h.CreateDoctor, hospital)
	api.PUT("/doctors/:id", h.UpdateDoctor, hospital)
	api.DELETE("/doctors/:id", h.DeleteDoctor, hospital)
	api.GET("/appointments", h.HospitalAppointments, hospital)

	patient := middleware.Auth(h.secret, auth.RolePatient)
	api.POST("/appointments", h.CreateAppointment, patient)
	api.GET("/appointments/patient", h.PatientAppointments, patient)
	api.GET("/appointments/:id", h.GetAppointment, patient)
	api.PATCH("/appointments/:id/cancel", h.CancelAppointment, patient)
}
