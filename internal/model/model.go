package model

import "time"

// Appointment statuses. Records are never deleted; cancellation flips the
// status, which frees the slot for rebooking.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// TimeSlot is a weekly availability window on a doctor and, once booked,
// the hour-slot snapshot stored on an appointment. Times are "HH:MM".
type TimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Hospital struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Patient struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Username     string    `json:"username"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Doctor struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Specialization string     `json:"specialization"`
	HospitalID     string     `json:"hospital"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	AvailableSlots []TimeSlot `json:"availableSlots"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type Appointment struct {
	ID           string    `json:"id"`
	DoctorID     string    `json:"doctor"`
	HospitalID   string    `json:"hospital"`
	PatientName  string    `json:"patientName"`
	PatientPhone string    `json:"patientPhone"`
	PatientEmail string    `json:"patientEmail"`
	Date         time.Time `json:"date"`
	TimeSlot     TimeSlot  `json:"timeSlot"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
