package store

import (
	"context"
	"time"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
)

const appointmentCols = `id, doctor_id, hospital_id, patient_name, patient_phone, patient_email,
	date, slot_day, start_time, end_time, status, created_at`

// CreateAppointment inserts the record. The appointments table carries a
// partial unique index on (doctor_id, date, start_time) over non-cancelled
// rows; a violation surfaces as ErrDuplicate and is the authoritative
// double-booking signal.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments
		 (id, doctor_id, hospital_id, patient_name, patient_phone, patient_email,
		  date, slot_day, start_time, end_time, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.DoctorID, a.HospitalID, a.PatientName, a.PatientPhone, a.PatientEmail,
		a.Date, a.TimeSlot.Day, a.TimeSlot.StartTime, a.TimeSlot.EndTime, a.Status,
	)
	return translate(err)
}

// ActiveAppointmentExists is the advisory pre-check for the admission gate:
// is there a non-cancelled appointment for this doctor, date and start time.
func (s *Store) ActiveAppointmentExists(ctx context.Context, doctorID string, date time.Time, startTime string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND date = $2
			  AND start_time = $3
			  AND status <> 'cancelled')`,
		doctorID, date, startTime,
	).Scan(&exists)
	return exists, err
}

// BookedSlots returns the time slots of all non-cancelled appointments for
// the doctor on the given date.
func (s *Store) BookedSlots(ctx context.Context, doctorID string, date time.Time) ([]model.TimeSlot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slot_day, start_time, end_time
		 FROM appointments
		 WHERE doctor_id = $1 AND date = $2 AND status <> 'cancelled'
		 ORDER BY start_time`, doctorID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeSlot
	for rows.Next() {
		var ts model.TimeSlot
		if err := rows.Scan(&ts.Day, &ts.StartTime, &ts.EndTime); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *Store) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.DoctorID, &a.HospitalID, &a.PatientName, &a.PatientPhone, &a.PatientEmail,
		&a.Date, &a.TimeSlot.Day, &a.TimeSlot.StartTime, &a.TimeSlot.EndTime, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// SetAppointmentStatus updates the status and returns the updated record.
// Appointments are never deleted; cancellation goes through here.
func (s *Store) SetAppointmentStatus(ctx context.Context, id, status string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments SET status = $1 WHERE id = $2
		 RETURNING `+appointmentCols, status, id,
	).Scan(&a.ID, &a.DoctorID, &a.HospitalID, &a.PatientName, &a.PatientPhone, &a.PatientEmail,
		&a.Date, &a.TimeSlot.Day, &a.TimeSlot.StartTime, &a.TimeSlot.EndTime, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// AppointmentsByPatientEmail lists a patient's appointments, most recent
// date first.
func (s *Store) AppointmentsByPatientEmail(ctx context.Context, email string) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE patient_email = $1 ORDER BY date DESC, start_time`, email)
}

func (s *Store) AppointmentsByHospital(ctx context.Context, hospitalID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE hospital_id = $1 ORDER BY date, start_time`, hospitalID)
}

func (s *Store) listAppointments(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.DoctorID, &a.HospitalID, &a.PatientName, &a.PatientPhone, &a.PatientEmail,
			&a.Date, &a.TimeSlot.Day, &a.TimeSlot.StartTime, &a.TimeSlot.EndTime, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
