package store

import (
	"context"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
)

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO doctors (id, name, specialization, hospital_id, phone, email)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		d.ID, d.Name, d.Specialization, d.HospitalID, d.Phone, d.Email,
	)
	if err != nil {
		return translate(err)
	}

	for i, w := range d.AvailableSlots {
		_, err = tx.Exec(ctx,
			`INSERT INTO doctor_availability (doctor_id, position, slot_day, start_time, end_time)
			 VALUES ($1,$2,$3,$4,$5)`,
			d.ID, i, w.Day, w.StartTime, w.EndTime,
		)
		if err != nil {
			return translate(err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) UpdateDoctor(ctx context.Context, d *model.Doctor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE doctors SET name=$1, specialization=$2, phone=$3, email=$4
		 WHERE id=$5 AND hospital_id=$6`,
		d.Name, d.Specialization, d.Phone, d.Email, d.ID, d.HospitalID,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// replace availability windows
	_, _ = tx.Exec(ctx, `DELETE FROM doctor_availability WHERE doctor_id=$1`, d.ID)
	for i, w := range d.AvailableSlots {
		_, err = tx.Exec(ctx,
			`INSERT INTO doctor_availability (doctor_id, position, slot_day, start_time, end_time)
			 VALUES ($1,$2,$3,$4,$5)`,
			d.ID, i, w.Day, w.StartTime, w.EndTime,
		)
		if err != nil {
			return translate(err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteDoctor(ctx context.Context, id, hospitalID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM doctors WHERE id=$1 AND hospital_id=$2`, id, hospitalID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DoctorByID(ctx context.Context, id string) (*model.Doctor, error) {
	d := &model.Doctor{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, specialization, hospital_id, phone, email, created_at
		 FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Specialization, &d.HospitalID, &d.Phone, &d.Email, &d.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}

	// load availability windows in declaration order
	rows, err := s.pool.Query(ctx,
		`SELECT slot_day, start_time, end_time
		 FROM doctor_availability WHERE doctor_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var w model.TimeSlot
		if err := rows.Scan(&w.Day, &w.StartTime, &w.EndTime); err != nil {
			return nil, err
		}
		d.AvailableSlots = append(d.AvailableSlots, w)
	}
	return d, rows.Err()
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, specialization, hospital_id, phone, email, created_at
		 FROM doctors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Doctor
	index := make(map[string]int)
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialization, &d.HospitalID, &d.Phone, &d.Email, &d.CreatedAt); err != nil {
			return nil, err
		}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	wrows, err := s.pool.Query(ctx,
		`SELECT doctor_id, slot_day, start_time, end_time
		 FROM doctor_availability ORDER BY doctor_id, position`)
	if err != nil {
		return nil, err
	}
	defer wrows.Close()

	for wrows.Next() {
		var doctorID string
		var w model.TimeSlot
		if err := wrows.Scan(&doctorID, &w.Day, &w.StartTime, &w.EndTime); err != nil {
			return nil, err
		}
		if i, ok := index[doctorID]; ok {
			out[i].AvailableSlots = append(out[i].AvailableSlots, w)
		}
	}
	return out, wrows.Err()
}
