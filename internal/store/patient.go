package store

import (
	"context"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
)

func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO patients (id, name, email, phone, username, address, password_hash)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Email, p.Phone, p.Username, p.Address, p.PasswordHash,
	)
	return translate(err)
}

func (s *Store) PatientByUsername(ctx context.Context, username string) (*model.Patient, error) {
	return s.patientWhere(ctx, "username = $1", username)
}

func (s *Store) PatientByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return s.patientWhere(ctx, "email = $1", email)
}

func (s *Store) PatientByID(ctx context.Context, id string) (*model.Patient, error) {
	return s.patientWhere(ctx, "id = $1", id)
}

func (s *Store) patientWhere(ctx context.Context, cond string, arg any) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, username, address, password_hash, created_at
		 FROM patients WHERE `+cond, arg,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Username, &p.Address, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}
