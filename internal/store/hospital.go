package store

import (
	"context"

	"github.com/Shekhar0165/doctor-appointment-system/internal/model"
)

func (s *Store) CreateHospital(ctx context.Context, h *model.Hospital) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO hospitals (id, name, address, phone, email, username, password_hash)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		h.ID, h.Name, h.Address, h.Phone, h.Email, h.Username, h.PasswordHash,
	)
	return translate(err)
}

func (s *Store) HospitalByUsername(ctx context.Context, username string) (*model.Hospital, error) {
	return s.hospitalWhere(ctx, "username = $1", username)
}

func (s *Store) HospitalByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	return s.hospitalWhere(ctx, "email = $1", email)
}

func (s *Store) HospitalByID(ctx context.Context, id string) (*model.Hospital, error) {
	return s.hospitalWhere(ctx, "id = $1", id)
}

func (s *Store) hospitalWhere(ctx context.Context, cond string, arg any) (*model.Hospital, error) {
	h := &model.Hospital{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, address, phone, email, username, password_hash, created_at
		 FROM hospitals WHERE `+cond, arg,
	).Scan(&h.ID, &h.Name, &h.Address, &h.Phone, &h.Email, &h.Username, &h.PasswordHash, &h.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return h, nil
}

func (s *Store) ListHospitals(ctx context.Context) ([]model.Hospital, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, address, phone, email, username, created_at
		 FROM hospitals ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hospital
	for rows.Next() {
		var h model.Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Phone, &h.Email, &h.Username, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
