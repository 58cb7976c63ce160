package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a server-side session record. SubjectID and Role identify
// the account (patient or hospital) the token belongs to.
type RefreshToken struct {
	ID         string
	SubjectID  string
	Role       string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

func (s *Store) CreateRefreshToken(ctx context.Context, subjectID, role, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, subject_id, role, token_hash, expires_at) VALUES ($1,$2,$3,$4,$5)`,
		id, subjectID, role, tokenHash, expiresAt,
	)
	return id, err
}

func (s *Store) RefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	rt := &RefreshToken{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, subject_id, role, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash,
	).Scan(&rt.ID, &rt.SubjectID, &rt.Role, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.ReplacedBy, &rt.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return rt, nil
}

// RotateRefreshToken revokes the old token, creates the new one, and links
// them, all in one transaction.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID, newID, subjectID, role, newHash string, newExpiry time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, replaced_by = $1 WHERE id = $2`,
		newID, oldID,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, subject_id, role, token_hash, expires_at) VALUES ($1,$2,$3,$4,$5)`,
		newID, subjectID, role, newHash, newExpiry,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RevokeAllRefreshTokens revokes every live token for an account (logout or
// suspected theft).
func (s *Store) RevokeAllRefreshTokens(ctx context.Context, subjectID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE subject_id = $1 AND revoked = false`,
		subjectID,
	)
	return err
}
