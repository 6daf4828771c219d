package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenStore tracks revoked access-token IDs (jti) until their natural
// expiry, so logout works with otherwise stateless JWTs.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokensStore struct {
	db *sql.DB
}

func NewTokensStore(db *sql.DB) TokenStore {
	return &tokensStore{db: db}
}

func (s *tokensStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens(jti, expires_at) VALUES(?,?)
		ON CONFLICT(jti) DO NOTHING`, jti, expiresAt.UTC())
	return err
}

func (s *tokensStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM revoked_tokens WHERE jti=?`, jti)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *tokensStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
