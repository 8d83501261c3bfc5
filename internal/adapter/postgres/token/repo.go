// Package token implements the refresh token repository using PostgreSQL.
// Only SHA-256 hashes of refresh tokens are stored.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// Repo provides refresh token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createTokenSQL = `INSERT INTO refresh_tokens
	(id, user_id, token_hash, expires_at, created_at)
	VALUES ($1, $2, $3, $4, $5)`

// Create stores a new refresh token hash.
func (r *Repo) Create(ctx context.Context, t *domain.RefreshToken) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createTokenSQL, t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "refresh_token", t.ID)
	}

	return nil
}

const getTokenByHashSQL = `SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
	FROM refresh_tokens WHERE token_hash = $1`

// GetByHash returns a refresh token by its stored hash.
func (r *Repo) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.RefreshToken
	err := q.QueryRow(ctx, getTokenByHashSQL, hash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return &t, nil
}

const revokeTokenSQL = `UPDATE refresh_tokens SET revoked_at = $2
	WHERE id = $1 AND revoked_at IS NULL`

// Revoke marks a token revoked. Revoking an already-revoked token is a no-op.
func (r *Repo) Revoke(ctx context.Context, id uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, revokeTokenSQL, id, now); err != nil {
		return postgres.MapError(err, "refresh_token", id)
	}

	return nil
}

const revokeAllForUserSQL = `UPDATE refresh_tokens SET revoked_at = $2
	WHERE user_id = $1 AND revoked_at IS NULL`

// RevokeAllForUser revokes every live token a user holds (logout everywhere).
func (r *Repo) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, revokeAllForUserSQL, userID, now); err != nil {
		return fmt.Errorf("revoke tokens for user %s: %w", userID, err)
	}

	return nil
}

const deleteExpiredSQL = `DELETE FROM refresh_tokens WHERE expires_at < $1`

// DeleteExpired removes tokens past their expiry. Returns the rows deleted.
func (r *Repo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteExpiredSQL, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh_tokens: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
