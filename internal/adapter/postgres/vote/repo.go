// Package vote implements the issue vote repository using PostgreSQL.
package vote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// Repo provides vote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const addVoteSQL = `INSERT INTO issue_votes (issue_id, user_id, created_at)
	VALUES ($1, $2, $3)`

// Add records one vote for the (issue, user) pair.
// Returns domain.ErrAlreadyExists if the user already voted.
func (r *Repo) Add(ctx context.Context, issueID, userID uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, addVoteSQL, issueID, userID, now); err != nil {
		return postgres.MapError(err, "vote", issueID)
	}

	return nil
}

const removeVoteSQL = `DELETE FROM issue_votes WHERE issue_id = $1 AND user_id = $2`

// Remove withdraws a vote. Returns domain.ErrNotFound if the user never voted.
func (r *Repo) Remove(ctx context.Context, issueID, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, removeVoteSQL, issueID, userID)
	if err != nil {
		return postgres.MapError(err, "vote", issueID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s/%s: %w", issueID, userID, domain.ErrNotFound)
	}

	return nil
}

const hasVotedSQL = `SELECT EXISTS(
	SELECT 1 FROM issue_votes WHERE issue_id = $1 AND user_id = $2)`

// HasVoted reports whether the user has voted for the issue.
func (r *Repo) HasVoted(ctx context.Context, issueID, userID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var voted bool
	if err := q.QueryRow(ctx, hasVotedSQL, issueID, userID).Scan(&voted); err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}

	return voted, nil
}
