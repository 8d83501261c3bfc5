// Package watcher implements the issue watcher repository using PostgreSQL.
// Rows are (issue_id, user_id) pairs, unique per pair; the fan-out engine
// reads them to compute notification recipients.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// Repo provides watcher persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new watcher repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const addWatcherSQL = `INSERT INTO issue_watchers (issue_id, user_id, created_at)
	VALUES ($1, $2, $3)`

// Add registers a user as a watcher of an issue.
// Returns domain.ErrAlreadyExists if the pair already exists.
func (r *Repo) Add(ctx context.Context, issueID, userID uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, addWatcherSQL, issueID, userID, now); err != nil {
		return postgres.MapError(err, "watcher", issueID)
	}

	return nil
}

const removeWatcherSQL = `DELETE FROM issue_watchers WHERE issue_id = $1 AND user_id = $2`

// Remove unregisters a watcher. Returns domain.ErrNotFound if the pair
// does not exist.
func (r *Repo) Remove(ctx context.Context, issueID, userID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, removeWatcherSQL, issueID, userID)
	if err != nil {
		return postgres.MapError(err, "watcher", issueID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watcher %s/%s: %w", issueID, userID, domain.ErrNotFound)
	}

	return nil
}

// DISTINCT guards against duplicate rows even though the primary key
// should make them impossible; recipients must never be notified twice.
const listWatcherIDsSQL = `SELECT DISTINCT user_id FROM issue_watchers WHERE issue_id = $1`

// ListUserIDs returns the distinct user IDs watching an issue.
// An issue with no watchers yields an empty slice, not an error.
func (r *Repo) ListUserIDs(ctx context.Context, issueID uuid.UUID) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listWatcherIDsSQL, issueID)
	if err != nil {
		return nil, fmt.Errorf("list watchers: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan watcher: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list watchers: %w", err)
	}

	return ids, nil
}

const isWatchingSQL = `SELECT EXISTS(
	SELECT 1 FROM issue_watchers WHERE issue_id = $1 AND user_id = $2)`

// IsWatching reports whether the user watches the issue.
func (r *Repo) IsWatching(ctx context.Context, issueID, userID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var watching bool
	if err := q.QueryRow(ctx, isWatchingSQL, issueID, userID).Scan(&watching); err != nil {
		return false, fmt.Errorf("check watcher: %w", err)
	}

	return watching, nil
}
