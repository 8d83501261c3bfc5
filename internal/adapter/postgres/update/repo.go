// Package update implements the issue update-feed repository using PostgreSQL.
// It provides append-only operations for the human-readable event entries
// attached to issues.
package update

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// Repo provides issue update persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new update repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createUpdateSQL = `INSERT INTO issue_updates
	(id, issue_id, author_id, content, type, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Create appends one update entry. Entries are never mutated or deleted.
func (r *Repo) Create(ctx context.Context, u *domain.IssueUpdate) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, createUpdateSQL,
		u.ID, u.IssueID, u.AuthorID, u.Content, string(u.Type), u.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "issue_update", u.ID)
	}

	return nil
}

const listUpdatesSQL = `SELECT id, issue_id, author_id, content, type, created_at
	FROM issue_updates
	WHERE issue_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`

// ListByIssue returns the update feed for an issue, newest first.
func (r *Repo) ListByIssue(ctx context.Context, issueID uuid.UUID, limit, offset int) ([]*domain.IssueUpdate, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listUpdatesSQL, issueID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list issue_updates: %w", err)
	}
	defer rows.Close()

	var updates []*domain.IssueUpdate
	for rows.Next() {
		var (
			u       domain.IssueUpdate
			typeTag string
		)
		if err := rows.Scan(&u.ID, &u.IssueID, &u.AuthorID, &u.Content, &typeTag, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan issue_update: %w", err)
		}
		u.Type = domain.UpdateType(typeTag)
		updates = append(updates, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issue_updates: %w", err)
	}

	return updates, nil
}
