// Package issue implements the Issue repository using PostgreSQL.
// It owns the issue row (the single source of truth for status, counters
// and timestamps) and the dashboard aggregate queries.
package issue

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides issue persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new issue repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const issueColumns = `id, title, description, category, status, vote_count, watcher_count,
	author_id, department_id, created_at, updated_at, resolved_at, resolved_by`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getIssueSQL = `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`

// GetByID returns an issue by primary key.
// Returns domain.ErrNotFound if the issue does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getIssueSQL, id)
	iss, err := scanIssue(row)
	if err != nil {
		return nil, postgres.MapError(err, "issue", id)
	}

	return iss, nil
}

// List returns issues matching the filter ordered per its sort settings,
// plus the total match count for pagination.
func (r *Repo) List(ctx context.Context, f domain.IssueFilter) ([]*domain.Issue, int, error) {
	f = normalizeFilter(f)
	q := postgres.QuerierFromCtx(ctx, r.pool)

	where := filterConditions(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("issues").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	listSQL, listArgs, err := psql.Select(issueColumns).
		From("issues").
		Where(where).
		OrderBy(f.SortBy + " " + f.SortOrder).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var issues []*domain.Issue
	for rows.Next() {
		iss, err := scanIssue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}

	return issues, total, nil
}

func filterConditions(f domain.IssueFilter) sq.And {
	where := sq.And{}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": string(*f.Status)})
	}
	if f.Category != nil {
		where = append(where, sq.Eq{"category": string(*f.Category)})
	}
	if f.DepartmentID != nil {
		where = append(where, sq.Eq{"department_id": *f.DepartmentID})
	}
	if f.AuthorID != nil {
		where = append(where, sq.Eq{"author_id": *f.AuthorID})
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if len(where) == 0 {
		// squirrel renders an empty And as "(1=1)" only when non-nil; keep explicit.
		where = append(where, sq.Expr("TRUE"))
	}
	return where
}

// Stats returns the dashboard aggregate counters for one scope.
// departmentID nil means the global view.
func (r *Repo) Stats(ctx context.Context, departmentID *uuid.UUID) (domain.DashboardStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'open')",
		"COUNT(*) FILTER (WHERE status = 'in_progress')",
		"COUNT(*) FILTER (WHERE status = 'resolved')",
		"COUNT(*) FILTER (WHERE status = 'closed')",
	).From("issues")
	if departmentID != nil {
		builder = builder.Where(sq.Eq{"department_id": *departmentID})
	}

	statsSQL, args, err := builder.ToSql()
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("build stats query: %w", err)
	}

	var s domain.DashboardStats
	err = q.QueryRow(ctx, statsSQL, args...).Scan(&s.Total, &s.Open, &s.InProgress, &s.Resolved, &s.Closed)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("query stats: %w", err)
	}

	if s.Total > 0 {
		s.ResolutionRate = float64(s.Resolved) / float64(s.Total)
	}

	return s, nil
}

const countOpenByAuthorSQL = `SELECT COUNT(*) FROM issues
	WHERE author_id = $1 AND status NOT IN ('resolved', 'closed')`

// CountOpenByAuthor returns the number of unresolved issues reported by a user.
func (r *Repo) CountOpenByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countOpenByAuthorSQL, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open issues by author: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createIssueSQL = `INSERT INTO issues
	(id, title, description, category, status, vote_count, watcher_count,
	 author_id, department_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $7, $8, $8)
	RETURNING ` + issueColumns

// Create inserts a new issue and returns the persisted domain.Issue.
func (r *Repo) Create(ctx context.Context, iss *domain.Issue) (*domain.Issue, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createIssueSQL,
		iss.ID, iss.Title, iss.Description, string(iss.Category), string(iss.Status),
		iss.AuthorID, iss.DepartmentID, iss.CreatedAt,
	)
	created, err := scanIssue(row)
	if err != nil {
		return nil, postgres.MapError(err, "issue", iss.ID)
	}

	return created, nil
}

const updateStatusSQL = `UPDATE issues SET
	status = $3,
	updated_at = $4,
	resolved_at = CASE WHEN $3 = 'resolved' THEN $4 ELSE resolved_at END,
	resolved_by = CASE WHEN $3 = 'resolved' THEN $5 ELSE resolved_by END
	WHERE id = $1 AND status = $2`

const issueExistsSQL = `SELECT EXISTS(SELECT 1 FROM issues WHERE id = $1)`

// UpdateStatus commits a validated status transition with a compare-and-set
// on the previously read status. Returns domain.ErrNotFound if the issue is
// gone, domain.ErrConflict if a concurrent writer changed the status since
// it was read. Vote and watcher counts are untouched.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.IssueStatus, actorID uuid.UUID, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateStatusSQL, id, string(from), string(to), now, actorID)
	if err != nil {
		return postgres.MapError(err, "issue", id)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, issueExistsSQL, id).Scan(&exists); err != nil {
		return postgres.MapError(err, "issue", id)
	}
	if !exists {
		return fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("issue %s: status changed concurrently: %w", id, domain.ErrConflict)
}

const adjustVoteCountSQL = `UPDATE issues
	SET vote_count = GREATEST(vote_count + $2, 0), updated_at = $3
	WHERE id = $1`

// AdjustVoteCount adds delta to the stored vote count (floored at zero).
func (r *Repo) AdjustVoteCount(ctx context.Context, id uuid.UUID, delta int, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, adjustVoteCountSQL, id, delta, now)
	if err != nil {
		return postgres.MapError(err, "issue", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

const adjustWatcherCountSQL = `UPDATE issues
	SET watcher_count = GREATEST(watcher_count + $2, 0), updated_at = $3
	WHERE id = $1`

// AdjustWatcherCount adds delta to the stored watcher count (floored at zero).
func (r *Repo) AdjustWatcherCount(ctx context.Context, id uuid.UUID, delta int, now time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, adjustWatcherCountSQL, id, delta, now)
	if err != nil {
		return postgres.MapError(err, "issue", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var (
		iss      domain.Issue
		category string
		status   string
	)
	err := row.Scan(
		&iss.ID, &iss.Title, &iss.Description, &category, &status,
		&iss.VoteCount, &iss.WatcherCount, &iss.AuthorID, &iss.DepartmentID,
		&iss.CreatedAt, &iss.UpdatedAt, &iss.ResolvedAt, &iss.ResolvedBy,
	)
	if err != nil {
		return nil, err
	}

	iss.Category = domain.IssueCategory(category)
	iss.Status = domain.IssueStatus(status)
	return &iss, nil
}
