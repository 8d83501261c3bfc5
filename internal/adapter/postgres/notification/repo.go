// Package notification implements the Notification repository using
// PostgreSQL. Fan-out writes go through a single pgx batch so one network
// round trip covers every recipient.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createNotificationSQL = `INSERT INTO notifications
	(id, user_id, title, message, type, issue_id, read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// CreateBatch inserts all notifications in one batch. An empty slice is a
// no-op, not an error. The batch is not transactional with the caller's
// other writes unless a transaction is present in the context.
func (r *Repo) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, n := range notifications {
		batch.Queue(createNotificationSQL,
			n.ID, n.UserID, n.Title, n.Message, string(n.Type), n.IssueID, n.Read, n.CreatedAt,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for _, n := range notifications {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "notification", n.ID)
		}
	}

	return nil
}

const markReadSQL = `UPDATE notifications SET read = TRUE
	WHERE id = $1 AND user_id = $2`

// MarkRead flags one notification as read. Returns domain.ErrNotFound if it
// does not exist or belongs to another user.
func (r *Repo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markReadSQL, notificationID, userID)
	if err != nil {
		return postgres.MapError(err, "notification", notificationID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}

	return nil
}

const markAllReadSQL = `UPDATE notifications SET read = TRUE
	WHERE user_id = $1 AND read = FALSE`

// MarkAllRead flags every unread notification for a user as read.
// Idempotent; returns the number of rows updated.
func (r *Repo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, markAllReadSQL, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const listNotificationsSQL = `SELECT id, user_id, title, message, type, issue_id, read, created_at
	FROM notifications
	WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4`

const countNotificationsSQL = `SELECT COUNT(*) FROM notifications
	WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)`

// List returns notifications for a recipient, newest first, with the total
// count for pagination. unreadOnly narrows both to unread rows.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, countNotificationsSQL, userID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := q.Query(ctx, listNotificationsSQL, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var (
			n       domain.Notification
			typeTag string
		)
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typeTag, &n.IssueID, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = domain.NotificationType(typeTag)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, total, nil
}

const unreadCountSQL = `SELECT COUNT(*) FROM notifications
	WHERE user_id = $1 AND read = FALSE`

// UnreadCount returns the number of unread notifications for a user.
func (r *Repo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, unreadCountSQL, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}
