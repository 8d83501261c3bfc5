package domain

import (
	"time"

	"github.com/google/uuid"
)

// Issue represents one reported civic problem. The issue row is the single
// source of truth; dashboard listings are read projections refreshed after
// every mutation.
type Issue struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Category     IssueCategory
	Status       IssueStatus
	VoteCount    int
	WatcherCount int
	AuthorID     uuid.UUID
	DepartmentID *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
	ResolvedBy   *uuid.UUID
}

// IssueUpdate is one human-readable event attached to an issue.
// Rows are append-only: created exactly once, never mutated or deleted.
type IssueUpdate struct {
	ID        uuid.UUID
	IssueID   uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	Type      UpdateType
	CreatedAt time.Time
}

// Watcher is the (issue, user) pair indicating the user wants notifications
// for that issue. Unique per pair.
type Watcher struct {
	IssueID   uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// Vote is the (issue, user) pair backing the issue's vote count.
type Vote struct {
	IssueID   uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// StatusUpdateContent renders the update-feed text for a status transition.
func StatusUpdateContent(status IssueStatus) string {
	return "Issue status updated to " + status.Label()
}

// StatusNotificationMessage renders the notification text for a status change.
func StatusNotificationMessage(title string, status IssueStatus) string {
	return "The status of \"" + title + "\" has been updated to " + status.Label()
}
