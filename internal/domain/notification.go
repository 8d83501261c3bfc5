package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one message queued for one recipient. Created in bulk by
// the fan-out engine; only the recipient marks it read afterwards.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      NotificationType
	IssueID   *uuid.UUID
	Read      bool
	CreatedAt time.Time
}
