package issue

import (
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// ListResult contains one page of issues plus the total match count.
type ListResult struct {
	Issues     []*domain.Issue
	TotalCount int
}

// StatusChangeResult reports the outcome of a committed status transition.
// AuditRecorded and NotifiedCount describe the best-effort follow-up steps;
// the transition itself succeeded whenever a result is returned.
type StatusChangeResult struct {
	Issue         *domain.Issue
	OldStatus     domain.IssueStatus
	NewStatus     domain.IssueStatus
	AuditRecorded bool
	NotifiedCount int
}
