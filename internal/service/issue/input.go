package issue

import (
	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

// CreateIssueInput holds the parameters for reporting a new issue.
type CreateIssueInput struct {
	Title        string
	Description  string
	Category     domain.IssueCategory
	DepartmentID *uuid.UUID

	// Draft creates the issue without publishing it. The author publishes
	// later by moving it from draft to open.
	Draft bool
}

// Validate checks all fields and collects all errors.
func (i *CreateIssueInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 200)"})
	}

	if i.Description == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
	} else if len(i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}

	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "unknown category"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateStatusInput holds the parameters for an issue status transition.
type UpdateStatusInput struct {
	IssueID   uuid.UUID
	NewStatus domain.IssueStatus
}

// Validate checks all fields and collects all errors.
func (i *UpdateStatusInput) Validate() error {
	var errs []domain.FieldError

	if i.IssueID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "issue_id", Message: "required"})
	}
	if !i.NewStatus.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status " + string(i.NewStatus)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListUpdatesInput holds the parameters for reading an issue's update feed.
type ListUpdatesInput struct {
	IssueID uuid.UUID
	Limit   int
	Offset  int
}

// Validate checks all fields.
func (i *ListUpdatesInput) Validate() error {
	if i.IssueID == uuid.Nil {
		return domain.NewValidationError("issue_id", "required")
	}
	return nil
}
