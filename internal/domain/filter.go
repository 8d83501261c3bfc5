package domain

import "github.com/google/uuid"

// IssueFilter contains filtering/pagination parameters for issue listings.
type IssueFilter struct {
	Status       *IssueStatus
	Category     *IssueCategory
	DepartmentID *uuid.UUID
	AuthorID     *uuid.UUID
	Search       *string
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}
