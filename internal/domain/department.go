package domain

import (
	"time"

	"github.com/google/uuid"
)

// Department is a government department issues can be assigned to.
type Department struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// DashboardStats holds the aggregate counters shown on the stakeholder
// dashboard for one scope (a department or the global view).
type DashboardStats struct {
	Total          int
	Open           int
	InProgress     int
	Resolved       int
	Closed         int
	ResolutionRate float64
}
