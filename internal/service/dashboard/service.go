// Package dashboard implements the read-side aggregate queries shown on
// portal dashboards. Stats are always computed fresh from the issue rows.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

type statsRepo interface {
	Stats(ctx context.Context, departmentID *uuid.UUID) (domain.DashboardStats, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type departmentRepo interface {
	List(ctx context.Context) ([]*domain.Department, error)
}

// Service implements the dashboard business logic.
type Service struct {
	log         *slog.Logger
	stats       statsRepo
	users       userRepo
	departments departmentRepo
}

// NewService creates a new Dashboard service.
func NewService(logger *slog.Logger, stats statsRepo, users userRepo, departments departmentRepo) *Service {
	return &Service{
		log:         logger.With("service", "dashboard"),
		stats:       stats,
		users:       users,
		departments: departments,
	}
}

// Stats returns the aggregate counters for one scope.
//
// Scope rules: citizens and admins see whatever scope they ask for
// (departmentID nil means global). Officials are always pinned to their own
// department regardless of the requested scope.
func (s *Service) Stats(ctx context.Context, departmentID *uuid.UUID) (domain.DashboardStats, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.DashboardStats{}, domain.ErrUnauthorized
	}

	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if role == domain.UserRoleOfficial {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return domain.DashboardStats{}, fmt.Errorf("get official: %w", err)
		}
		if user.DepartmentID == nil {
			return domain.DashboardStats{}, fmt.Errorf("official %s has no department: %w", userID, domain.ErrForbidden)
		}
		departmentID = user.DepartmentID
	}

	stats, err := s.stats.Stats(ctx, departmentID)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("query stats: %w", err)
	}

	return stats, nil
}

// Departments lists all departments for dashboard filters.
func (s *Service) Departments(ctx context.Context) ([]*domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}
