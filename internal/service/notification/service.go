// Package notification implements the notification inbox business logic.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/config"
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

type notificationRepo interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, int, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service implements the notification inbox business logic.
type Service struct {
	log           *slog.Logger
	notifications notificationRepo
	cfg           config.PortalConfig
}

// NewService creates a new Notification service.
func NewService(logger *slog.Logger, notifications notificationRepo, cfg config.PortalConfig) *Service {
	return &Service{
		log:           logger.With("service", "notification"),
		notifications: notifications,
		cfg:           cfg,
	}
}

// ListInput holds the parameters for reading a user's inbox.
type ListInput struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// ListResult contains one inbox page plus the total match count.
type ListResult struct {
	Notifications []*domain.Notification
	TotalCount    int
}

// List returns the authenticated user's notifications, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.cfg.ListDefaultLimit
	}
	if limit > s.cfg.ListMaxLimit {
		limit = s.cfg.ListMaxLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := s.notifications.List(ctx, userID, input.UnreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return &ListResult{Notifications: notifications, TotalCount: total}, nil
}

// MarkRead flags one of the user's notifications as read.
// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
func (s *Service) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if notificationID == uuid.Nil {
		return domain.NewValidationError("notification_id", "required")
	}

	return s.notifications.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead flags every unread notification as read.
// Returns the number of notifications updated.
func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	updated, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	return updated, nil
}

// UnreadCount returns the user's unread notification count for the badge.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	count, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}

	return count, nil
}
