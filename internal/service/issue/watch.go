package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

// Watch subscribes the authenticated user to an issue's status changes and
// bumps the stored watcher counter in the same transaction.
// Returns domain.ErrAlreadyExists if the user already watches it.
func (s *Service) Watch(ctx context.Context, issueID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.GetIssue(ctx, issueID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.watchers.Add(txCtx, issueID, userID, now); err != nil {
			return fmt.Errorf("add watcher: %w", err)
		}
		if err := s.issues.AdjustWatcherCount(txCtx, issueID, 1, now); err != nil {
			return fmt.Errorf("adjust watcher count: %w", err)
		}
		return nil
	})
}

// Unwatch unsubscribes the user and decrements the counter in the same
// transaction. Returns domain.ErrNotFound if the user was not watching.
func (s *Service) Unwatch(ctx context.Context, issueID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.watchers.Remove(txCtx, issueID, userID); err != nil {
			return fmt.Errorf("remove watcher: %w", err)
		}
		if err := s.issues.AdjustWatcherCount(txCtx, issueID, -1, now); err != nil {
			return fmt.Errorf("adjust watcher count: %w", err)
		}
		return nil
	})
}

// IsWatching reports whether the authenticated user watches the issue.
func (s *Service) IsWatching(ctx context.Context, issueID uuid.UUID) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	return s.watchers.IsWatching(ctx, issueID, userID)
}
