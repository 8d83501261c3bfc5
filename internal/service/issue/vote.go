package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

// Vote records the authenticated user's vote for an issue and bumps the
// stored counter in the same transaction.
// Returns domain.ErrAlreadyExists if the user already voted.
func (s *Service) Vote(ctx context.Context, issueID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.GetIssue(ctx, issueID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.votes.Add(txCtx, issueID, userID, now); err != nil {
			return fmt.Errorf("add vote: %w", err)
		}
		if err := s.issues.AdjustVoteCount(txCtx, issueID, 1, now); err != nil {
			return fmt.Errorf("adjust vote count: %w", err)
		}
		return nil
	})
}

// Unvote withdraws the user's vote and decrements the counter in the same
// transaction. Returns domain.ErrNotFound if the user never voted.
func (s *Service) Unvote(ctx context.Context, issueID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.votes.Remove(txCtx, issueID, userID); err != nil {
			return fmt.Errorf("remove vote: %w", err)
		}
		if err := s.issues.AdjustVoteCount(txCtx, issueID, -1, now); err != nil {
			return fmt.Errorf("adjust vote count: %w", err)
		}
		return nil
	})
}

// HasVoted reports whether the authenticated user has voted for the issue.
func (s *Service) HasVoted(ctx context.Context, issueID uuid.UUID) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	return s.votes.HasVoted(ctx, issueID, userID)
}
