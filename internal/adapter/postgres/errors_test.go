package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "issue", uuid.Nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	err := MapError(pgx.ErrNoRows, "issue", uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMapError_ContextPassThrough(t *testing.T) {
	t.Parallel()

	err := MapError(context.DeadlineExceeded, "issue", uuid.New())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded to pass through, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("context error must not map to ErrNotFound")
	}
}

func TestMapError_PgCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want error
	}{
		{"23505", domain.ErrAlreadyExists},
		{"23503", domain.ErrNotFound},
		{"23514", domain.ErrValidation},
	}

	for _, tc := range cases {
		pgErr := &pgconn.PgError{Code: tc.code}
		err := MapError(pgErr, "notification", uuid.New())
		if !errors.Is(err, tc.want) {
			t.Errorf("code %s: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestMapError_Unknown(t *testing.T) {
	t.Parallel()

	orig := errors.New("connection reset")
	err := MapError(orig, "watcher", uuid.New())
	if !errors.Is(err, orig) {
		t.Errorf("expected original error to be wrapped, got %v", err)
	}
}
