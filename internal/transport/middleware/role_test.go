package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

func roleCtx(role string) context.Context {
	return ctxutil.WithUserRole(context.Background(), role)
}

func TestRequireStakeholder(t *testing.T) {
	cases := []struct {
		name    string
		ctx     context.Context
		wantErr bool
	}{
		{"official", roleCtx("official"), false},
		{"admin", roleCtx("admin"), false},
		{"citizen", roleCtx("citizen"), true},
		{"no role", context.Background(), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireStakeholder(tc.ctx)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrForbidden) {
					t.Errorf("expected ErrForbidden, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	if err := RequireAdmin(roleCtx("admin")); err != nil {
		t.Errorf("expected nil error for admin, got %v", err)
	}
	if err := RequireAdmin(roleCtx("official")); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for official, got %v", err)
	}
	if err := RequireAdmin(context.Background()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for anonymous, got %v", err)
	}
}
