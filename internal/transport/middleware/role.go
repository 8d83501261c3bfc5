package middleware

import (
	"context"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/pkg/ctxutil"
)

// RequireStakeholder returns domain.ErrForbidden unless the context user
// is an official or admin. Use in handlers, not as HTTP middleware.
func RequireStakeholder(ctx context.Context) error {
	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if !role.IsStakeholder() {
		return domain.ErrForbidden
	}
	return nil
}

// RequireAdmin returns domain.ErrForbidden if the context user is not admin.
func RequireAdmin(ctx context.Context) error {
	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if !role.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
