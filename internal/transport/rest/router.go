package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmogoimpact/civicportal-backend/internal/transport/middleware"
)

// Deps bundles the handlers and cross-cutting middleware for the router.
// Global is applied to every route; it should already include auth
// resolution since anonymous requests pass through it untouched.
type Deps struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Issues        *IssueHandler
	Notifications *NotificationHandler
	Dashboard     *DashboardHandler
	Registry      *prometheus.Registry
	Global        middleware.Middleware
}

// NewRouter builds the HTTP routing table.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", d.Health.Health)
	mux.HandleFunc("GET /health/live", d.Health.Live)
	mux.HandleFunc("GET /health/ready", d.Health.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/v1/auth/register", d.Auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", d.Auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", d.Auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", d.Auth.Logout)

	mux.HandleFunc("POST /api/v1/issues", d.Issues.Create)
	mux.HandleFunc("GET /api/v1/issues", d.Issues.List)
	mux.HandleFunc("GET /api/v1/issues/{id}", d.Issues.Get)
	mux.HandleFunc("PATCH /api/v1/issues/{id}/status", d.Issues.UpdateStatus)
	mux.HandleFunc("GET /api/v1/issues/{id}/updates", d.Issues.Updates)
	mux.HandleFunc("POST /api/v1/issues/{id}/vote", d.Issues.Vote)
	mux.HandleFunc("DELETE /api/v1/issues/{id}/vote", d.Issues.Unvote)
	mux.HandleFunc("POST /api/v1/issues/{id}/watch", d.Issues.Watch)
	mux.HandleFunc("DELETE /api/v1/issues/{id}/watch", d.Issues.Unwatch)

	mux.HandleFunc("GET /api/v1/notifications", d.Notifications.List)
	mux.HandleFunc("GET /api/v1/notifications/unread-count", d.Notifications.UnreadCount)
	mux.HandleFunc("POST /api/v1/notifications/{id}/read", d.Notifications.MarkRead)
	mux.HandleFunc("POST /api/v1/notifications/read-all", d.Notifications.MarkAllRead)

	mux.HandleFunc("GET /api/v1/dashboard/stats", d.Dashboard.Stats)
	mux.HandleFunc("GET /api/v1/departments", d.Dashboard.Departments)

	if d.Global != nil {
		return d.Global(mux)
	}
	return mux
}
