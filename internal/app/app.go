// Package app wires configuration, storage, services and transport into a
// running civic portal server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mmogoimpact/civicportal-backend/internal/adapter/events"
	"github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres"
	departmentrepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/department"
	issuerepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/issue"
	notificationrepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/notification"
	tokenrepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/token"
	updaterepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/update"
	userrepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/user"
	voterepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/vote"
	watcherrepo "github.com/mmogoimpact/civicportal-backend/internal/adapter/postgres/watcher"
	"github.com/mmogoimpact/civicportal-backend/internal/auth"
	"github.com/mmogoimpact/civicportal-backend/internal/config"
	authsvc "github.com/mmogoimpact/civicportal-backend/internal/service/auth"
	dashboardsvc "github.com/mmogoimpact/civicportal-backend/internal/service/dashboard"
	issuesvc "github.com/mmogoimpact/civicportal-backend/internal/service/issue"
	notificationsvc "github.com/mmogoimpact/civicportal-backend/internal/service/notification"
	"github.com/mmogoimpact/civicportal-backend/internal/transport/middleware"
	"github.com/mmogoimpact/civicportal-backend/internal/transport/rest"
)

// eventPublisher is what the app needs from the events adapter: the issue
// service's publish surface plus lifecycle control.
type eventPublisher interface {
	PublishStatusChanged(ctx context.Context, event events.StatusChangedEvent) error
	PublishIssueCreated(ctx context.Context, event events.IssueCreatedEvent) error
	Close()
}

// Run is the application entry point. It loads configuration, connects to
// the database and NATS, builds services and the HTTP router, and serves
// until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	var eventPub eventPublisher
	if cfg.Events.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(ctx, cfg.Events, logger)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		eventPub = natsPub
	} else {
		logger.Warn("no NATS URL configured, dashboard events disabled")
		eventPub = events.NoopPublisher{}
	}
	defer eventPub.Close()

	txManager := postgres.NewTxManager(pool)
	issues := issuerepo.New(pool)
	updates := updaterepo.New(pool)
	watchers := watcherrepo.New(pool)
	votes := voterepo.New(pool)
	notifications := notificationrepo.New(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	departments := departmentrepo.New(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, users, tokens, jwtManager, cfg.Auth)
	issueService := issuesvc.NewService(logger, issues, updates, watchers, votes, notifications, eventPub, txManager, cfg.Portal)
	notificationService := notificationsvc.NewService(logger, notifications, cfg.Portal)
	dashboardService := dashboardsvc.NewService(logger, issues, users, departments)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	rateLimiter := middleware.NewRateLimiter(5 * time.Minute)
	defer rateLimiter.Stop()

	router := rest.NewRouter(rest.Deps{
		Health:        rest.NewHealthHandler(pool, BuildVersion()),
		Auth:          rest.NewAuthHandler(authService, logger),
		Issues:        rest.NewIssueHandler(issueService, logger),
		Notifications: rest.NewNotificationHandler(notificationService, logger),
		Dashboard:     rest.NewDashboardHandler(dashboardService, logger),
		Registry:      registry,
		Global: middleware.Chain(
			middleware.RequestID,
			middleware.Recovery(logger),
			metrics.Middleware(),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
			rateLimiter.Limit(cfg.Server.RateLimitPerMin),
			middleware.Auth(authService),
		),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
