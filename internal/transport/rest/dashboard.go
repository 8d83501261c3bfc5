package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

// dashboardService defines the minimal interface needed by DashboardHandler.
type dashboardService interface {
	Stats(ctx context.Context, departmentID *uuid.UUID) (domain.DashboardStats, error)
	Departments(ctx context.Context) ([]*domain.Department, error)
}

// DashboardHandler serves dashboard REST endpoints.
type DashboardHandler struct {
	svc dashboardService
	log *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc dashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, log: logger.With("handler", "dashboard")}
}

type statsResponse struct {
	Total          int     `json:"total"`
	Open           int     `json:"open"`
	InProgress     int     `json:"inProgress"`
	Resolved       int     `json:"resolved"`
	Closed         int     `json:"closed"`
	ResolutionRate float64 `json:"resolutionRate"`
}

type departmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Stats handles GET /api/v1/dashboard/stats?departmentId=....
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var departmentID *uuid.UUID
	if v := r.URL.Query().Get("departmentId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "departmentId must be a valid UUID")
			return
		}
		departmentID = &id
	}

	stats, err := h.svc.Stats(r.Context(), departmentID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Total:          stats.Total,
		Open:           stats.Open,
		InProgress:     stats.InProgress,
		Resolved:       stats.Resolved,
		Closed:         stats.Closed,
		ResolutionRate: stats.ResolutionRate,
	})
}

// Departments handles GET /api/v1/departments.
func (h *DashboardHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.svc.Departments(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := make([]departmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, departmentResponse{
			ID:          d.ID.String(),
			Name:        d.Name,
			Description: d.Description,
			CreatedAt:   d.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
