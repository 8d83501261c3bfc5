package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/domain"
	"github.com/mmogoimpact/civicportal-backend/internal/service/issue"
)

// issueService defines the minimal interface needed by IssueHandler.
type issueService interface {
	CreateIssue(ctx context.Context, input issue.CreateIssueInput) (*domain.Issue, error)
	GetIssue(ctx context.Context, issueID uuid.UUID) (*domain.Issue, error)
	ListIssues(ctx context.Context, filter domain.IssueFilter) (*issue.ListResult, error)
	UpdateIssueStatus(ctx context.Context, input issue.UpdateStatusInput) (*issue.StatusChangeResult, error)
	ListUpdates(ctx context.Context, input issue.ListUpdatesInput) ([]*domain.IssueUpdate, error)
	Vote(ctx context.Context, issueID uuid.UUID) error
	Unvote(ctx context.Context, issueID uuid.UUID) error
	Watch(ctx context.Context, issueID uuid.UUID) error
	Unwatch(ctx context.Context, issueID uuid.UUID) error
}

// IssueHandler serves issue REST endpoints.
type IssueHandler struct {
	svc issueService
	log *slog.Logger
}

// NewIssueHandler creates an IssueHandler.
func NewIssueHandler(svc issueService, logger *slog.Logger) *IssueHandler {
	return &IssueHandler{svc: svc, log: logger.With("handler", "issues")}
}

type createIssueRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	DepartmentID *string `json:"departmentId,omitempty"`
	Draft        bool    `json:"draft,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type issueResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	VoteCount    int        `json:"voteCount"`
	WatcherCount int        `json:"watcherCount"`
	AuthorID     string     `json:"authorId"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy   *string    `json:"resolvedBy,omitempty"`
}

type issueListResponse struct {
	Issues     []issueResponse `json:"issues"`
	TotalCount int             `json:"totalCount"`
}

type statusChangeResponse struct {
	Issue         issueResponse `json:"issue"`
	OldStatus     string        `json:"oldStatus"`
	NewStatus     string        `json:"newStatus"`
	AuditRecorded bool          `json:"auditRecorded"`
	NotifiedCount int           `json:"notifiedCount"`
}

type issueUpdateResponse struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create handles POST /api/v1/issues.
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := issue.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.IssueCategory(req.Category),
		Draft:       req.Draft,
	}
	if req.DepartmentID != nil {
		deptID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "departmentId must be a valid UUID")
			return
		}
		input.DepartmentID = &deptID
	}

	created, err := h.svc.CreateIssue(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toIssueResponse(created))
}

// Get handles GET /api/v1/issues/{id}.
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	iss, err := h.svc.GetIssue(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(iss))
}

// List handles GET /api/v1/issues with filter query parameters.
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseIssueFilter(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	result, err := h.svc.ListIssues(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	issues := make([]issueResponse, 0, len(result.Issues))
	for _, iss := range result.Issues {
		issues = append(issues, toIssueResponse(iss))
	}
	writeJSON(w, http.StatusOK, issueListResponse{
		Issues:     issues,
		TotalCount: result.TotalCount,
	})
}

// UpdateStatus handles PATCH /api/v1/issues/{id}/status.
func (h *IssueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.UpdateIssueStatus(r.Context(), issue.UpdateStatusInput{
		IssueID:   id,
		NewStatus: domain.IssueStatus(req.Status),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, statusChangeResponse{
		Issue:         toIssueResponse(result.Issue),
		OldStatus:     result.OldStatus.String(),
		NewStatus:     result.NewStatus.String(),
		AuditRecorded: result.AuditRecorded,
		NotifiedCount: result.NotifiedCount,
	})
}

// Updates handles GET /api/v1/issues/{id}/updates.
func (h *IssueHandler) Updates(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	updates, err := h.svc.ListUpdates(r.Context(), issue.ListUpdatesInput{
		IssueID: id,
		Limit:   queryInt(r, "limit", 0),
		Offset:  queryInt(r, "offset", 0),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := make([]issueUpdateResponse, 0, len(updates))
	for _, u := range updates {
		resp = append(resp, issueUpdateResponse{
			ID:        u.ID.String(),
			IssueID:   u.IssueID.String(),
			AuthorID:  u.AuthorID.String(),
			Content:   u.Content,
			Type:      u.Type.String(),
			CreatedAt: u.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Vote handles POST /api/v1/issues/{id}/vote.
func (h *IssueHandler) Vote(w http.ResponseWriter, r *http.Request) {
	h.issueAction(w, r, h.svc.Vote)
}

// Unvote handles DELETE /api/v1/issues/{id}/vote.
func (h *IssueHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	h.issueAction(w, r, h.svc.Unvote)
}

// Watch handles POST /api/v1/issues/{id}/watch.
func (h *IssueHandler) Watch(w http.ResponseWriter, r *http.Request) {
	h.issueAction(w, r, h.svc.Watch)
}

// Unwatch handles DELETE /api/v1/issues/{id}/watch.
func (h *IssueHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	h.issueAction(w, r, h.svc.Unwatch)
}

func (h *IssueHandler) issueAction(w http.ResponseWriter, r *http.Request, action func(context.Context, uuid.UUID) error) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := action(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseIssueFilter(r *http.Request) (domain.IssueFilter, error) {
	q := r.URL.Query()
	filter := domain.IssueFilter{
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Limit:     queryInt(r, "limit", 0),
		Offset:    queryInt(r, "offset", 0),
	}

	if v := q.Get("status"); v != "" {
		status := domain.IssueStatus(v)
		if !status.IsValid() {
			return domain.IssueFilter{}, domain.NewValidationError("status", "unknown status "+v)
		}
		filter.Status = &status
	}
	if v := q.Get("category"); v != "" {
		category := domain.IssueCategory(v)
		if !category.IsValid() {
			return domain.IssueFilter{}, domain.NewValidationError("category", "unknown category "+v)
		}
		filter.Category = &category
	}
	if v := q.Get("departmentId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return domain.IssueFilter{}, domain.NewValidationError("departmentId", "must be a valid UUID")
		}
		filter.DepartmentID = &id
	}
	if v := q.Get("authorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return domain.IssueFilter{}, domain.NewValidationError("authorId", "must be a valid UUID")
		}
		filter.AuthorID = &id
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}

	return filter, nil
}

func toIssueResponse(iss *domain.Issue) issueResponse {
	resp := issueResponse{
		ID:           iss.ID.String(),
		Title:        iss.Title,
		Description:  iss.Description,
		Category:     iss.Category.String(),
		Status:       iss.Status.String(),
		VoteCount:    iss.VoteCount,
		WatcherCount: iss.WatcherCount,
		AuthorID:     iss.AuthorID.String(),
		CreatedAt:    iss.CreatedAt,
		UpdatedAt:    iss.UpdatedAt,
		ResolvedAt:   iss.ResolvedAt,
	}
	if iss.DepartmentID != nil {
		s := iss.DepartmentID.String()
		resp.DepartmentID = &s
	}
	if iss.ResolvedBy != nil {
		s := iss.ResolvedBy.String()
		resp.ResolvedBy = &s
	}
	return resp
}
