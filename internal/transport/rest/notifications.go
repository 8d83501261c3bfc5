package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mmogoimpact/civicportal-backend/internal/service/notification"
)

// notificationService defines the minimal interface needed by NotificationHandler.
type notificationService interface {
	List(ctx context.Context, input notification.ListInput) (*notification.ListResult, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) (int, error)
	UnreadCount(ctx context.Context) (int, error)
}

// NotificationHandler serves notification inbox REST endpoints.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notifications")}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IssueID   *string   `json:"issueId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	TotalCount    int                    `json:"totalCount"`
}

// List handles GET /api/v1/notifications?unread=true&limit=50&offset=0.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context(), notification.ListInput{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	notifications := make([]notificationResponse, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		resp := notificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type.String(),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.IssueID != nil {
			s := n.IssueID.String()
			resp.IssueID = &s
		}
		notifications = append(notifications, resp)
	}

	writeJSON(w, http.StatusOK, notificationListResponse{
		Notifications: notifications,
		TotalCount:    result.TotalCount,
	})
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.svc.MarkRead(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.MarkAllRead(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.UnreadCount(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
