package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"centavo/internal/domain/notification"
)

const maxNotificationBodySize = 1 << 20 // 1 MiB

type NotificationHandler struct {
	repo    notification.Repository
	cleanup *notification.CleanupJob
	log     zerolog.Logger
}

func NewNotificationHandler(repo notification.Repository, cleanup *notification.CleanupJob, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		repo:    repo,
		cleanup: cleanup,
		log:     log.With().Str("handler", "notification").Logger(),
	}
}

// --- Request/Response types ---

type UpdateNotificationStatusRequest struct {
	Status notification.Status `json:"status"`
}

type NotificationListResponse struct {
	Notifications []notification.Notification `json:"notifications"`
	TotalCount    int                         `json:"totalCount"`
}

// --- Handlers ---

// HandleNotifications handles GET /api/notifications (list)
func (h *NotificationHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notifications, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list notifications")
		http.Error(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NotificationListResponse{
		Notifications: notifications,
		TotalCount:    len(notifications),
	})
}

// HandleNotificationByID handles PUT /api/notifications/{id} (status change)
func (h *NotificationHandler) HandleNotificationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notificationID := r.PathValue("id")
	if notificationID == "" {
		http.Error(w, "Notification ID is required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxNotificationBodySize)
	var req UpdateNotificationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !notification.IsValidStatus(req.Status) {
		http.Error(w, "Invalid notification status", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.UpdateStatus(r.Context(), notificationID, req.Status, time.Now())
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("notification_id", notificationID).Msg("Failed to update notification status")
		http.Error(w, "Failed to update notification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// HandleCleanup handles POST /api/notifications/cleanup. The run never
// fails; the response reports how much was removed.
func (h *NotificationHandler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := h.cleanup.RunOnce(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
