package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"centavo/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", handleHealth)

	// Connection monitoring
	mux.HandleFunc("/api/connections/check", deps.ConnectionHandler.HandleCheck)
	mux.HandleFunc("/api/connections/history", deps.ConnectionHandler.HandleHistory)
	mux.HandleFunc("/api/connections/status", deps.ConnectionHandler.HandleStatus)

	// Notifications
	mux.HandleFunc("/api/notifications", deps.NotificationHandler.HandleNotifications)
	mux.HandleFunc("/api/notifications/{id}", deps.NotificationHandler.HandleNotificationByID)
	mux.HandleFunc("/api/notifications/cleanup", deps.NotificationHandler.HandleCleanup)

	// Apply global middleware
	return middleware.Logging(log)(middleware.Tracing(middleware.CORS(mux)))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
