package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"centavo/internal/domain/connection"
)

const maxConnectionBodySize = 1 << 20 // 1 MiB

type ConnectionHandler struct {
	guard   *connection.Guard
	source  connection.TargetSource
	history connection.HistoryRepository
	log     zerolog.Logger
}

func NewConnectionHandler(guard *connection.Guard, source connection.TargetSource, history connection.HistoryRepository, log zerolog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		guard:   guard,
		source:  source,
		history: history,
		log:     log.With().Str("handler", "connection").Logger(),
	}
}

// --- Request/Response types ---

type CheckRequest struct {
	InstitutionID string `json:"institutionId"`
}

type CheckResponse struct {
	Results      []connection.CheckResult `json:"results"`
	TotalCount   int                      `json:"totalCount"`
	SuccessCount int                      `json:"successCount"`
	ErrorCount   int                      `json:"errorCount"`
	CheckedAt    time.Time                `json:"checkedAt"`
}

type HistoryListResponse struct {
	Histories  []connection.HistoryRecord `json:"histories"`
	TotalCount int                        `json:"totalCount"`
}

type StatusListResponse struct {
	Statuses   []connection.HistoryRecord `json:"statuses"`
	TotalCount int                        `json:"totalCount"`
}

// --- Handlers ---

// HandleCheck handles POST /api/connections/check. The body is optional; an
// institutionId narrows the run to one institution.
func (h *ConnectionHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body means "check everything".
	var req CheckRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxConnectionBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	targets, err := h.source.GetAllTargets(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load check targets")
		http.Error(w, "Failed to load institutions", http.StatusInternalServerError)
		return
	}

	results, err := h.guard.TriggerManual(r.Context(), connection.CheckCommand{InstitutionID: req.InstitutionID}, targets)
	if err != nil {
		if errors.Is(err, connection.ErrCheckInProgress) {
			http.Error(w, "A connection check is already in progress", http.StatusConflict)
			return
		}
		h.log.Error().Err(err).Msg("Connection check failed")
		http.Error(w, "Connection check failed", http.StatusInternalServerError)
		return
	}

	resp := CheckResponse{
		Results:    results,
		TotalCount: len(results),
		CheckedAt:  time.Now(),
	}
	for _, result := range results {
		if result.Failed() {
			resp.ErrorCount++
		} else {
			resp.SuccessCount++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHistory handles GET /api/connections/history. Accepts optional
// institutionId, startDate, endDate (RFC 3339) and limit query parameters.
func (h *ConnectionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	institutionID := r.URL.Query().Get("institutionId")

	var records []connection.HistoryRecord
	var err error
	if institutionID != "" {
		start, end, parseErr := parseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
		if parseErr != nil {
			http.Error(w, "Invalid date range", http.StatusBadRequest)
			return
		}
		records, err = h.history.FindByInstitutionIDAndDateRange(r.Context(), institutionID, start, end, limit)
	} else {
		records, err = h.history.FindAll(r.Context(), limit)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load connection history")
		http.Error(w, "Failed to load connection history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HistoryListResponse{
		Histories:  records,
		TotalCount: len(records),
	})
}

// HandleStatus handles GET /api/connections/status: the latest known state
// per institution, derived from the history log.
func (h *ConnectionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.history.FindAllLatest(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load connection statuses")
		http.Error(w, "Failed to load connection statuses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusListResponse{
		Statuses:   records,
		TotalCount: len(records),
	})
}

// --- Helpers ---

// parseDateRange defaults to the last 30 days when bounds are missing.
func parseDateRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if rawStart != "" {
		parsed, err := time.Parse(time.RFC3339, rawStart)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if rawEnd != "" {
		parsed, err := time.Parse(time.RFC3339, rawEnd)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	return start, end, nil
}
