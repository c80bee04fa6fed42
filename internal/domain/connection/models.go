package connection

import (
	"time"

	"centavo/internal/domain/institution"
)

// Status describes the connectivity state of an institution connection.
type Status string

const (
	StatusConnected    Status = "CONNECTED"
	StatusDisconnected Status = "DISCONNECTED"
	StatusNeedReauth   Status = "NEED_REAUTH"

	// StatusChecking marks a probe in flight. It is internal bookkeeping
	// only and must never be persisted or returned across the package
	// boundary; readers coerce it to DISCONNECTED.
	StatusChecking Status = "CHECKING"
)

// Error codes attached to failed outcomes.
const (
	ErrCodeTimeout    = "TIMEOUT"
	ErrCodeUnexpected = "UNEXPECTED_ERROR"
	ErrCodeAuth       = "AUTH_ERROR"
	ErrCodeConnection = "CONNECTION_ERROR"
	ErrCodeAPIClient  = "API_CLIENT_ERROR"
)

// Sanitize maps the internal CHECKING value to DISCONNECTED. The second
// return value reports whether coercion happened, so callers can log it.
func (s Status) Sanitize() (Status, bool) {
	if s == StatusChecking {
		return StatusDisconnected, true
	}
	return s, false
}

// Outcome is the transient result of a single probe. It is produced by the
// Prober and consumed immediately by the Checker; it is never persisted.
type Outcome struct {
	InstitutionID  string
	Status         Status
	CheckedAt      time.Time
	ResponseTimeMs int64
	ErrorMessage   string
	ErrorCode      string
}

// Failed reports whether the outcome carries an error.
func (o Outcome) Failed() bool {
	return o.ErrorMessage != ""
}

// HistoryRecord is one immutable, persisted probe result. Records are
// write-once: there is no update operation, only retention pruning.
type HistoryRecord struct {
	ID              string           `json:"id"`
	InstitutionID   string           `json:"institutionId"`
	InstitutionName string           `json:"institutionName"`
	InstitutionType institution.Type `json:"institutionType"`
	Status          Status           `json:"status"`
	CheckedAt       time.Time        `json:"checkedAt"`
	ResponseTimeMs  int64            `json:"responseTimeMs"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
	ErrorCode       string           `json:"errorCode,omitempty"`
}

// CheckResult is one entry of a check run as returned to callers. Failed
// probes are data here, not errors.
type CheckResult struct {
	InstitutionID   string           `json:"institutionId"`
	InstitutionName string           `json:"institutionName"`
	InstitutionType institution.Type `json:"institutionType"`
	Status          Status           `json:"status"`
	CheckedAt       time.Time        `json:"checkedAt"`
	ResponseTimeMs  int64            `json:"responseTimeMs"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
	ErrorCode       string           `json:"errorCode,omitempty"`
}

// Failed reports whether the result carries an error.
func (r CheckResult) Failed() bool {
	return r.ErrorMessage != ""
}

// CheckCommand selects which institutions a check run targets. An empty
// InstitutionID means "all".
type CheckCommand struct {
	InstitutionID string
}

// Target pairs an institution reference with its probe-capable adapter.
type Target struct {
	Institution institution.Institution
	Adapter     Adapter
}
