package notification

import (
	"errors"
	"time"
)

// Status values a notification moves through. No transition table is
// enforced: any status may move to any other via UpdateStatus.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDisplayed Status = "DISPLAYED"
	StatusLater     Status = "LATER"
	StatusConfirmed Status = "CONFIRMED"
	StatusDismissed Status = "DISMISSED"
	StatusArchived  Status = "ARCHIVED"
)

var validStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusDisplayed: {},
	StatusLater:     {},
	StatusConfirmed: {},
	StatusDismissed: {},
	StatusArchived:  {},
}

// Retention thresholds in whole days, keyed by status. Statuses absent from
// the table are never eligible for deletion, regardless of age.
const (
	confirmedRetentionDays = 30
	archivedRetentionDays  = 30
	dismissedRetentionDays = 7
)

// Domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidStatus        = errors.New("invalid notification status")
)

// Notification is a user-facing alert created in response to a connection
// failure. Only the status field (and UpdatedAt alongside it) ever changes;
// CreatedAt is immutable.
type Notification struct {
	ID              string    `json:"id"`
	InstitutionID   string    `json:"institutionId"`
	InstitutionName string    `json:"institutionName"`
	Message         string    `json:"message"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func IsValidStatus(s Status) bool {
	_, ok := validStatuses[s]
	return ok
}

// UpdateStatus returns a copy with the new status and a refreshed UpdatedAt.
// CreatedAt is left untouched. Any status may move to any other status.
func (n Notification) UpdateStatus(status Status, now time.Time) Notification {
	n.Status = status
	n.UpdatedAt = now
	return n
}

// CanBeDeleted reports whether the notification is old enough to purge at
// referenceDate. Age is whole days since UpdatedAt, floored.
func (n Notification) CanBeDeleted(referenceDate time.Time) bool {
	var retentionDays int
	switch n.Status {
	case StatusConfirmed:
		retentionDays = confirmedRetentionDays
	case StatusArchived:
		retentionDays = archivedRetentionDays
	case StatusDismissed:
		retentionDays = dismissedRetentionDays
	default:
		return false
	}

	ageDays := int(referenceDate.Sub(n.UpdatedAt).Hours() / 24)
	return ageDays >= retentionDays
}
