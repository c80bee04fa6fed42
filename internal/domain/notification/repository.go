package notification

import (
	"context"
	"time"
)

// Repository defines the interface for notification data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	FindAll(ctx context.Context) ([]Notification, error)
	FindByID(ctx context.Context, id string) (*Notification, error)

	// UpdateStatus sets the status and refreshes UpdatedAt; CreatedAt never
	// changes. Returns ErrNotificationNotFound if no row matches.
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (*Notification, error)

	// DeleteByIDs removes the given notifications in one batch and returns
	// the number deleted.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
