package scheduler

import (
	"context"
	"time"

	"centavo/internal/domain/connection"
	"centavo/internal/domain/notification"
)

// ConnectionCheckJob runs the periodic connectivity sweep.
type ConnectionCheckJob struct {
	guard *connection.Guard
}

func NewConnectionCheckJob(guard *connection.Guard) *ConnectionCheckJob {
	return &ConnectionCheckJob{guard: guard}
}

func (j *ConnectionCheckJob) Name() string { return "connection_check" }

func (j *ConnectionCheckJob) Execute(ctx context.Context) error {
	// OnSchedule owns its own error handling; a skipped or failed sweep is
	// not a job failure.
	j.guard.OnSchedule(ctx)
	return nil
}

// NotificationCleanupJob purges notifications past their retention window.
type NotificationCleanupJob struct {
	cleanup *notification.CleanupJob
}

func NewNotificationCleanupJob(cleanup *notification.CleanupJob) *NotificationCleanupJob {
	return &NotificationCleanupJob{cleanup: cleanup}
}

func (j *NotificationCleanupJob) Name() string { return "notification_cleanup" }

func (j *NotificationCleanupJob) Execute(ctx context.Context) error {
	j.cleanup.RunOnce(ctx)
	return nil
}

// HistoryPruneJob trims the connection history log to its retention window.
type HistoryPruneJob struct {
	history       connection.HistoryRepository
	retentionDays int
	now           func() time.Time
}

func NewHistoryPruneJob(history connection.HistoryRepository, retentionDays int) *HistoryPruneJob {
	return &HistoryPruneJob{
		history:       history,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (j *HistoryPruneJob) Name() string { return "history_prune" }

func (j *HistoryPruneJob) Execute(ctx context.Context) error {
	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	_, err := j.history.DeleteOlderThan(ctx, cutoff)
	return err
}
