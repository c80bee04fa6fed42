package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CleanupResult summarizes one purge run.
type CleanupResult struct {
	Deleted int `json:"deletedCount"`
	Total   int `json:"totalCount"`
}

// CleanupJob purges notifications whose retention window has elapsed. It
// runs daily on the scheduler and can also be invoked on demand. A run never
// fails: store errors are logged and the run becomes a no-op.
type CleanupJob struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewCleanupJob(repo Repository, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		log:  log.With().Str("component", "notification_cleanup").Logger(),
		now:  time.Now,
	}
}

// RunOnce loads all notifications, filters the deletion-eligible ones and
// removes them in one batch.
func (j *CleanupJob) RunOnce(ctx context.Context) CleanupResult {
	all, err := j.repo.FindAll(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Cleanup failed to load notifications")
		return CleanupResult{}
	}

	referenceDate := j.now()
	var expired []string
	for _, n := range all {
		if n.CanBeDeleted(referenceDate) {
			expired = append(expired, n.ID)
		}
	}

	result := CleanupResult{Total: len(all)}
	if len(expired) == 0 {
		j.log.Info().Int("total", len(all)).Msg("Notification cleanup: nothing to delete")
		return result
	}

	deleted, err := j.repo.DeleteByIDs(ctx, expired)
	if err != nil {
		j.log.Error().Err(err).
			Int("eligible", len(expired)).
			Msg("Cleanup failed to delete notifications")
		return result
	}

	result.Deleted = int(deleted)
	j.log.Info().
		Int("deleted", result.Deleted).
		Int("total", result.Total).
		Msg("Notification cleanup finished")
	return result
}
