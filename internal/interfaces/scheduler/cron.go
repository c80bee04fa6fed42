package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Cron fires registered jobs into the worker pool on their schedules. The
// pool's single-flight guard downstream makes overlapping fires harmless.
type Cron struct {
	cron *cron.Cron
	pool *WorkerPool
	log  zerolog.Logger
}

func NewCron(pool *WorkerPool, log zerolog.Logger) *Cron {
	return &Cron{
		cron: cron.New(),
		pool: pool,
		log:  log.With().Str("component", "cron").Logger(),
	}
}

// AddJob schedules a job using standard 5-field cron syntax.
func (c *Cron) AddJob(schedule string, job Job) error {
	_, err := c.cron.AddFunc(schedule, func() {
		if err := c.pool.Submit(job); err != nil {
			c.log.Warn().Err(err).Str("job", job.Name()).Msg("Failed to submit scheduled job")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	c.log.Info().Str("job", job.Name()).Str("schedule", schedule).Msg("Scheduled job")
	return nil
}

func (c *Cron) Start() {
	c.cron.Start()
}

// Stop halts scheduling and waits for fires already handed to the pool.
func (c *Cron) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}
