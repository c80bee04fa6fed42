package scheduler

import "context"

// Job is a unit of background work the pool can run.
type Job interface {
	// Name identifies the job in logs and telemetry.
	Name() string
	// Execute performs the work. The context carries the pool's per-job
	// timeout.
	Execute(ctx context.Context) error
}
