package connection

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrCheckInProgress is returned by TriggerManual when another check run is
// already in flight.
var ErrCheckInProgress = errors.New("connection check already in progress")

// CheckExecutor runs one check over a set of targets. Implemented by Checker.
type CheckExecutor interface {
	Execute(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error)
}

// Guard wraps the Checker with a process-local single-flight: at most one
// check run (scheduled or manual) is in progress at a time. The flag is not
// shared across instances; horizontally scaled deployments run independent
// guards.
type Guard struct {
	executor CheckExecutor
	source   TargetSource
	running  atomic.Bool
	log      zerolog.Logger
}

func NewGuard(executor CheckExecutor, source TargetSource, log zerolog.Logger) *Guard {
	return &Guard{
		executor: executor,
		source:   source,
		log:      log.With().Str("component", "schedule_guard").Logger(),
	}
}

// OnSchedule runs the periodic unfiltered check. It never fails: overlap
// skips, an empty institution list is a no-op, and every error on this path
// is logged and swallowed. The running flag is cleared on every exit path.
func (g *Guard) OnSchedule(ctx context.Context) {
	if !g.running.CompareAndSwap(false, true) {
		g.log.Info().Msg("Scheduled check skipped: previous run still in progress")
		return
	}
	defer g.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Interface("panic", r).Msg("Scheduled check panicked")
		}
	}()

	targets, err := g.source.GetAllTargets(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("Scheduled check failed to load institutions")
		return
	}
	if len(targets) == 0 {
		g.log.Info().Msg("Scheduled check skipped: no institutions registered")
		return
	}

	results, err := g.executor.Execute(ctx, CheckCommand{}, targets)
	if err != nil {
		g.log.Error().Err(err).Msg("Scheduled check failed")
		return
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	g.log.Info().
		Int("total", len(results)).
		Int("failed", failed).
		Msg("Scheduled connection check finished")
}

// TriggerManual runs a check on behalf of a caller. Unlike the scheduled
// path it surfaces errors: overlap returns ErrCheckInProgress and executor
// errors are re-raised after the flag is cleared.
func (g *Guard) TriggerManual(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
	if !g.running.CompareAndSwap(false, true) {
		return nil, ErrCheckInProgress
	}
	defer g.running.Store(false)

	return g.executor.Execute(ctx, cmd, targets)
}

// IsRunning reports whether a check run is currently in flight.
func (g *Guard) IsRunning() bool {
	return g.running.Load()
}
