package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var checkTracer = otel.Tracer("centavo/connection")

// BatchProber fans out a batch of probes. Implemented by Prober; declared as
// an interface so the Checker can be tested without real adapters.
type BatchProber interface {
	ProbeBatch(ctx context.Context, targets []Target) []Outcome
}

// Checker orchestrates a check run: target selection, probing, persistence
// of history records and failure signaling.
type Checker struct {
	prober    BatchProber
	history   HistoryRepository
	publisher FailurePublisher
	log       zerolog.Logger
}

func NewChecker(prober BatchProber, history HistoryRepository, publisher FailurePublisher, log zerolog.Logger) *Checker {
	return &Checker{
		prober:    prober,
		history:   history,
		publisher: publisher,
		log:       log.With().Str("component", "checker").Logger(),
	}
}

// Execute runs one connectivity check over the selected targets and returns
// every result, failed probes included. Only infrastructure failures (the
// history batch write) are returned as errors.
func (c *Checker) Execute(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
	ctx, span := checkTracer.Start(ctx, "connection.check",
		trace.WithAttributes(attribute.Int("check.targets", len(targets))),
	)
	defer span.End()

	selected := c.selectTargets(cmd, targets)
	if len(selected) == 0 {
		return []CheckResult{}, nil
	}

	outcomes := c.prober.ProbeBatch(ctx, selected)

	byID := make(map[string]Target, len(selected))
	for _, t := range selected {
		byID[t.Institution.ID] = t
	}

	results := make([]CheckResult, 0, len(outcomes))
	records := make([]HistoryRecord, 0, len(outcomes))
	for _, out := range outcomes {
		target, ok := byID[out.InstitutionID]
		if !ok {
			// Should not happen: outcomes derive from the selection. Drop
			// the orphan rather than failing the whole batch.
			c.log.Warn().
				Str("institution_id", out.InstitutionID).
				Msg("Probe outcome references unknown institution, dropping")
			continue
		}

		inst := target.Institution
		results = append(results, CheckResult{
			InstitutionID:   inst.ID,
			InstitutionName: inst.Name,
			InstitutionType: inst.Type,
			Status:          out.Status,
			CheckedAt:       out.CheckedAt,
			ResponseTimeMs:  out.ResponseTimeMs,
			ErrorMessage:    out.ErrorMessage,
			ErrorCode:       out.ErrorCode,
		})
		records = append(records, HistoryRecord{
			ID:              uuid.NewString(),
			InstitutionID:   inst.ID,
			InstitutionName: inst.Name,
			InstitutionType: inst.Type,
			Status:          out.Status,
			CheckedAt:       out.CheckedAt,
			ResponseTimeMs:  out.ResponseTimeMs,
			ErrorMessage:    out.ErrorMessage,
			ErrorCode:       out.ErrorCode,
		})
	}

	if len(records) > 0 {
		if err := c.history.SaveMany(ctx, records); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to save connection history: %w", err)
		}
	}

	c.signalFailures(ctx, results)

	span.SetAttributes(attribute.Int("check.results", len(results)))
	return results, nil
}

// selectTargets narrows targets to the command's institution, or returns the
// full list when no filter is set.
func (c *Checker) selectTargets(cmd CheckCommand, targets []Target) []Target {
	if cmd.InstitutionID == "" {
		return targets
	}
	for _, t := range targets {
		if t.Institution.ID == cmd.InstitutionID {
			return []Target{t}
		}
	}
	return nil
}

// signalFailures emits one connection.failed event carrying every failing
// result of the run. Publish errors are logged, never propagated: consumer
// failure must not affect the check run.
func (c *Checker) signalFailures(ctx context.Context, results []CheckResult) {
	var failures []CheckResult
	for _, r := range results {
		if r.Failed() {
			failures = append(failures, r)
		}
	}
	if len(failures) == 0 {
		return
	}

	evt := FailedEvent{Errors: failures, CheckedAt: time.Now()}
	if err := c.publisher.PublishConnectionFailed(ctx, evt); err != nil {
		c.log.Error().Err(err).
			Int("failures", len(failures)).
			Msg("Failed to publish connection.failed event")
	}
}
