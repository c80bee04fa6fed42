package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// probeTimeout is the hard upper bound raced against every adapter call.
	probeTimeout = 10 * time.Second

	// slowProbeThreshold triggers a diagnostic log only; it does not change
	// the outcome.
	slowProbeThreshold = 5 * time.Second

	// batchChunkSize caps concurrent in-flight probes. The bound is enforced
	// by chunking: chunks run one after another, probes within a chunk run
	// concurrently.
	batchChunkSize = 5
)

var (
	probeMeter       = otel.Meter("centavo/connection")
	probeDuration, _ = probeMeter.Float64Histogram("connection.probe.duration",
		metric.WithDescription("Probe duration in seconds"),
		metric.WithUnit("s"),
	)
	probeTotal, _ = probeMeter.Int64Counter("connection.probe.total",
		metric.WithDescription("Total probes executed by status"),
	)
)

// Prober executes connectivity probes against institution adapters.
type Prober struct {
	timeout       time.Duration
	slowThreshold time.Duration
	chunkSize     int
	log           zerolog.Logger
}

func NewProber(log zerolog.Logger) *Prober {
	return &Prober{
		timeout:       probeTimeout,
		slowThreshold: slowProbeThreshold,
		chunkSize:     batchChunkSize,
		log:           log.With().Str("component", "prober").Logger(),
	}
}

type healthReply struct {
	result HealthResult
	err    error
}

// Probe runs a single connectivity check, racing the adapter call against
// the probe timeout. ResponseTimeMs is wall clock around the race regardless
// of outcome. The context is propagated into the adapter call, so losing the
// race also cancels the underlying work for adapters that honor it; adapters
// that ignore cancellation are abandoned, not stopped.
func (p *Prober) Probe(ctx context.Context, target Target) Outcome {
	inst := target.Institution
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	replyCh := make(chan healthReply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replyCh <- healthReply{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		replyCh <- healthReply{result: p.callAdapter(ctx, target)}
	}()

	var result HealthResult
	var err error
	select {
	case reply := <-replyCh:
		result, err = reply.result, reply.err
	case <-ctx.Done():
		err = ctx.Err()
	}

	elapsed := time.Since(started)
	outcome := p.classify(inst.ID, started, elapsed, result, err)

	if elapsed >= p.slowThreshold {
		p.log.Warn().
			Str("institution_id", inst.ID).
			Str("institution_name", inst.Name).
			Dur("elapsed", elapsed).
			Msg("Probe exceeded slow-response threshold")
	}

	probeDuration.Record(ctx, elapsed.Seconds())
	probeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(outcome.Status)),
		attribute.String("institution_type", string(inst.Type)),
	))

	return outcome
}

// callAdapter invokes the adapter's health check, falling back to
// TestConnection when the adapter reports the call as unsupported.
func (p *Prober) callAdapter(ctx context.Context, target Target) healthReply {
	result, err := target.Adapter.HealthCheck(ctx, target.Institution.ID)
	if errors.Is(err, ErrHealthCheckUnsupported) {
		if tester, ok := target.Adapter.(ConnectionTester); ok {
			result, err = tester.TestConnection(ctx, target.Institution.ID)
		}
	}
	return healthReply{result: result, err: err}
}

// classify maps an adapter reply to an outcome, in priority order: adapter
// error, success, reauth required, plain failure.
func (p *Prober) classify(institutionID string, started time.Time, elapsed time.Duration, result HealthResult, err error) Outcome {
	outcome := Outcome{
		InstitutionID:  institutionID,
		CheckedAt:      started,
		ResponseTimeMs: elapsed.Milliseconds(),
	}

	switch {
	case err != nil:
		outcome.Status = StatusDisconnected
		outcome.ErrorMessage = err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			outcome.ErrorCode = ErrCodeTimeout
		} else {
			outcome.ErrorCode = ErrCodeUnexpected
		}

	case result.Success:
		outcome.Status = StatusConnected

	case result.NeedsReauth:
		outcome.Status = StatusNeedReauth
		outcome.ErrorCode = result.ErrorCode
		if outcome.ErrorCode == "" {
			outcome.ErrorCode = ErrCodeAuth
		}
		outcome.ErrorMessage = result.ErrorMessage
		if outcome.ErrorMessage == "" {
			outcome.ErrorMessage = "institution requires reauthentication"
		}

	default:
		outcome.Status = StatusDisconnected
		outcome.ErrorCode = result.ErrorCode
		if outcome.ErrorCode == "" {
			outcome.ErrorCode = ErrCodeConnection
		}
		outcome.ErrorMessage = result.ErrorMessage
		if outcome.ErrorMessage == "" {
			outcome.ErrorMessage = "connection check failed"
		}
	}

	return outcome
}

// ProbeBatch probes every target, at most batchChunkSize concurrently, and
// returns outcomes in the exact order of the input. One probe's failure
// never aborts the batch or affects other targets' outcomes.
func (p *Prober) ProbeBatch(ctx context.Context, targets []Target) []Outcome {
	outcomes := make([]Outcome, len(targets))

	for start := 0; start < len(targets); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(targets) {
			end = len(targets)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						p.log.Error().
							Str("institution_id", targets[i].Institution.ID).
							Interface("panic", r).
							Msg("Probe panicked inside batch")
						outcomes[i] = Outcome{
							InstitutionID:  targets[i].Institution.ID,
							Status:         StatusDisconnected,
							CheckedAt:      time.Now(),
							ErrorMessage:   fmt.Sprintf("probe failed: %v", r),
							ErrorCode:      ErrCodeAPIClient,
						}
					}
				}()
				outcomes[i] = p.Probe(ctx, targets[i])
			}(i)
		}
		wg.Wait()
	}

	return outcomes
}
