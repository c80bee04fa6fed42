package connection

import (
	"context"
	"time"
)

// TopicConnectionFailed is the event topic carrying failed check runs.
const TopicConnectionFailed = "connection.failed"

// FailedEvent is emitted after a check run in which at least one probe
// failed. It carries every failing result of the run.
type FailedEvent struct {
	Errors    []CheckResult `json:"errors"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// FailurePublisher delivers FailedEvents to interested consumers. Delivery
// is fire-and-forget from the emitter's point of view: a consumer failure
// must never propagate back into the check run.
type FailurePublisher interface {
	PublishConnectionFailed(ctx context.Context, evt FailedEvent) error
}

// TargetSource is the aggregation collaborator that supplies the current set
// of probe targets, used by the scheduled check path.
type TargetSource interface {
	GetAllTargets(ctx context.Context) ([]Target, error)
}
