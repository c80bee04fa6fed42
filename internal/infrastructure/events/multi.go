package events

import (
	"context"
	"errors"

	"centavo/internal/domain/connection"
)

// MultiPublisher fans one failure event out to several publishers. Each
// publisher is attempted even when an earlier one fails.
type MultiPublisher struct {
	publishers []connection.FailurePublisher
}

func NewMultiPublisher(publishers ...connection.FailurePublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) PublishConnectionFailed(ctx context.Context, event connection.FailedEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishConnectionFailed(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
