package connection

import (
	"context"
	"errors"
)

// ErrHealthCheckUnsupported is returned by adapters that do not implement a
// dedicated health-check call. The Prober falls back to TestConnection when
// the adapter provides one.
var ErrHealthCheckUnsupported = errors.New("health check not supported by adapter")

// HealthResult is the adapter-level outcome of a connectivity check.
type HealthResult struct {
	Success      bool
	NeedsReauth  bool
	ErrorMessage string
	ErrorCode    string
}

// Adapter is the capability each institution-specific integration exposes to
// the monitoring core. The core depends only on this interface, never on
// concrete institution kinds.
type Adapter interface {
	HealthCheck(ctx context.Context, institutionID string) (HealthResult, error)
}

// ConnectionTester is an optional fallback capability with the same shape as
// HealthCheck, for adapters whose provider lacks a dedicated health endpoint.
type ConnectionTester interface {
	TestConnection(ctx context.Context, institutionID string) (HealthResult, error)
}
