package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockExecutor implements CheckExecutor for testing
type mockExecutor struct {
	ExecuteFunc func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error)
}

func (m *mockExecutor) Execute(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd, targets)
	}
	return nil, nil
}

// mockTargetSource implements TargetSource for testing
type mockTargetSource struct {
	GetAllTargetsFunc func(ctx context.Context) ([]Target, error)

	mu    sync.Mutex
	calls int
}

func (m *mockTargetSource) GetAllTargets(ctx context.Context) ([]Target, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GetAllTargetsFunc != nil {
		return m.GetAllTargetsFunc(ctx)
	}
	return []Target{testTarget("inst-a", &fakeAdapter{})}, nil
}

func (m *mockTargetSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestOnScheduleSingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	executor := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
			close(started)
			<-release
			return []CheckResult{}, nil
		},
	}
	source := &mockTargetSource{}
	guard := NewGuard(executor, source, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		guard.OnSchedule(context.Background())
		close(done)
	}()

	<-started
	if !guard.IsRunning() {
		t.Error("IsRunning() = false during an in-flight run")
	}

	// Second invocation while the first run's probes are still pending is a
	// no-op: the aggregation collaborator must not be called again.
	guard.OnSchedule(context.Background())
	if got := source.callCount(); got != 1 {
		t.Errorf("target source called %d times during overlap, want 1", got)
	}

	close(release)
	<-done
	waitFor(t, func() bool { return !guard.IsRunning() }, "IsRunning() still true after both runs settled")
}

func TestOnScheduleSwallowsExecutorError(t *testing.T) {
	executor := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
			return nil, errors.New("history store unavailable")
		},
	}
	guard := NewGuard(executor, &mockTargetSource{}, zerolog.Nop())

	guard.OnSchedule(context.Background())

	if guard.IsRunning() {
		t.Error("IsRunning() = true after a failed scheduled run")
	}
}

func TestOnScheduleSwallowsSourceError(t *testing.T) {
	source := &mockTargetSource{
		GetAllTargetsFunc: func(ctx context.Context) ([]Target, error) {
			return nil, errors.New("institutions unavailable")
		},
	}
	executorCalled := false
	executor := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
			executorCalled = true
			return nil, nil
		},
	}
	guard := NewGuard(executor, source, zerolog.Nop())

	guard.OnSchedule(context.Background())

	if executorCalled {
		t.Error("executor invoked despite target source failure")
	}
	if guard.IsRunning() {
		t.Error("IsRunning() = true after source failure")
	}
}

func TestOnScheduleEmptyTargets(t *testing.T) {
	source := &mockTargetSource{
		GetAllTargetsFunc: func(ctx context.Context) ([]Target, error) {
			return nil, nil
		},
	}
	executorCalled := false
	executor := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
			executorCalled = true
			return nil, nil
		},
	}
	guard := NewGuard(executor, source, zerolog.Nop())

	guard.OnSchedule(context.Background())

	if executorCalled {
		t.Error("executor invoked for empty institution list")
	}
	if guard.IsRunning() {
		t.Error("IsRunning() = true after empty-list run")
	}
}

func TestTriggerManualSurfacesError(t *testing.T) {
	wantErr := errors.New("history store unavailable")
	executor := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
			return nil, wantErr
		},
	}
	guard := NewGuard(executor, &mockTargetSource{}, zerolog.Nop())

	_, err := guard.TriggerManual(context.Background(), CheckCommand{}, []Target{testTarget("inst-a", &fakeAdapter{})})
	if !errors.Is(err, wantErr) {
		t.Errorf("TriggerManual() error = %v, want %v", err, wantErr)
	}
	if guard.IsRunning() {
		t.Error("IsRunning() = true after failed manual run; flag must be cleared")
	}
}

func TestTriggerManualWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	executor := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, cmd CheckCommand, targets []Target) ([]CheckResult, error) {
			close(started)
			<-release
			return []CheckResult{}, nil
		},
	}
	guard := NewGuard(executor, &mockTargetSource{}, zerolog.Nop())

	go func() {
		_, _ = guard.TriggerManual(context.Background(), CheckCommand{}, []Target{testTarget("inst-a", &fakeAdapter{})})
	}()
	<-started

	_, err := guard.TriggerManual(context.Background(), CheckCommand{}, nil)
	if !errors.Is(err, ErrCheckInProgress) {
		t.Errorf("TriggerManual() during overlap = %v, want ErrCheckInProgress", err)
	}

	close(release)
	waitFor(t, func() bool { return !guard.IsRunning() }, "IsRunning() still true after manual run settled")
}
