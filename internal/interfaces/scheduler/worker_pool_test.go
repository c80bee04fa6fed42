package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeJob implements Job for testing
type fakeJob struct {
	name        string
	ExecuteFunc func(ctx context.Context) error
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Execute(ctx context.Context) error {
	if j.ExecuteFunc != nil {
		return j.ExecuteFunc(ctx)
	}
	return nil
}

func TestWorkerPoolExecutesSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(2, 10, zerolog.Nop())
	pool.Start()

	var mu sync.Mutex
	executed := make(map[string]int)
	var wg sync.WaitGroup

	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		job := &fakeJob{name: name, ExecuteFunc: func(ctx context.Context) error {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			executed[name]++
			return nil
		}}
		if err := pool.Submit(job); err != nil {
			t.Fatalf("Submit(%s): %v", name, err)
		}
	}

	wg.Wait()
	pool.ShutdownWithTimeout(time.Second)

	mu.Lock()
	defer mu.Unlock()
	for _, name := range []string{"a", "b", "c", "d"} {
		if executed[name] != 1 {
			t.Errorf("job %s executed %d times, want 1", name, executed[name])
		}
	}
}

func TestWorkerPoolJobErrorDoesNotStopWorkers(t *testing.T) {
	pool := NewWorkerPool(1, 10, zerolog.Nop())
	pool.Start()

	done := make(chan struct{})
	pool.Submit(&fakeJob{name: "failing", ExecuteFunc: func(ctx context.Context) error {
		return errors.New("job down")
	}})
	pool.Submit(&fakeJob{name: "after", ExecuteFunc: func(ctx context.Context) error {
		close(done)
		return nil
	}})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not continue after a failing job")
	}
	pool.ShutdownWithTimeout(time.Second)
}

func TestWorkerPoolDropsWhenQueueFull(t *testing.T) {
	// No Start: nothing drains the queue.
	pool := NewWorkerPool(1, 1, zerolog.Nop())

	if err := pool.Submit(&fakeJob{name: "first"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := pool.Submit(&fakeJob{name: "second"}); err == nil {
		t.Error("expected drop error when queue is full")
	}
}

func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1, 1, zerolog.Nop())
	pool.Start()
	pool.ShutdownWithTimeout(time.Second)

	if err := pool.Submit(&fakeJob{name: "late"}); err == nil {
		t.Error("expected error submitting after shutdown")
	}
}
