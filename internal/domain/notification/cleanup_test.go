package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockRepo implements Repository for testing
type mockRepo struct {
	CreateFunc       func(ctx context.Context, n Notification) error
	FindAllFunc      func(ctx context.Context) ([]Notification, error)
	FindByIDFunc     func(ctx context.Context, id string) (*Notification, error)
	UpdateStatusFunc func(ctx context.Context, id string, status Status, updatedAt time.Time) (*Notification, error)
	DeleteByIDsFunc  func(ctx context.Context, ids []string) (int64, error)

	created    []Notification
	deletedIDs [][]string
}

func (m *mockRepo) Create(ctx context.Context, n Notification) error {
	m.created = append(m.created, n)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, n)
	}
	return nil
}

func (m *mockRepo) FindAll(ctx context.Context) ([]Notification, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*Notification, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrNotificationNotFound
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (*Notification, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	return nil, ErrNotificationNotFound
}

func (m *mockRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	m.deletedIDs = append(m.deletedIDs, ids)
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

func TestCleanupDeletesOnlyEligible(t *testing.T) {
	ref := time.Date(2026, 8, 31, 4, 0, 0, 0, time.UTC)
	repo := &mockRepo{
		FindAllFunc: func(ctx context.Context) ([]Notification, error) {
			return []Notification{
				{ID: "old-confirmed", Status: StatusConfirmed, UpdatedAt: daysAgo(ref, 45)},
				{ID: "fresh-confirmed", Status: StatusConfirmed, UpdatedAt: daysAgo(ref, 2)},
				{ID: "old-dismissed", Status: StatusDismissed, UpdatedAt: daysAgo(ref, 10)},
				{ID: "ancient-pending", Status: StatusPending, UpdatedAt: daysAgo(ref, 1000)},
			}, nil
		},
	}

	job := NewCleanupJob(repo, zerolog.Nop())
	job.now = func() time.Time { return ref }

	result := job.RunOnce(context.Background())

	if result.Total != 4 {
		t.Errorf("Total = %d, want 4", result.Total)
	}
	if result.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", result.Deleted)
	}
	if len(repo.deletedIDs) != 1 {
		t.Fatalf("DeleteByIDs called %d times, want one batch", len(repo.deletedIDs))
	}
	got := repo.deletedIDs[0]
	if len(got) != 2 || got[0] != "old-confirmed" || got[1] != "old-dismissed" {
		t.Errorf("deleted ids = %v, want [old-confirmed old-dismissed]", got)
	}
}

func TestCleanupNothingEligible(t *testing.T) {
	repo := &mockRepo{
		FindAllFunc: func(ctx context.Context) ([]Notification, error) {
			return []Notification{
				{ID: "pending", Status: StatusPending, UpdatedAt: time.Now().AddDate(-3, 0, 0)},
			}, nil
		},
	}

	job := NewCleanupJob(repo, zerolog.Nop())
	result := job.RunOnce(context.Background())

	if result.Deleted != 0 || result.Total != 1 {
		t.Errorf("result = %+v, want {Deleted:0 Total:1}", result)
	}
	if len(repo.deletedIDs) != 0 {
		t.Error("DeleteByIDs called with nothing eligible")
	}
}

func TestCleanupLoadFailureIsNoOp(t *testing.T) {
	repo := &mockRepo{
		FindAllFunc: func(ctx context.Context) ([]Notification, error) {
			return nil, errors.New("db down")
		},
	}

	job := NewCleanupJob(repo, zerolog.Nop())
	result := job.RunOnce(context.Background())

	if result.Deleted != 0 || result.Total != 0 {
		t.Errorf("result = %+v, want zero-effect no-op", result)
	}
}

func TestCleanupDeleteFailureIsNoOp(t *testing.T) {
	ref := time.Now()
	repo := &mockRepo{
		FindAllFunc: func(ctx context.Context) ([]Notification, error) {
			return []Notification{
				{ID: "old", Status: StatusArchived, UpdatedAt: daysAgo(ref, 90)},
			}, nil
		},
		DeleteByIDsFunc: func(ctx context.Context, ids []string) (int64, error) {
			return 0, errors.New("db down")
		},
	}

	job := NewCleanupJob(repo, zerolog.Nop())
	result := job.RunOnce(context.Background())

	if result.Deleted != 0 {
		t.Errorf("Deleted = %d, want 0 after delete failure", result.Deleted)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Total)
	}
}
