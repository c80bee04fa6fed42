package connection

import (
	"context"
	"time"
)

// HistoryRepository is the append-only log of probe outcomes. There is no
// update operation; "current status" is always derived from the log.
type HistoryRepository interface {
	// SaveMany appends records as one batch write.
	SaveMany(ctx context.Context, records []HistoryRecord) error

	// FindLatestByInstitutionID returns the record with the maximum
	// CheckedAt for the institution, or nil if none exist.
	FindLatestByInstitutionID(ctx context.Context, institutionID string) (*HistoryRecord, error)

	// FindAllLatest returns, for each distinct institution present in the
	// log, its single most recent record.
	FindAllLatest(ctx context.Context) ([]HistoryRecord, error)

	// FindByInstitutionIDAndDateRange returns records in [start, end]
	// ordered by CheckedAt descending. A non-positive limit means no limit.
	FindByInstitutionIDAndDateRange(ctx context.Context, institutionID string, start, end time.Time, limit int) ([]HistoryRecord, error)

	// FindAll returns records ordered by CheckedAt descending. A
	// non-positive limit means no limit.
	FindAll(ctx context.Context, limit int) ([]HistoryRecord, error)

	// DeleteOlderThan removes records with CheckedAt before the cutoff and
	// returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
