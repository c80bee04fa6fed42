package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"centavo/internal/domain/connection"
)

const historyColumns = `id, institution_id, institution_name, institution_type, status, checked_at, response_time_ms, error_message, error_code`

// HistoryRepository is the Postgres-backed append-only connection log.
// Inserts are the only writes besides retention pruning; rows are never
// updated.
type HistoryRepository struct {
	db  *DB
	log zerolog.Logger
}

func NewHistoryRepository(db *DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("component", "history_repository").Logger(),
	}
}

// SaveMany appends records in a single multi-row insert.
func (r *HistoryRepository) SaveMany(ctx context.Context, records []connection.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO connection_history (` + historyColumns + `) VALUES `)

	args := make([]any, 0, len(records)*9)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 9
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args,
			rec.ID,
			rec.InstitutionID,
			rec.InstitutionName,
			rec.InstitutionType,
			rec.Status,
			rec.CheckedAt,
			rec.ResponseTimeMs,
			nullString(rec.ErrorMessage),
			nullString(rec.ErrorCode),
		)
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert connection history batch: %w", err)
	}
	return nil
}

// FindLatestByInstitutionID returns the most recent record for one
// institution, or nil when it has never been checked.
func (r *HistoryRepository) FindLatestByInstitutionID(ctx context.Context, institutionID string) (*connection.HistoryRecord, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM connection_history
		WHERE institution_id = $1
		ORDER BY checked_at DESC
		LIMIT 1
	`

	rec, err := r.scanRecord(r.db.QueryRowContext(ctx, query, institutionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest connection history: %w", err)
	}
	return rec, nil
}

// FindAllLatest derives the current status per institution from the log:
// one row per distinct institution_id, the one with the maximum checked_at.
func (r *HistoryRepository) FindAllLatest(ctx context.Context) ([]connection.HistoryRecord, error) {
	query := `
		SELECT DISTINCT ON (institution_id) ` + historyColumns + `
		FROM connection_history
		ORDER BY institution_id, checked_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest connection statuses: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// FindByInstitutionIDAndDateRange returns records in [start, end] ordered by
// checked_at descending.
func (r *HistoryRepository) FindByInstitutionIDAndDateRange(ctx context.Context, institutionID string, start, end time.Time, limit int) ([]connection.HistoryRecord, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM connection_history
		WHERE institution_id = $1 AND checked_at >= $2 AND checked_at <= $3
		ORDER BY checked_at DESC
	`
	args := []any{institutionID, start, end}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection history range: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// FindAll returns records ordered by checked_at descending.
func (r *HistoryRepository) FindAll(ctx context.Context, limit int) ([]connection.HistoryRecord, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM connection_history
		ORDER BY checked_at DESC
	`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list connection history: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// DeleteOlderThan prunes records checked before the cutoff.
func (r *HistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM connection_history WHERE checked_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune connection history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned connection history: %w", err)
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one record and sanitizes its status: the internal
// CHECKING value must never leak through a public read.
func (r *HistoryRepository) scanRecord(row rowScanner) (*connection.HistoryRecord, error) {
	var rec connection.HistoryRecord
	var errMsg, errCode sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.InstitutionID,
		&rec.InstitutionName,
		&rec.InstitutionType,
		&rec.Status,
		&rec.CheckedAt,
		&rec.ResponseTimeMs,
		&errMsg,
		&errCode,
	)
	if err != nil {
		return nil, err
	}

	rec.ErrorMessage = errMsg.String
	rec.ErrorCode = errCode.String

	if sanitized, coerced := rec.Status.Sanitize(); coerced {
		r.log.Warn().
			Str("record_id", rec.ID).
			Str("institution_id", rec.InstitutionID).
			Msg("Internal CHECKING status found in storage, coercing to DISCONNECTED")
		rec.Status = sanitized
	}

	return &rec, nil
}

func (r *HistoryRepository) scanRecords(rows *sql.Rows) ([]connection.HistoryRecord, error) {
	records := make([]connection.HistoryRecord, 0)
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection history row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read connection history rows: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
