package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"centavo/internal/domain/institution"
)

const institutionColumns = `id, name, type, provider_code, created_at`

// InstitutionRepository reads registered institution connections. The
// monitoring core never writes this table.
type InstitutionRepository struct {
	db *DB
}

func NewInstitutionRepository(db *DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

func (r *InstitutionRepository) GetAll(ctx context.Context) ([]institution.Institution, error) {
	query := `
		SELECT ` + institutionColumns + `
		FROM institutions
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list institutions: %w", err)
	}
	defer rows.Close()

	institutions := make([]institution.Institution, 0)
	for rows.Next() {
		var inst institution.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Type, &inst.ProviderCode, &inst.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan institution row: %w", err)
		}
		institutions = append(institutions, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read institution rows: %w", err)
	}
	return institutions, nil
}

func (r *InstitutionRepository) GetByID(ctx context.Context, id string) (*institution.Institution, error) {
	query := `
		SELECT ` + institutionColumns + `
		FROM institutions
		WHERE id = $1
	`

	var inst institution.Institution
	err := r.db.QueryRowContext(ctx, query, id).Scan(&inst.ID, &inst.Name, &inst.Type, &inst.ProviderCode, &inst.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, institution.ErrInstitutionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get institution: %w", err)
	}
	return &inst, nil
}
