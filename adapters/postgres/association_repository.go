package postgres

import (
	"context"
	"fmt"

	"mvextras/domain/core"
	"mvextras/domain/stats"
	"mvextras/ports"

	"github.com/jmoiron/sqlx"
)

// AssociationRepositoryImpl implements AssociationRepository for PostgreSQL
type AssociationRepositoryImpl struct {
	db *sqlx.DB
}

// NewAssociationRepository creates a new PostgreSQL association repository
func NewAssociationRepository(db *sqlx.DB) ports.AssociationRepository {
	return &AssociationRepositoryImpl{db: db}
}

const insertAssociation = `
	INSERT INTO association_records (
		id, table_name, predictor, response, correlation, correlation_type,
		n_neither_missing, n_cases, n_blanks1, n_blanks2, correl_blanks,
		ci_low95, ci_high95, p_value, correlation_incl_missing, p_value_incl_missing,
		computed_at, type1, unit1, type2, unit2, description1, description2,
		table_order_predictor, table_order_response
	) VALUES (
		:id, :table_name, :predictor, :response, :correlation, :correlation_type,
		:n_neither_missing, :n_cases, :n_blanks1, :n_blanks2, :correl_blanks,
		:ci_low95, :ci_high95, :p_value, :correlation_incl_missing, :p_value_incl_missing,
		:computed_at, :type1, :unit1, :type2, :unit2, :description1, :description2,
		:table_order_predictor, :table_order_response
	)
`

// SaveAssociations inserts the whole table in one transaction
func (r *AssociationRepositoryImpl) SaveAssociations(ctx context.Context, records []stats.AssociationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertAssociation)
	if err != nil {
		return fmt.Errorf("failed to prepare association insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = core.NewID().String()
		}
		if _, err := stmt.ExecContext(ctx, records[i]); err != nil {
			return fmt.Errorf("failed to insert association %s/%s: %w",
				records[i].Predictor, records[i].Response, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit associations: %w", err)
	}
	return nil
}

// ListAssociations returns the latest batch stored for tableName
func (r *AssociationRepositoryImpl) ListAssociations(ctx context.Context, tableName string) ([]stats.AssociationRecord, error) {
	var records []stats.AssociationRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM association_records
		WHERE table_name = $1
		  AND computed_at = (SELECT MAX(computed_at) FROM association_records WHERE table_name = $1)
		ORDER BY table_order_predictor, table_order_response
	`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	if len(records) == 0 {
		return nil, core.NewNotFoundError("association table", tableName)
	}
	return records, nil
}
