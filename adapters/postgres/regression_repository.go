package postgres

import (
	"context"
	"fmt"

	"mvextras/domain/core"
	"mvextras/domain/stats"
	"mvextras/ports"

	"github.com/jmoiron/sqlx"
)

// RegressionRepositoryImpl implements RegressionRepository for PostgreSQL
type RegressionRepositoryImpl struct {
	db *sqlx.DB
}

// NewRegressionRepository creates a new PostgreSQL regression repository
func NewRegressionRepository(db *sqlx.DB) ports.RegressionRepository {
	return &RegressionRepositoryImpl{db: db}
}

// SaveRegression inserts every row of a run in one statement
func (r *RegressionRepositoryImpl) SaveRegression(ctx context.Context, rows []stats.RegressionRow) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = core.NewID().String()
		}
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO regression_rows (
			id, run_id, table_name, response, term, coefficient, r_squared, adj_r_squared,
			sigma, df, residual_df, n_used, n_total, converged, iterations, note, formula,
			predictors_attempted, n_terms_attempted, predictors_used, n_terms_used, computed_at
		) VALUES (
			:id, :run_id, :table_name, :response, :term, :coefficient, :r_squared, :adj_r_squared,
			:sigma, :df, :residual_df, :n_used, :n_total, :converged, :iterations, :note, :formula,
			:predictors_attempted, :n_terms_attempted, :predictors_used, :n_terms_used, :computed_at
		)
	`, rows)
	if err != nil {
		return fmt.Errorf("failed to insert regression run %d: %w", rows[0].RunID, err)
	}
	return nil
}

// MaxRunID returns the largest stored run id
func (r *RegressionRepositoryImpl) MaxRunID(ctx context.Context) (int, error) {
	var maxID int
	if err := r.db.GetContext(ctx, &maxID, `SELECT COALESCE(MAX(run_id), 0) FROM regression_rows`); err != nil {
		return 0, fmt.Errorf("failed to read max run id: %w", err)
	}
	return maxID, nil
}

// ListRegression returns the rows of one run, intercept first
func (r *RegressionRepositoryImpl) ListRegression(ctx context.Context, runID int) ([]stats.RegressionRow, error) {
	var rows []stats.RegressionRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM regression_rows
		WHERE run_id = $1
		ORDER BY (term = $2) DESC, computed_at, id
	`, runID, stats.InterceptTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list regression run: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.NewNotFoundError("regression run", fmt.Sprint(runID))
	}
	return rows, nil
}
