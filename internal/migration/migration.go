package migration

import (
	"context"

	"mvextras/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.Wrapf(err, "failed to %s", step.Name)
		}
	}
	return nil
}

// Step is one idempotent schema statement.
type Step struct {
	Name string
	SQL  string
}

// Steps lists the schema statements in execution order.
func Steps() []Step {
	return []Step{
		{Name: "create association_records table", SQL: createAssociationRecords},
		{Name: "create regression_rows table", SQL: createRegressionRows},
		{Name: "create indexes", SQL: createIndexes},
	}
}

// Float columns are nullable: NULL means the measure was not computed, 'NaN' that it was
// computed but undefined.
const createAssociationRecords = `
	CREATE TABLE IF NOT EXISTS association_records (
		id UUID PRIMARY KEY,
		table_name TEXT NOT NULL,
		predictor TEXT NOT NULL,
		response TEXT NOT NULL,
		correlation DOUBLE PRECISION,
		correlation_type VARCHAR(50) NOT NULL,
		n_neither_missing INTEGER NOT NULL,
		n_cases INTEGER NOT NULL,
		n_blanks1 INTEGER NOT NULL,
		n_blanks2 INTEGER NOT NULL,
		correl_blanks DOUBLE PRECISION,
		ci_low95 DOUBLE PRECISION,
		ci_high95 DOUBLE PRECISION,
		p_value DOUBLE PRECISION,
		correlation_incl_missing DOUBLE PRECISION,
		p_value_incl_missing DOUBLE PRECISION,
		computed_at TIMESTAMP WITH TIME ZONE NOT NULL,
		type1 TEXT NOT NULL DEFAULT '',
		unit1 TEXT NOT NULL DEFAULT '',
		type2 TEXT NOT NULL DEFAULT '',
		unit2 TEXT NOT NULL DEFAULT '',
		description1 TEXT NOT NULL DEFAULT '',
		description2 TEXT NOT NULL DEFAULT '',
		table_order_predictor TEXT NOT NULL,
		table_order_response TEXT NOT NULL
	)
`

const createRegressionRows = `
	CREATE TABLE IF NOT EXISTS regression_rows (
		id UUID PRIMARY KEY,
		run_id INTEGER NOT NULL,
		table_name TEXT NOT NULL,
		response TEXT NOT NULL,
		term TEXT NOT NULL,
		coefficient DOUBLE PRECISION NOT NULL,
		r_squared DOUBLE PRECISION,
		adj_r_squared DOUBLE PRECISION,
		sigma DOUBLE PRECISION,
		df INTEGER NOT NULL,
		residual_df INTEGER NOT NULL,
		n_used INTEGER NOT NULL,
		n_total INTEGER NOT NULL,
		converged BOOLEAN NOT NULL,
		iterations INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		formula TEXT NOT NULL,
		predictors_attempted TEXT NOT NULL,
		n_terms_attempted INTEGER NOT NULL,
		predictors_used TEXT NOT NULL,
		n_terms_used INTEGER NOT NULL,
		computed_at TIMESTAMP WITH TIME ZONE NOT NULL
	)
`

const createIndexes = `
	CREATE INDEX IF NOT EXISTS idx_association_records_table ON association_records(table_name, computed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_regression_rows_run ON regression_rows(run_id);
`
