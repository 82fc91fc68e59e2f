package ports

import (
	"context"

	"mvextras/domain/stats"
)

// AssociationRepository defines the interface for association table storage
type AssociationRepository interface {
	// SaveAssociations persists one computed table as a single batch
	SaveAssociations(ctx context.Context, records []stats.AssociationRecord) error
	// ListAssociations returns the most recent table computed for tableName, in table order
	ListAssociations(ctx context.Context, tableName string) ([]stats.AssociationRecord, error)
}

// RegressionRepository defines the interface for regression result storage
type RegressionRepository interface {
	// SaveRegression persists every row of one run
	SaveRegression(ctx context.Context, rows []stats.RegressionRow) error
	// MaxRunID returns the largest persisted run id, 0 when none exist
	MaxRunID(ctx context.Context) (int, error)
	// ListRegression returns the rows of a run, intercept first
	ListRegression(ctx context.Context, runID int) ([]stats.RegressionRow, error)
}
