package ports

import (
	"context"

	"mvextras/domain/dataset"
	"mvextras/domain/stats"
)

// DatasetReader loads a dataset from a file-like source
type DatasetReader interface {
	ReadDataset(ctx context.Context, path string, policy dataset.EmptyStringPolicy) (*dataset.Dataset, error)
}

// ResultWriter exports computed tables to a file
type ResultWriter interface {
	WriteAssociations(path string, records []stats.AssociationRecord) error
	WriteRegression(path string, rows []stats.RegressionRow) error
}
