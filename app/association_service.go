package app

import (
	"context"
	"fmt"
	"time"

	"mvextras/adapters/stats/engine"
	"mvextras/domain/core"
	"mvextras/domain/dataset"
	"mvextras/domain/stats"
	"mvextras/internal"
	"mvextras/internal/errors"
	"mvextras/internal/session"
	"mvextras/ports"
)

// AssociationService computes and persists the pairwise association table of a dataset
type AssociationService struct {
	engine  *engine.StatsEngine
	repo    ports.AssociationRepository
	session *session.Session
	logger  *internal.Logger
	now     func() time.Time
}

// AssociationTable is the output of one sweep
type AssociationTable struct {
	TableName string                    `json:"table_name"`
	Records   []stats.AssociationRecord `json:"records"`
	Summary   engine.SweepSummary       `json:"summary"`
	RuntimeMs int64                     `json:"runtime_ms"`
}

// NewAssociationService creates an association service
func NewAssociationService(eng *engine.StatsEngine, repo ports.AssociationRepository, sess *session.Session, logger *internal.Logger) *AssociationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AssociationService{
		engine:  eng,
		repo:    repo,
		session: sess,
		logger:  logger.Named("associations"),
		now:     time.Now,
	}
}

// ComputeTable runs every ordered pair of visible attributes, the diagonal included, and
// saves the records as one batch. When saving fails the computed table is still returned
// together with the error.
func (s *AssociationService) ComputeTable(ctx context.Context, ds *dataset.Dataset) (*AssociationTable, error) {
	start := s.now()
	s.session.SelectDataset(ds)

	order := TableOrder(ds.Attributes)
	visible := s.session.Visible(ds.Attributes)
	if len(visible) == 0 {
		s.logger.Warn("no visible attributes in %s; nothing to compute", ds.DisplayName())
		return nil, core.ErrNoVisibleAttributes
	}

	s.logger.Debug("computing %d x %d association table for %s", len(visible), len(visible), ds.DisplayName())
	results, err := s.engine.Matrix(ctx, ds, visible)
	if err != nil {
		return nil, fmt.Errorf("association sweep failed: %w", err)
	}

	byName := make(map[string]dataset.Attribute, len(ds.Attributes))
	for _, a := range ds.Attributes {
		byName[a.Name] = a
	}

	table := &AssociationTable{
		TableName: ds.DisplayName(),
		Records:   make([]stats.AssociationRecord, len(results)),
		Summary:   engine.Summarize(results),
	}
	date := start.UTC()
	for i, a := range results {
		table.Records[i] = NewAssociationRecord(table.TableName, a, byName[a.Predictor], byName[a.Response], order, date)
	}
	table.RuntimeMs = s.now().Sub(start).Milliseconds()

	if err := s.repo.SaveAssociations(ctx, table.Records); err != nil {
		s.logger.Error("failed to save %d association records for %s: %v", len(table.Records), table.TableName, err)
		return table, errors.DatabaseError("failed to save association table", err)
	}

	s.logger.Info("association table for %s: %d pairs, %d undefined, %dms",
		table.TableName, table.Summary.Pairs, table.Summary.UndefinedMeasure, table.RuntimeMs)
	return table, nil
}

// LatestTable returns the most recently saved table for tableName
func (s *AssociationService) LatestTable(ctx context.Context, tableName string) ([]stats.AssociationRecord, error) {
	return s.repo.ListAssociations(ctx, tableName)
}

// TableOrder maps each attribute name to its zero-padded 1-based position over all
// attributes, hidden ones included, e.g. "003_income".
func TableOrder(attrs []dataset.Attribute) map[string]string {
	order := make(map[string]string, len(attrs))
	for i, a := range attrs {
		order[a.Name] = fmt.Sprintf("%03d_%s", i+1, a.Name)
	}
	return order
}

// NewAssociationRecord flattens an association into its persisted row.
func NewAssociationRecord(tableName string, a stats.Association, predictor, response dataset.Attribute, order map[string]string, date time.Time) stats.AssociationRecord {
	return stats.AssociationRecord{
		TableName:              tableName,
		Predictor:              a.Predictor,
		Response:               a.Response,
		Correlation:            a.Measure,
		CorrelationType:        a.MeasureType,
		NNeitherMissing:        a.NCompleteCases,
		NCases:                 a.TotalCases,
		NBlanks1:               a.NMissingX,
		NBlanks2:               a.NMissingY,
		CorrelBlanks:           a.MissingnessCorrelation,
		CILow95:                a.CILow,
		CIHigh95:               a.CIHigh,
		PValue:                 a.PValue,
		CorrelationInclMissing: a.MeasureInclMissing,
		PValueInclMissing:      a.PValueInclMissing,
		Date:                   date,
		Type1:                  predictor.Type,
		Unit1:                  predictor.Unit,
		Type2:                  response.Type,
		Unit2:                  response.Unit,
		Description1:           predictor.Description,
		Description2:           response.Description,
		TableOrderPredictor:    order[a.Predictor],
		TableOrderResponse:     order[a.Response],
	}
}
