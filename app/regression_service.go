package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mvextras/adapters/stats/regression"
	"mvextras/domain/dataset"
	"mvextras/domain/stats"
	"mvextras/internal"
	"mvextras/internal/errors"
	"mvextras/internal/session"
	"mvextras/ports"
)

// RegressionService fits multiple regressions and persists one row per term
type RegressionService struct {
	repo    ports.RegressionRepository
	session *session.Session
	opts    regression.Options
	logger  *internal.Logger
	now     func() time.Time
}

// RegressionRequest names the response and the requested predictors
type RegressionRequest struct {
	Response   string   `json:"response" binding:"required"`
	Predictors []string `json:"predictors" binding:"required"`
}

// RegressionResult carries the rows of one run
type RegressionResult struct {
	RunID   int                   `json:"run_id"`
	Formula string                `json:"formula"`
	Dropped []string              `json:"dropped,omitempty"`
	Rows    []stats.RegressionRow `json:"rows"`
}

// NewRegressionService creates a regression service
func NewRegressionService(repo ports.RegressionRepository, sess *session.Session, opts regression.Options, logger *internal.Logger) *RegressionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RegressionService{
		repo:    repo,
		session: sess,
		opts:    opts,
		logger:  logger.Named("regression"),
		now:     time.Now,
	}
}

// Run fits response on the numeric subset of predictors. A failed fit is logged and
// returned with no rows saved; a fit that did not converge is still saved with its note.
func (s *RegressionService) Run(ctx context.Context, ds *dataset.Dataset, req RegressionRequest) (*RegressionResult, error) {
	fit, err := regression.FitDataset(ds, req.Response, req.Predictors, s.opts)
	if err != nil {
		s.logger.Warn("regression of %s on [%s] failed: %v", req.Response, strings.Join(req.Predictors, ", "), err)
		return nil, err
	}
	if dropped := fit.Selection.Dropped; len(dropped) > 0 {
		s.logger.Info("dropped non-numeric predictors from %s model: %s", req.Response, strings.Join(dropped, ", "))
	}
	if fit.Warning != "" {
		s.logger.Warn("%s", fit.Warning)
	}

	persisted, err := s.repo.MaxRunID(ctx)
	if err != nil {
		s.logger.Warn("could not read persisted run ids, using session counter: %v", err)
		persisted = 0
	}
	runID := s.session.NextRunID(persisted)

	result := &RegressionResult{
		RunID:   runID,
		Formula: fit.Formula(),
		Dropped: fit.Selection.Dropped,
		Rows:    RegressionRows(runID, ds.DisplayName(), fit, s.now().UTC()),
	}

	if err := s.repo.SaveRegression(ctx, result.Rows); err != nil {
		s.logger.Error("failed to save regression run %d: %v", runID, err)
		return result, errors.DatabaseError(fmt.Sprintf("failed to save regression run %d", runID), err)
	}

	s.logger.Info("regression run %d: %s (R²=%.4f, n=%d)", runID, result.Formula, fit.RSquared, fit.NObservationsUsed)
	return result, nil
}

// RegressionRows emits the intercept row followed by one row per used predictor, each
// carrying the shared fit statistics.
func RegressionRows(runID int, tableName string, fit *regression.Fit, date time.Time) []stats.RegressionRow {
	base := stats.RegressionRow{
		RunID:               runID,
		TableName:           tableName,
		Response:            fit.Response,
		RSquared:            stats.Of(fit.RSquared),
		AdjRSquared:         stats.Of(fit.AdjRSquared),
		Sigma:               stats.Of(fit.Sigma),
		DegreesFreedom:      fit.DegreesFreedom,
		ResidualDF:          fit.ResidualDF,
		NObservationsUsed:   fit.NObservationsUsed,
		NObservationsTotal:  fit.NObservationsTotal,
		Converged:           fit.Converged,
		IterationsUsed:      fit.IterationsUsed,
		Note:                fit.Warning,
		Formula:             fit.Formula(),
		PredictorsAttempted: strings.Join(fit.Selection.Attempted, ", "),
		NTermsAttempted:     len(fit.Selection.Attempted),
		PredictorsUsed:      strings.Join(fit.PredictorNames, ", "),
		NTermsUsed:          len(fit.PredictorNames),
		Date:                date,
	}

	rows := make([]stats.RegressionRow, 0, len(fit.Coefficients)+1)
	intercept := base
	intercept.Term = stats.InterceptTerm
	intercept.Coefficient = fit.Intercept
	rows = append(rows, intercept)
	for i, name := range fit.PredictorNames {
		row := base
		row.Term = name
		row.Coefficient = fit.Coefficients[i]
		rows = append(rows, row)
	}
	return rows
}

// Rows returns the saved rows of a run
func (s *RegressionService) Rows(ctx context.Context, runID int) ([]stats.RegressionRow, error) {
	return s.repo.ListRegression(ctx, runID)
}
