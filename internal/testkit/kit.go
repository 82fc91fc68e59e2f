package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mvextras/domain/core"
	"mvextras/domain/dataset"
	"mvextras/domain/stats"
	"mvextras/ports"
)

// TestKit provides in-memory adapters and fixtures. The server falls back to it when no
// database is configured.
type TestKit struct {
	associations *InMemoryAssociationRepository
	regressions  *InMemoryRegressionRepository
}

// NewTestKit creates a new test kit with empty repositories
func NewTestKit() *TestKit {
	return &TestKit{
		associations: NewInMemoryAssociationRepository(),
		regressions:  NewInMemoryRegressionRepository(),
	}
}

// AssociationRepository returns the shared in-memory association store
func (t *TestKit) AssociationRepository() *InMemoryAssociationRepository {
	return t.associations
}

// RegressionRepository returns the shared in-memory regression store
func (t *TestKit) RegressionRepository() *InMemoryRegressionRepository {
	return t.regressions
}

// SurveyDataset generates the default synthetic survey
func (t *TestKit) SurveyDataset(seed int64) *dataset.Dataset {
	cfg := DefaultSurveyConfig()
	cfg.Seed = seed
	return NewSurveyDataGenerator(cfg).Generate()
}

// InMemoryAssociationRepository keeps association tables in memory, newest batch last
type InMemoryAssociationRepository struct {
	mu      sync.RWMutex
	batches map[string][][]stats.AssociationRecord

	// SaveErr, when set, is returned by SaveAssociations instead of storing
	SaveErr error
}

var _ ports.AssociationRepository = (*InMemoryAssociationRepository)(nil)

// NewInMemoryAssociationRepository creates an empty store
func NewInMemoryAssociationRepository() *InMemoryAssociationRepository {
	return &InMemoryAssociationRepository{batches: make(map[string][][]stats.AssociationRecord)}
}

// SaveAssociations stores a copy of the batch under each record's table name
func (s *InMemoryAssociationRepository) SaveAssociations(ctx context.Context, records []stats.AssociationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	if len(records) == 0 {
		return nil
	}

	byTable := make(map[string][]stats.AssociationRecord)
	var order []string
	for _, r := range records {
		if r.ID == "" {
			r.ID = core.NewID().String()
		}
		if _, ok := byTable[r.TableName]; !ok {
			order = append(order, r.TableName)
		}
		byTable[r.TableName] = append(byTable[r.TableName], r)
	}
	for _, table := range order {
		s.batches[table] = append(s.batches[table], byTable[table])
	}
	return nil
}

// ListAssociations returns the newest batch for tableName in table order
func (s *InMemoryAssociationRepository) ListAssociations(ctx context.Context, tableName string) ([]stats.AssociationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batches := s.batches[tableName]
	if len(batches) == 0 {
		return nil, core.NewNotFoundError("association table", tableName)
	}
	latest := batches[len(batches)-1]
	out := make([]stats.AssociationRecord, len(latest))
	copy(out, latest)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TableOrderPredictor != out[j].TableOrderPredictor {
			return out[i].TableOrderPredictor < out[j].TableOrderPredictor
		}
		return out[i].TableOrderResponse < out[j].TableOrderResponse
	})
	return out, nil
}

// BatchCount reports how many batches were saved for tableName
func (s *InMemoryAssociationRepository) BatchCount(tableName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches[tableName])
}

// InMemoryRegressionRepository keeps regression runs in memory
type InMemoryRegressionRepository struct {
	mu   sync.RWMutex
	runs map[int][]stats.RegressionRow

	// SaveErr, when set, is returned by SaveRegression instead of storing
	SaveErr error
}

var _ ports.RegressionRepository = (*InMemoryRegressionRepository)(nil)

// NewInMemoryRegressionRepository creates an empty store
func NewInMemoryRegressionRepository() *InMemoryRegressionRepository {
	return &InMemoryRegressionRepository{runs: make(map[int][]stats.RegressionRow)}
}

// SaveRegression appends rows to their runs
func (s *InMemoryRegressionRepository) SaveRegression(ctx context.Context, rows []stats.RegressionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	for _, r := range rows {
		if r.ID == "" {
			r.ID = core.NewID().String()
		}
		s.runs[r.RunID] = append(s.runs[r.RunID], r)
	}
	return nil
}

// MaxRunID returns the largest stored run id
func (s *InMemoryRegressionRepository) MaxRunID(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	maxID := 0
	for id := range s.runs {
		maxID = max(maxID, id)
	}
	return maxID, nil
}

// ListRegression returns the rows of one run in insertion order
func (s *InMemoryRegressionRepository) ListRegression(ctx context.Context, runID int) ([]stats.RegressionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.runs[runID]
	if !ok {
		return nil, core.NewNotFoundError("regression run", fmt.Sprint(runID))
	}
	out := make([]stats.RegressionRow, len(rows))
	copy(out, rows)
	return out, nil
}
