package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"mvextras/adapters/stats/engine"
	"mvextras/domain/core"
	"mvextras/domain/dataset"
	"mvextras/domain/stats"
	apperrors "mvextras/internal/errors"
	"mvextras/internal/session"
	"mvextras/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func smallDataset() *dataset.Dataset {
	ds := testkit.Columns("small",
		map[string]string{"group": "categorical"},
		map[string][]any{
			"x":     testkit.Floats(1, 2, 3, 4, 5, 6),
			"y":     {2.0, 4.1, 5.9, nil, 10.2, 11.8},
			"group": testkit.Strings("a", "a", "b", "b", "c", "c"),
		},
		"x", "y", "group")
	ds.Title = "Small table"
	ds.Attributes[0].Unit = "cm"
	ds.Attributes[1].Description = "response"
	return ds
}

func newTestAssociationService(repo *MockAssociationRepository) (*AssociationService, *session.Session) {
	sess := session.New()
	svc := NewAssociationService(engine.NewStatsEngine(engine.Config{Workers: 2}), repo, sess, nil)
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, sess
}

func TestComputeTable(t *testing.T) {
	repo := new(MockAssociationRepository)
	repo.On("SaveAssociations", mock.Anything, mock.MatchedBy(func(r []stats.AssociationRecord) bool {
		return len(r) == 9
	})).Return(nil).Once()
	svc, _ := newTestAssociationService(repo)

	table, err := svc.ComputeTable(context.Background(), smallDataset())
	require.NoError(t, err)
	repo.AssertExpectations(t)

	assert.Equal(t, "Small table", table.TableName)
	require.Len(t, table.Records, 9)
	assert.Equal(t, 9, table.Summary.Pairs)

	xy := table.Records[1]
	assert.Equal(t, "x", xy.Predictor)
	assert.Equal(t, "y", xy.Response)
	assert.Equal(t, stats.MeasurePearson, xy.CorrelationType)
	assert.Equal(t, "001_x", xy.TableOrderPredictor)
	assert.Equal(t, "002_y", xy.TableOrderResponse)
	assert.Equal(t, "cm", xy.Unit1)
	assert.Equal(t, "response", xy.Description2)
	assert.Equal(t, "numeric", xy.Type1)
	assert.Equal(t, 5, xy.NNeitherMissing)
	assert.Equal(t, 6, xy.NCases)
	assert.Equal(t, 1, xy.NBlanks2)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), xy.Date)
	assert.InDelta(t, 0.99, xy.Correlation.OrNaN(), 0.01)

	groupY := table.Records[7]
	assert.Equal(t, "group", groupY.Predictor)
	assert.Equal(t, stats.MeasureEta, groupY.CorrelationType)
	assert.Equal(t, "003_group", groupY.TableOrderPredictor)
}

func TestComputeTableHiddenAttributesKeepTableOrder(t *testing.T) {
	repo := new(MockAssociationRepository)
	repo.On("SaveAssociations", mock.Anything, mock.Anything).Return(nil)
	svc, sess := newTestAssociationService(repo)
	ds := smallDataset()

	sess.SelectDataset(ds)
	sess.SetHidden("x", true)

	table, err := svc.ComputeTable(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, table.Records, 4)
	assert.Equal(t, "002_y", table.Records[0].TableOrderPredictor)
	assert.Equal(t, "003_group", table.Records[3].TableOrderResponse)
}

func TestComputeTableNoVisibleAttributes(t *testing.T) {
	repo := new(MockAssociationRepository)
	svc, sess := newTestAssociationService(repo)
	ds := smallDataset()

	sess.SelectDataset(ds)
	for _, a := range ds.Attributes {
		sess.SetHidden(a.Name, true)
	}

	table, err := svc.ComputeTable(context.Background(), ds)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, core.ErrNoVisibleAttributes)
	repo.AssertNotCalled(t, "SaveAssociations", mock.Anything, mock.Anything)
}

func TestComputeTableSaveFailureReturnsTable(t *testing.T) {
	repo := new(MockAssociationRepository)
	repo.On("SaveAssociations", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	svc, _ := newTestAssociationService(repo)

	table, err := svc.ComputeTable(context.Background(), smallDataset())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))
	require.NotNil(t, table)
	assert.Len(t, table.Records, 9)
}

func TestComputeTableCancelled(t *testing.T) {
	repo := new(MockAssociationRepository)
	svc, _ := newTestAssociationService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, err := svc.ComputeTable(ctx, smallDataset())
	assert.Nil(t, table)
	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "SaveAssociations", mock.Anything, mock.Anything)
}

func TestTableOrder(t *testing.T) {
	attrs := make([]dataset.Attribute, 12)
	for i := range attrs {
		attrs[i] = dataset.Attribute{Name: string(rune('a' + i))}
	}
	order := TableOrder(attrs)
	assert.Equal(t, "001_a", order["a"])
	assert.Equal(t, "012_l", order["l"])
}
