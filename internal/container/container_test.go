package container

import (
	"context"
	"testing"

	"mvextras/internal/config"
	"mvextras/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesInMemoryRepositories(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfg, err := config.Load()
	require.NoError(t, err)

	c, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &testkit.InMemoryAssociationRepository{}, c.AssociationRepo)
	assert.IsType(t, &testkit.InMemoryRegressionRepository{}, c.RegressionRepo)
	assert.NotNil(t, c.Associations)
	assert.NotNil(t, c.Regressions)

	require.NoError(t, c.Connect(context.Background()))
	assert.Nil(t, c.DB)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestServicesComputeThroughContainer(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	c, err := New(cfg, nil)
	require.NoError(t, err)

	ds := c.TestKit.SurveyDataset(1)
	table, err := c.Associations.ComputeTable(context.Background(), ds)
	require.NoError(t, err)
	assert.Len(t, table.Records, len(ds.Attributes)*len(ds.Attributes))

	records, err := c.AssociationRepo.ListAssociations(context.Background(), ds.DisplayName())
	require.NoError(t, err)
	assert.Len(t, records, len(table.Records))
}
