package postgres

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"mvextras/domain/core"
	"mvextras/domain/stats"
	"mvextras/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL and runs migrations; tests skip without it.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	return db
}

func TestAssociationRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewAssociationRepository(db)
	ctx := context.Background()

	table := "it-" + core.NewID().String()
	now := time.Now().UTC().Truncate(time.Microsecond)
	records := []stats.AssociationRecord{
		{
			TableName: table, Predictor: "x", Response: "y",
			Correlation: stats.Of(0.5), CorrelationType: stats.MeasurePearson,
			NNeitherMissing: 10, NCases: 12, NBlanks1: 1, NBlanks2: 1,
			CorrelBlanks: stats.Of(math.NaN()), CILow95: stats.Of(0.1), CIHigh95: stats.Of(0.8),
			PValue: stats.Of(0.03), Date: now,
			TableOrderPredictor: "001_x", TableOrderResponse: "002_y",
		},
	}
	require.NoError(t, repo.SaveAssociations(ctx, records))

	got, err := repo.ListAssociations(ctx, table)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.5, got[0].Correlation.OrNaN())
	assert.True(t, got[0].CorrelBlanks.IsNaN())
	assert.False(t, got[0].CorrelationInclMissing.IsSet())

	_, err = repo.ListAssociations(ctx, table+"-missing")
	assert.True(t, core.IsNotFoundError(err))
}

func TestRegressionRepositoryRunIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewRegressionRepository(db)
	ctx := context.Background()

	before, err := repo.MaxRunID(ctx)
	require.NoError(t, err)

	runID := before + 1
	now := time.Now().UTC()
	rows := []stats.RegressionRow{
		{RunID: runID, TableName: "t", Response: "y", Term: stats.InterceptTerm, Coefficient: 5, Formula: "y = 5 + 3*x", Date: now},
		{RunID: runID, TableName: "t", Response: "y", Term: "x", Coefficient: 3, Formula: "y = 5 + 3*x", Date: now},
	}
	require.NoError(t, repo.SaveRegression(ctx, rows))

	after, err := repo.MaxRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, runID, after)

	got, err := repo.ListRegression(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, stats.InterceptTerm, got[0].Term)
}
