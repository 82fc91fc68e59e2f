package container

import (
	"context"
	"fmt"

	"mvextras/adapters/excel"
	"mvextras/adapters/postgres"
	"mvextras/adapters/stats/engine"
	"mvextras/app"
	"mvextras/internal"
	"mvextras/internal/config"
	"mvextras/internal/errors"
	"mvextras/internal/migration"
	"mvextras/internal/session"
	"mvextras/internal/testkit"
	"mvextras/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	AssociationRepo ports.AssociationRepository
	RegressionRepo  ports.RegressionRepository

	// Analysis
	Session      *session.Session
	Engine       *engine.StatsEngine
	Associations *app.AssociationService
	Regressions  *app.RegressionService

	// File adapters
	Reader ports.DatasetReader
	Writer ports.ResultWriter

	// In-memory repositories used when no database is configured
	TestKit *testkit.TestKit
}

// New creates a container backed by in-memory repositories
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	kit := testkit.NewTestKit()
	c := &Container{
		Config:          cfg,
		Logger:          logger,
		AssociationRepo: kit.AssociationRepository(),
		RegressionRepo:  kit.RegressionRepository(),
		Session:         session.New(),
		Engine:          engine.NewStatsEngine(cfg.Analysis.EngineConfig()),
		Reader:          excel.NewDataReader(logger),
		Writer:          excel.NewDataWriter(),
		TestKit:         kit,
	}
	c.initServices()
	return c, nil
}

// Connect opens the configured database, runs migrations and switches the repositories
// to Postgres. It is a no-op when no database is configured.
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("DATABASE_URL not set; results are kept in memory")
		return nil
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	return c.InitWithDatabase(ctx, db)
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return errors.DatabaseError("failed to run migrations", err)
	}
	c.Logger.Info("database migrations %s applied", runner.Version())

	c.DB = db
	c.AssociationRepo = postgres.NewAssociationRepository(db)
	c.RegressionRepo = postgres.NewRegressionRepository(db)
	c.initServices()
	return nil
}

func (c *Container) initServices() {
	c.Associations = app.NewAssociationService(c.Engine, c.AssociationRepo, c.Session, c.Logger)
	c.Regressions = app.NewRegressionService(c.RegressionRepo, c.Session, c.Config.Analysis.RegressionOptions(), c.Logger)
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
