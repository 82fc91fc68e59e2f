package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mvextras/adapters/stats/engine"
	"mvextras/app"
	"mvextras/domain/core"
	"mvextras/domain/dataset"
	"mvextras/internal"
	"mvextras/internal/session"
	"mvextras/ports"
	"mvextras/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the server exposes
type Dependencies struct {
	Engine       *engine.StatsEngine
	Associations *app.AssociationService
	Regressions  *app.RegressionService
	Reader       ports.DatasetReader
	Session      *session.Session
	Policy       dataset.EmptyStringPolicy
	Logger       *internal.Logger
}

// Server is the JSON API over the loaded dataset
type Server struct {
	router       *gin.Engine
	engine       *engine.StatsEngine
	associations *app.AssociationService
	regressions  *app.RegressionService
	reader       ports.DatasetReader
	session      *session.Session
	policy       dataset.EmptyStringPolicy
	logger       *internal.Logger

	mu sync.RWMutex
	ds *dataset.Dataset
}

// NewServer creates a new server and registers its routes
func NewServer(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:       gin.New(),
		engine:       deps.Engine,
		associations: deps.Associations,
		regressions:  deps.Regressions,
		reader:       deps.Reader,
		session:      deps.Session,
		policy:       deps.Policy,
		logger:       logger.Named("http"),
	}
	s.router.Use(gin.Recovery(), middleware.RequestLogger(s.logger))
	s.setupRoutes()
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetDataset replaces the loaded dataset
func (s *Server) SetDataset(ds *dataset.Dataset) {
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	if s.session.SelectDataset(ds) {
		s.logger.Info("loaded dataset %s (%d attributes, %d cases)", ds.DisplayName(), len(ds.Attributes), ds.CaseCount())
	}
}

// Dataset returns the loaded dataset
func (s *Server) Dataset() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return nil, core.ErrDatasetNotLoaded
	}
	return s.ds, nil
}

func (s *Server) hasDataset() bool {
	_, err := s.Dataset()
	return err == nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.PUT("/dataset", s.handlePutDataset)
	api.POST("/dataset/upload", s.handleFileUpload)
	api.GET("/associations", s.handleLatestAssociations)
	api.GET("/regression/:run", s.handleRegressionRun)

	loaded := api.Group("", middleware.RequireDataset(s.hasDataset))
	loaded.GET("/attributes", s.handleAttributes)
	loaded.POST("/attributes/:name/visibility", s.handleVisibility)
	loaded.POST("/associations", s.handleAssociations)
	loaded.POST("/regression", s.handleRegression)
}

// Start serves on port until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
