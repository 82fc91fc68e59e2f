package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"mvextras/internal"
	"mvextras/internal/config"
	"mvextras/internal/container"
	"mvextras/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	logger := internal.DefaultLogger
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Connect(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	server := ui.NewServer(ui.Dependencies{
		Engine:       appContainer.Engine,
		Associations: appContainer.Associations,
		Regressions:  appContainer.Regressions,
		Reader:       appContainer.Reader,
		Session:      appContainer.Session,
		Policy:       appConfig.Data.EmptyStringPolicy,
		Logger:       logger,
	})

	if path := appConfig.Data.ExcelFile; path != "" {
		ds, err := appContainer.Reader.ReadDataset(ctx, path, appConfig.Data.EmptyStringPolicy)
		if err != nil {
			logger.Error("could not preload %s: %v", path, err)
		} else {
			if name := appConfig.Data.DatasetName; name != "" {
				ds.Name, ds.Title = name, name
			}
			server.SetDataset(ds)
		}
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			logger.Info("pprof listening on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				logger.Error("pprof server failed: %v", err)
			}
		}()
	}

	if err := server.Start(ctx, appConfig.Server.Port); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
