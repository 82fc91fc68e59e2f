package config

import (
	"os"
	"runtime"
	"strconv"

	"mvextras/adapters/stats/engine"
	"mvextras/adapters/stats/regression"
	"mvextras/domain/dataset"
	"mvextras/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Data      DataConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings. An empty URL selects the in-memory
// repositories.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds dataset ingestion settings
type DataConfig struct {
	ExcelFile         string
	DatasetName       string
	EmptyStringPolicy dataset.EmptyStringPolicy
}

// AnalysisConfig holds association and regression settings
type AnalysisConfig struct {
	NPCRMode                engine.NPCRMode
	CIZ                     float64
	Workers                 int
	RegressionMaxIterations int
	RegressionTolerance     float64
}

// EngineConfig converts to the stats engine configuration.
func (a AnalysisConfig) EngineConfig() engine.Config {
	return engine.Config{NPCRMode: a.NPCRMode, CIZ: a.CIZ, Workers: a.Workers}
}

// RegressionOptions converts to the solver options.
func (a AnalysisConfig) RegressionOptions() regression.Options {
	return regression.Options{MaxIterations: a.RegressionMaxIterations, Tolerance: a.RegressionTolerance}
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:          getEnvOrDefault("DATABASE_URL", ""),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	dataConfig, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}
	config.Data = *dataConfig

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() (*DataConfig, error) {
	policy, err := dataset.ParseEmptyStringPolicy(os.Getenv("EMPTY_STRING_POLICY"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	return &DataConfig{
		ExcelFile:         getEnvOrDefault("EXCEL_FILE", ""),
		DatasetName:       getEnvOrDefault("DATASET_NAME", ""),
		EmptyStringPolicy: policy,
	}, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	mode, err := engine.ParseNPCRMode(os.Getenv("NPCR_MODE"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	defaults := regression.DefaultOptions()
	return &AnalysisConfig{
		NPCRMode:                mode,
		CIZ:                     getEnvFloatOrDefault("CI_Z", 1.96),
		Workers:                 getEnvIntOrDefault("ANALYSIS_WORKERS", runtime.NumCPU()),
		RegressionMaxIterations: getEnvIntOrDefault("REGRESSION_MAX_ITERATIONS", defaults.MaxIterations),
		RegressionTolerance:     getEnvFloatOrDefault("REGRESSION_TOLERANCE", defaults.Tolerance),
	}, nil
}

func validateConfig(config *Config) error {
	a := config.Analysis
	if a.CIZ <= 0 {
		return errors.ConfigInvalid("CI_Z must be positive")
	}
	if a.Workers < 1 {
		return errors.ConfigInvalid("ANALYSIS_WORKERS must be at least 1")
	}
	if a.RegressionMaxIterations < 1 {
		return errors.ConfigInvalid("REGRESSION_MAX_ITERATIONS must be at least 1")
	}
	if a.RegressionTolerance <= 0 {
		return errors.ConfigInvalid("REGRESSION_TOLERANCE must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
