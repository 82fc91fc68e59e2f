package engine

import (
	"fmt"
	"runtime"
	"strings"

	"mvextras/adapters/stats/inference"
)

// NPCRMode selects how a numeric predictor with a categorical response is handled.
type NPCRMode string

const (
	// NPCRLeaveBlank reports only missingness for the pair.
	NPCRLeaveBlank NPCRMode = "leave-blank"
	// NPCRUseEta reuses eta with the categorical response as the grouping variable.
	NPCRUseEta NPCRMode = "use-eta-as-CPNR"
)

// ParseNPCRMode validates a mode name. The empty string selects NPCRLeaveBlank.
func ParseNPCRMode(s string) (NPCRMode, error) {
	switch m := NPCRMode(strings.TrimSpace(s)); m {
	case "":
		return NPCRLeaveBlank, nil
	case NPCRLeaveBlank, NPCRUseEta:
		return m, nil
	default:
		return "", fmt.Errorf("unknown NPCR mode %q (want %q or %q)", s, NPCRLeaveBlank, NPCRUseEta)
	}
}

// Config configures a StatsEngine.
type Config struct {
	NPCRMode NPCRMode
	CIZ      float64 // normal quantile for correlation intervals
	Workers  int     // concurrent pair computations in a matrix sweep
}

// DefaultConfig returns leave-blank NPCR, 95% intervals and one worker per CPU.
func DefaultConfig() Config {
	return Config{
		NPCRMode: NPCRLeaveBlank,
		CIZ:      inference.DefaultZ,
		Workers:  runtime.NumCPU(),
	}
}

// StatsEngine computes pairwise associations and attribute profiles. It holds no mutable
// state and is safe for concurrent use.
type StatsEngine struct {
	cfg Config
}

// NewStatsEngine creates a new statistical engine, filling unset config fields with defaults
func NewStatsEngine(cfg Config) *StatsEngine {
	d := DefaultConfig()
	if cfg.NPCRMode == "" {
		cfg.NPCRMode = d.NPCRMode
	}
	if cfg.CIZ <= 0 {
		cfg.CIZ = d.CIZ
	}
	if cfg.Workers <= 0 {
		cfg.Workers = d.Workers
	}
	return &StatsEngine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *StatsEngine) Config() Config {
	return e.cfg
}
