// Package config holds the analysis parameters and their loader.
package config

import (
	"errors"
	"fmt"
)

// Window is one relative-day feature window around the ex-date.
// Start and End are calendar-day offsets, negative = before the ex-date,
// inclusive on both ends.
type Window struct {
	Name  string `koanf:"name"`
	Start int    `koanf:"start"`
	End   int    `koanf:"end"`
}

// Config carries every tunable of the analysis engine.
type Config struct {
	// Recovery scan
	MaxRecoveryDays     int `koanf:"max_recovery_days"`     // horizon for the recovery scan, calendar-bounded
	RecoveryHorizonDays int `koanf:"recovery_horizon_days"` // trading days for checkpoint metrics

	// Feature extraction
	LookbackDays int      `koanf:"lookback_days"` // minimum pre-ex-date history
	Windows      []Window `koanf:"windows"`

	// Correlation mining
	MinCorrelation    float64 `koanf:"min_correlation"`
	CorrelationMethod string  `koanf:"correlation_method"` // pearson | spearman | kendall

	// Similarity matching
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
	SimilarityTopN      int     `koanf:"similarity_top_n"`

	// Clustering
	MinPatterns int `koanf:"min_patterns"` // minimum analyzed events for pattern mining

	// Reporting
	EvolutionWindows []int `koanf:"evolution_windows"` // post-ex-date day marks for price evolution
}

// Default returns the standard parameterization.
func Default() *Config {
	return &Config{
		MaxRecoveryDays:     30,
		RecoveryHorizonDays: 15,
		LookbackDays:        40,
		Windows: []Window{
			{Name: "D-40_D-30", Start: -40, End: -30},
			{Name: "D-30_D-20", Start: -30, End: -20},
			{Name: "D-20_D-15", Start: -20, End: -15},
			{Name: "D-15_D-5", Start: -15, End: -5},
			{Name: "D-5_D-3", Start: -5, End: -3},
			{Name: "D-3_D-1", Start: -3, End: -1},
		},
		MinCorrelation:      0.3,
		CorrelationMethod:   "pearson",
		SimilarityThreshold: 0.8,
		SimilarityTopN:      10,
		MinPatterns:         3,
		EvolutionWindows:    []int{5, 10, 15, 20, 30},
	}
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.MaxRecoveryDays <= 0 {
		return errors.New("max_recovery_days must be positive")
	}
	if c.RecoveryHorizonDays <= 0 {
		return errors.New("recovery_horizon_days must be positive")
	}
	if c.LookbackDays <= 0 {
		return errors.New("lookback_days must be positive")
	}
	if len(c.Windows) == 0 {
		return errors.New("at least one feature window is required")
	}
	for _, w := range c.Windows {
		if w.Name == "" {
			return errors.New("window name must not be empty")
		}
		if w.Start > w.End {
			return fmt.Errorf("window %s: start %d after end %d", w.Name, w.Start, w.End)
		}
		if w.End >= 0 {
			return fmt.Errorf("window %s: must end strictly before the ex-date", w.Name)
		}
	}
	switch c.CorrelationMethod {
	case "pearson", "spearman", "kendall":
	default:
		return fmt.Errorf("unknown correlation method %q", c.CorrelationMethod)
	}
	if c.MinCorrelation < 0 || c.MinCorrelation > 1 {
		return errors.New("min_correlation must be in [0, 1]")
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return errors.New("similarity_threshold must be in [-1, 1]")
	}
	if c.SimilarityTopN <= 0 {
		return errors.New("similarity_top_n must be positive")
	}
	if c.MinPatterns < 3 {
		return errors.New("min_patterns must be at least 3")
	}
	if len(c.EvolutionWindows) == 0 {
		return errors.New("at least one evolution window is required")
	}
	return nil
}
