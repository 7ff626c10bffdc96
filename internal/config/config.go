// Package config holds the render defaults shared by the CLI commands.
package config

import (
	"fmt"
	"time"

	"github.com/pable/go-matchup-chart/internal/chart"
	"github.com/pable/go-matchup-chart/internal/colormap"
	"github.com/pable/go-matchup-chart/internal/ordering"
)

// Config contains the settings a flag may override.
type Config struct {
	// LogLevel controls verbosity: trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Color names the colour map; a trailing "-" reverses it.
	Color string `koanf:"color"`

	// Order is the ordering strategy: none, greedy or tsp.
	Order string `koanf:"order"`

	// Sprites is the path of the icon sheet. Empty draws numeric ids.
	Sprites string `koanf:"sprites"`

	// CellSize is the edge of one grid cell in pixels.
	CellSize int `koanf:"cell_size"`

	// TSPTimeLimit and TSPSolutions bound the tour search.
	TSPTimeLimit time.Duration `koanf:"tsp_time_limit"`
	TSPSolutions int           `koanf:"tsp_solutions"`

	// Gen selects the first species id of a roster.
	Gen int `koanf:"gen"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Color:        colormap.Default,
		Order:        string(ordering.None),
		CellSize:     chart.DefaultCellSize,
		TSPTimeLimit: ordering.DefaultOptions().TimeLimit,
		TSPSolutions: ordering.DefaultOptions().SolutionLimit,
		Gen:          1,
	}
}

// Validate checks that the loaded values can drive a render.
func (c *Config) Validate() error {
	if _, err := colormap.Lookup(c.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ordering.ParseStrategy(c.Order); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CellSize < 8 {
		return fmt.Errorf("%w: cell_size %d is below 8", ErrInvalidConfig, c.CellSize)
	}
	if c.TSPTimeLimit < 0 || c.TSPSolutions < 0 {
		return fmt.Errorf("%w: tsp limits must not be negative", ErrInvalidConfig)
	}
	if c.Gen < 1 {
		return fmt.Errorf("%w: gen %d", ErrInvalidConfig, c.Gen)
	}
	return nil
}
