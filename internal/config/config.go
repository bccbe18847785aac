// Package config provides YAML-based configuration loading and board
// presets for the settlement engine.
package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetris2048/internal/core"
)

// Config contains all configuration for a tetris2048 run.
type Config struct {
	Board     BoardConfig     `yaml:"board"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BoardConfig defines the board geometry and win threshold.
// Non-zero Width and Height override the preset.
type BoardConfig struct {
	Preset   BoardPreset `yaml:"preset"`
	Width    int         `yaml:"width"`
	Height   int         `yaml:"height"`
	WinScore int         `yaml:"win_score"`
}

// JournalConfig controls the SQLite settlement journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // ~ expands to the home directory
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"` // 0 or 1 traces every session
}

// RuntimeConfig resolves the board section into engine dimensions.
// Unknown presets fall back to classic; Validate reports them.
func (c Config) RuntimeConfig() core.RuntimeConfig {
	rc := core.DefaultConfig()
	if p, ok := LookupPreset(c.Board.Preset); ok {
		rc.Width, rc.Height = p.Width, p.Height
	}
	if c.Board.Width > 0 {
		rc.Width = c.Board.Width
	}
	if c.Board.Height > 0 {
		rc.Height = c.Board.Height
	}
	if c.Board.WinScore > 0 {
		rc.WinScore = c.Board.WinScore
	}
	return rc
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if c.Board.Preset != "" {
		if _, ok := LookupPreset(c.Board.Preset); !ok {
			errs = append(errs, fmt.Errorf("board.preset: unknown preset %q", c.Board.Preset))
		}
	}
	if c.Board.Width < 0 || c.Board.Height < 0 {
		errs = append(errs, fmt.Errorf("board: negative size %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Board.WinScore < 0 {
		errs = append(errs, fmt.Errorf("board.win_score: must not be negative, got %d", c.Board.WinScore))
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, errors.New("journal.path: required when the journal is enabled"))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio: must be within [0, 1], got %g", c.Telemetry.SampleRatio))
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	if lvl, err := log.ParseLevel(c.Log.Level); err == nil && c.Log.Level != "" {
		return lvl
	}
	return log.InfoLevel
}
