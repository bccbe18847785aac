package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetris2048/internal/core"
)

// isolate points HOME and the working directory at empty temp dirs so the
// search path only finds what the test writes.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()
	home, wd = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(wd))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return home, wd
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, core.RuntimeConfig{Width: 12, Height: 20, WinScore: 2048}, cfg.RuntimeConfig())
}

func TestLoadSearchOrder(t *testing.T) {
	home, wd := isolate(t)

	write(t, filepath.Join(wd, "configs", "tetris2048.yaml"), "board: {preset: wide}\n")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, PresetWide, cfg.Board.Preset, "local configs dir should be used")

	write(t, filepath.Join(home, ".tetris2048", "config.yaml"), "board: {preset: compact}\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, PresetCompact, cfg.Board.Preset, "user config should win over local")

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	write(t, custom, "board: {width: 5, height: 9}\n")
	cfg, err = Load(custom)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.RuntimeConfig().Width, "custom path should win over everything")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	custom := filepath.Join(t.TempDir(), "partial.yaml")
	write(t, custom, "log:\n  level: debug\n")

	cfg, err := Load(custom)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, PresetClassic, cfg.Board.Preset)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "~/.tetris2048/journal.db", cfg.Journal.Path)
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	write(t, bad, "board: [not, a, map]\n")
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	write(t, invalid, "board: {preset: huge}\nlog: {level: loud}\n")
	_, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "board.preset")
	assert.Contains(t, err.Error(), "log.level")
}

func TestRuntimeConfigOverrides(t *testing.T) {
	tests := []struct {
		name  string
		board BoardConfig
		want  core.RuntimeConfig
	}{
		{"classic", BoardConfig{Preset: PresetClassic}, core.RuntimeConfig{Width: 12, Height: 20, WinScore: 2048}},
		{"compact", BoardConfig{Preset: PresetCompact, WinScore: 512}, core.RuntimeConfig{Width: 8, Height: 12, WinScore: 512}},
		{"wide with height override", BoardConfig{Preset: PresetWide, Height: 10}, core.RuntimeConfig{Width: 16, Height: 10, WinScore: 2048}},
		{"no preset", BoardConfig{Width: 4, Height: 6}, core.RuntimeConfig{Width: 4, Height: 6, WinScore: 2048}},
		{"unknown preset", BoardConfig{Preset: "huge"}, core.RuntimeConfig{Width: 12, Height: 20, WinScore: 2048}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Board = tt.board
			assert.Equal(t, tt.want, cfg.RuntimeConfig())
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown preset", func(c *Config) { c.Board.Preset = "huge" }},
		{"negative size", func(c *Config) { c.Board.Width = -1 }},
		{"negative win score", func(c *Config) { c.Board.WinScore = -5 }},
		{"journal without path", func(c *Config) { c.Journal.Path = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"sample ratio above one", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
		{"negative sample ratio", func(c *Config) { c.Telemetry.SampleRatio = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	disabled := DefaultConfig()
	disabled.Journal = JournalConfig{Enabled: false}
	assert.NoError(t, disabled.Validate(), "a disabled journal needs no path")
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Board.Width, cfg.Board.Height = 3, 3

	require.True(t, ApplyPreset(&cfg, PresetCompact))
	assert.Equal(t, PresetCompact, cfg.Board.Preset)
	assert.Equal(t, 8, cfg.RuntimeConfig().Width)
	assert.Equal(t, 12, cfg.RuntimeConfig().Height)

	assert.False(t, ApplyPreset(&cfg, "huge"))
	assert.Equal(t, PresetCompact, cfg.Board.Preset)
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"classic", "compact", "wide"}, PresetNames())
}
