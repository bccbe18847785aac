package config

import (
	_ "embed"
)

//go:embed defaults/tetris2048.yaml
var defaultYAML []byte

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Preset:   PresetClassic,
			WinScore: 2048,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "~/.tetris2048/journal.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "tetris2048",
			SampleRatio: 1,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
