package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "tetris2048.yaml"

// Load loads the configuration and validates it.
// Search order: customPath -> ~/.tetris2048/config.yaml -> ./configs/tetris2048.yaml -> embedded default.
// Files are decoded over DefaultConfig, so a file only needs the keys it changes.
func Load(customPath string) (Config, error) {
	cfg, source, err := load(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

func load(customPath string) (Config, string, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultConfig(), customPath, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DefaultConfig(), customPath, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, userCfgPath, nil
			}
		}
	}

	// Try local configs directory
	localPath := filepath.Join("configs", fileName)
	if data, err := os.ReadFile(localPath); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, localPath, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return DefaultConfig(), "defaults", nil // Fallback to hardcoded if embed fails
	}
	return cfg, "defaults", nil
}

// parse decodes data over the hardcoded defaults.
func parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris2048", "config.yaml")
}
