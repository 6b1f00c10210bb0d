// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analyze AnalyzeConfig `toml:"analyze"`
}

// AnalyzeConfig maps analysis-related settings. Nil fields fall back to CLI
// flags or defaults.
type AnalyzeConfig struct {
	GapThresholdMs   *int64 `toml:"gap-threshold-ms"`
	TopN             *int   `toml:"top-n"`
	MinSegmentEvents *int   `toml:"min-segment-events"`
	MinHoldMs        *int64 `toml:"min-hold-ms"`
	MaxHoldMs        *int64 `toml:"max-hold-ms"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
