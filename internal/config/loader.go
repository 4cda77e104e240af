package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadRunner loads the race configuration.
// Search order: customPath -> ~/.parkour/configs/runner.yaml -> ./configs/runner.yaml -> embedded default
// Files only need the keys they change; everything else keeps its default.
func LoadRunner(customPath string) (Runner, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := readRunner(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("runner.yaml"); userCfgPath != "" {
		if cfg, err := readRunner(userCfgPath); err == nil {
			return cfg, cfg.Validate()
		}
	}

	// Try local configs directory
	if cfg, err := readRunner(filepath.Join("configs", "runner.yaml")); err == nil {
		return cfg, cfg.Validate()
	}

	// Use embedded default YAML
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(defaultRunnerYAML, &cfg); err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseRunner decodes YAML on top of the defaults.
func ParseRunner(data []byte) (Runner, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readRunner(path string) (Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Runner{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseRunner(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".parkour", "configs", filename)
}
