package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EngineConfig holds the assignment engine tunables
type EngineConfig struct {
	// FairnessWeight is subtracted from a candidate's score per assignment
	// already held in the current run. Zero means use the engine default.
	FairnessWeight float64 `yaml:"fairnessWeight,omitempty" validate:"omitempty,gt=0"`

	// TieBreakRange bounds the random score perturbation. Must stay below
	// 1.0, the gap between the preferred and available score tiers.
	TieBreakRange float64 `yaml:"tieBreakRange,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string       `yaml:"databaseURL" validate:"required"`
	Engine      EngineConfig `yaml:"engine,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from rosterd_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for rosterd_config.yaml in the current directory
// and the home directory
func findConfigFile() (string, error) {
	configFileName := "rosterd_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
