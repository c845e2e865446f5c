package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// SCENERY_* environment variable overrides. An empty path starts from the
// defaults. Environment variables always take precedence over the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Unlike plain
// strings, malformed numbers and booleans are reported rather than ignored.
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("SCENERY_SOURCE_FOLDER"); val != "" {
		cfg.SourceFolder = val
	}
	if val := os.Getenv("SCENERY_EXCLUDE_NAMES"); val != "" {
		cfg.ExcludeNames = ParseNameList(val)
	}
	if val := os.Getenv("SCENERY_SCENARIO_INDEX"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid SCENERY_SCENARIO_INDEX %q: %w", val, err)
		}
		cfg.ScenarioIndex = i
	}
	if val := os.Getenv("SCENERY_VERBOSE"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid SCENERY_VERBOSE %q: %w", val, err)
		}
		cfg.VerboseLogging = b
	}
	if val := os.Getenv("SCENERY_STAGE_CONVENTION"); val != "" {
		if err := cfg.StageConvention.UnmarshalText([]byte(val)); err != nil {
			return fmt.Errorf("invalid SCENERY_STAGE_CONVENTION: %w", err)
		}
	}
	if val := os.Getenv("SCENERY_MANIFEST_CONVENTION"); val != "" {
		if err := cfg.ManifestConvention.UnmarshalText([]byte(val)); err != nil {
			return fmt.Errorf("invalid SCENERY_MANIFEST_CONVENTION: %w", err)
		}
	}
	if val := os.Getenv("SCENERY_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("SCENERY_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv("SCENERY_METRICS_FILE"); val != "" {
		cfg.MetricsFile = val
	}
	return nil
}
