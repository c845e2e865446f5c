package config

import (
	"time"

	"github.com/tsawler/scenery/model"
)

// Default values
const (
	DefaultScenarioIndex  = 1
	DefaultAssetExtension = ".obj"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultWatchDebounce  = 200 * time.Millisecond
	DefaultWorkers        = 4
)

// Default stage and manifest conventions
const (
	DefaultStageConvention    = model.ConventionDirect
	DefaultManifestConvention = model.ConventionRemap
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.ScenarioIndex == 0 {
		cfg.ScenarioIndex = DefaultScenarioIndex
	}
	if cfg.StageConvention == model.ConventionUnknown {
		cfg.StageConvention = DefaultStageConvention
	}
	if cfg.ManifestConvention == model.ConventionUnknown {
		cfg.ManifestConvention = DefaultManifestConvention
	}
	if cfg.AssetExtension == "" {
		cfg.AssetExtension = DefaultAssetExtension
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.WatchDebounce == 0 {
		cfg.WatchDebounce = DefaultWatchDebounce
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
