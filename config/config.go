// Package config holds the settings shared by every extraction run: where
// models live, which ones to leave out, which scenario to read and which
// coordinate convention to emit.
//
// Configuration comes from a YAML file, then defaults, then SCENERY_*
// environment variables, and is validated last. A loaded Config is treated
// as read-only and may be shared across concurrent runs.
//
// Example:
//
//	source_folder: ./CityWorldHomeStage
//	exclude_names: [Rock01, SkyDome]
//	scenario_index: 1
//	verbose_logging: false
//	stage_convention: direct
//	manifest_convention: remap
//	asset_extension: .obj
//	log:
//	  level: info
//	  format: text
//	metrics_file: ""
package config

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/scenery/model"
	"github.com/tsawler/scenery/stage"
)

// Config is the complete run configuration.
type Config struct {
	// SourceFolder is where model files are resolved from. Empty means the
	// directory of the input file.
	SourceFolder string `yaml:"source_folder"`

	// ExcludeNames lists model names to skip. Accepts a YAML list or a
	// single comma separated string.
	ExcludeNames NameList `yaml:"exclude_names"`

	// ScenarioIndex is the 1-based scenario to read from stage documents.
	ScenarioIndex int `yaml:"scenario_index"`

	// VerboseLogging enables per-object trace logging.
	VerboseLogging bool `yaml:"verbose_logging"`

	// StageConvention is the transform applied to stage XML placements.
	StageConvention model.Convention `yaml:"stage_convention"`

	// ManifestConvention is the transform applied to manifest placements.
	ManifestConvention model.Convention `yaml:"manifest_convention"`

	// LenientNaming skips manifest instances with malformed names instead of
	// failing the manifest.
	LenientNaming bool `yaml:"lenient_naming"`

	// AssetExtension is the model file extension for flat folders.
	AssetExtension string `yaml:"asset_extension"`

	// Workers is the number of files processed at once by batch runs.
	Workers int `yaml:"workers"`

	// WatchDebounce is how long watch mode waits after the last change.
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// MetricsFile, if set, receives run counters in Prometheus text format.
	MetricsFile string `yaml:"metrics_file"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// ExcludeSet returns ExcludeNames as a lookup set.
func (c *Config) ExcludeSet() stage.ExcludeSet {
	return stage.NewExcludeSet(c.ExcludeNames...)
}

// LogLevel returns the effective log level. Verbose logging forces debug.
func (c *Config) LogLevel() string {
	if c.VerboseLogging {
		return "debug"
	}
	return c.Log.Level
}

// NameList is a list of names that also decodes from a comma separated
// string.
type NameList []string

// ParseNameList splits a comma separated string, trimming entries and
// dropping empty ones.
func ParseNameList(s string) NameList {
	var names NameList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NameList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = ParseNameList(value.Value)
		return nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*n = ParseNameList(strings.Join(names, ","))
	return nil
}
