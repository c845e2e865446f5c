package config

import (
	"fmt"
	"strings"

	"github.com/tsawler/scenery/model"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the YAML key, e.g. "scenario_index" or "log.level".
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks every field and returns a ValidationError listing all
// problems, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.ScenarioIndex < 1 {
		errs = append(errs, FieldError{
			Field:   "scenario_index",
			Message: fmt.Sprintf("must be 1 or greater, got %d", cfg.ScenarioIndex),
		})
	}
	if !validConvention(cfg.StageConvention) {
		errs = append(errs, FieldError{Field: "stage_convention", Message: "must be remap or direct"})
	}
	if !validConvention(cfg.ManifestConvention) {
		errs = append(errs, FieldError{Field: "manifest_convention", Message: "must be remap or direct"})
	}
	if strings.ContainsAny(cfg.AssetExtension, `/\`) {
		errs = append(errs, FieldError{
			Field:   "asset_extension",
			Message: fmt.Sprintf("must be a file extension, got %q", cfg.AssetExtension),
		})
	}
	if cfg.Workers < 1 {
		errs = append(errs, FieldError{Field: "workers", Message: "must be 1 or greater"})
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{Field: "watch_debounce", Message: "must not be negative"})
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "log.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Log.Level),
		})
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "log.format",
			Message: fmt.Sprintf("must be text or json, got %q", cfg.Log.Format),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validConvention(c model.Convention) bool {
	return c == model.ConventionRemap || c == model.ConventionDirect
}
