package scenery

import (
	"log/slog"

	"github.com/tsawler/scenery/config"
	"github.com/tsawler/scenery/model"
)

// ExtractOptions holds configuration for placement extraction.
type ExtractOptions struct {
	// 1-based scenario of a stage document
	scenario int

	// model names to leave out (stage documents only)
	exclude []string

	stageConvention    model.Convention
	manifestConvention model.Convention

	// skip badly named manifest instances instead of failing
	lenientNaming bool

	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		scenario:           config.DefaultScenarioIndex,
		stageConvention:    config.DefaultStageConvention,
		manifestConvention: config.DefaultManifestConvention,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.exclude != nil {
		newOpts.exclude = make([]string, len(o.exclude))
		copy(newOpts.exclude, o.exclude)
	}
	return newOpts
}
