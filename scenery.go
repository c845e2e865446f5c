// Package scenery provides a fluent API for extracting object placements
// from stage documents (BYML dumped to XML) and JSON placement manifests.
//
// Basic usage:
//
//	records, warnings, err := scenery.Open("CityWorldHomeStage.xml").Records()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", scenery.FormatWarnings(warnings))
//	}
//
// With options:
//
//	records, _, err := scenery.Open("CityWorldHomeStage.xml").
//	    Scenario(2).
//	    Exclude("Rock01", "SkyDome").
//	    Convention(model.ConventionRemap).
//	    Records()
//
// For advanced use cases, the lower-level reader, stage, manifest and
// transform packages are also available.
package scenery

import (
	"github.com/tsawler/scenery/core"
	"github.com/tsawler/scenery/format"
	"github.com/tsawler/scenery/manifest"
	"github.com/tsawler/scenery/model"
)

// Open returns an Extractor for a stage document or manifest file. The
// format is detected from the file's content, then its extension. Nothing
// is read until a terminal operation such as Records.
//
// Example:
//
//	records, warnings, err := scenery.Open("Stage.json").Records()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromNode creates an Extractor from an already-parsed stage document.
//
// Example:
//
//	root, err := reader.Open("Stage.xml")
//	if err != nil {
//	    // handle error
//	}
//	records, warnings, err := scenery.FromNode(root).Scenario(2).Records()
func FromNode(root *core.Node) *Extractor {
	return &Extractor{
		format:  format.StageXML,
		root:    root,
		loaded:  true,
		options: defaultOptions(),
	}
}

// FromManifest creates an Extractor from an already-decoded manifest.
func FromManifest(m *manifest.Manifest) *Extractor {
	return &Extractor{
		format:   format.Manifest,
		manifest: m,
		loaded:   true,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := scenery.Must(scenery.Open("Stage.xml").ScenarioCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRecords is a helper that wraps a call to Records and panics if the
// error is non-nil. It discards warnings.
//
// Example:
//
//	records := scenery.MustRecords(scenery.Open("Stage.xml").Records())
func MustRecords(records []model.PlacementRecord, _ []Warning, err error) []model.PlacementRecord {
	if err != nil {
		panic(err)
	}
	return records
}
