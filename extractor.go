package scenery

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/scenery/config"
	"github.com/tsawler/scenery/core"
	"github.com/tsawler/scenery/format"
	"github.com/tsawler/scenery/manifest"
	"github.com/tsawler/scenery/model"
	"github.com/tsawler/scenery/reader"
	"github.com/tsawler/scenery/sink"
	"github.com/tsawler/scenery/stage"
	"github.com/tsawler/scenery/transform"
)

// Extractor provides a fluent interface for extracting placements from a
// stage document or a manifest. Each configuration method returns a new
// Extractor instance, making it safe for concurrent use and allowing method
// chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	// Parsed input (only one is set, based on format)
	root     *core.Node
	manifest *manifest.Manifest
	loaded   bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// Stats counts what a run saw.
type Stats struct {
	Entries  int // entries visited
	Emitted  int // records produced
	Excluded int // entries dropped by the exclude list
	Skipped  int // entries dropped because of an error
}

// Result is the full outcome of a run.
type Result struct {
	Records  []model.PlacementRecord
	Warnings []Warning
	Stats    Stats

	// Source is StageXML or Manifest.
	Source format.Format
	// Scenario is the scenario that was read; 0 for manifests.
	Scenario int
	// Convention is the convention every record was produced under.
	Convention model.Convention
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// Parsed input is shared; it is never modified.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		format:   e.format,
		root:     e.root,
		manifest: e.manifest,
		loaded:   e.loaded,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ensureLoaded reads and parses the input file if not already done.
func (e *Extractor) ensureLoaded() error {
	if e.loaded {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	f, err := format.DetectFile(e.filename)
	if err != nil {
		return err
	}
	e.format = f

	switch f {
	case format.StageXML:
		root, err := reader.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open stage document: %w", err)
		}
		e.root = root

	case format.Manifest:
		m, err := manifest.Load(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open manifest: %w", err)
		}
		e.manifest = m

	case format.BYML:
		return fmt.Errorf("unsupported file format: %s (dump it to XML first)", f)

	default:
		return fmt.Errorf("unsupported file format: %s", f)
	}

	e.loaded = true
	return nil
}

// logger returns the configured logger or one that discards.
func (e *Extractor) logger() *slog.Logger {
	if e.options.logger != nil {
		return e.options.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Scenario selects the 1-based scenario of a stage document. The default
// is 1. Ignored for manifests.
//
// Example:
//
//	records, _, err := scenery.Open("Stage.xml").Scenario(3).Records()
func (e *Extractor) Scenario(index int) *Extractor {
	newExt := e.clone()
	newExt.options.scenario = index
	return newExt
}

// Exclude leaves out objects whose model name (ModelName, else
// UnitConfigName) is one of names. Multiple calls are cumulative. Applies
// to stage documents only.
//
// Example:
//
//	records, _, err := scenery.Open("Stage.xml").Exclude("Rock01", "SkyDome").Records()
func (e *Extractor) Exclude(names ...string) *Extractor {
	newExt := e.clone()
	newExt.options.exclude = append(newExt.options.exclude, names...)
	return newExt
}

// Convention sets the output convention for both stage documents and
// manifests, replacing the per-source defaults (direct for stage
// documents, remap for manifests).
//
// Example:
//
//	records, _, err := scenery.Open("Stage.xml").Convention(model.ConventionRemap).Records()
func (e *Extractor) Convention(c model.Convention) *Extractor {
	newExt := e.clone()
	if c != model.ConventionRemap && c != model.ConventionDirect {
		newExt.err = fmt.Errorf("invalid convention: %s", c)
		return newExt
	}
	newExt.options.stageConvention = c
	newExt.options.manifestConvention = c
	return newExt
}

// LenientNaming skips manifest instances that break the <ModelName>_<suffix>
// naming convention, reporting each as a warning. By default the first such
// instance fails the run.
func (e *Extractor) LenientNaming() *Extractor {
	newExt := e.clone()
	newExt.options.lenientNaming = true
	return newExt
}

// Logger sets the logger for run summaries and per-entry traces.
func (e *Extractor) Logger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// WithConfig applies the scenario, exclude list, conventions and naming mode
// from cfg.
//
// Example:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("scenery.yaml")
//	if err != nil {
//	    // handle error
//	}
//	records, _, err := scenery.Open("Stage.xml").WithConfig(cfg).Records()
func (e *Extractor) WithConfig(cfg *config.Config) *Extractor {
	newExt := e.clone()
	if cfg == nil {
		return newExt
	}
	if err := config.Validate(cfg); err != nil {
		newExt.err = err
		return newExt
	}
	newExt.options.scenario = cfg.ScenarioIndex
	newExt.options.exclude = append([]string(nil), cfg.ExcludeNames...)
	newExt.options.stageConvention = cfg.StageConvention
	newExt.options.manifestConvention = cfg.ManifestConvention
	newExt.options.lenientNaming = cfg.LenientNaming
	return newExt
}

// ============================================================================
// Inspection
// ============================================================================

// Format returns the detected input format, loading the input if needed.
func (e *Extractor) Format() (format.Format, error) {
	if e.err != nil {
		return format.Unknown, e.err
	}
	if err := e.ensureLoaded(); err != nil {
		return format.Unknown, err
	}
	return e.format, nil
}

// ScenarioCount returns the number of scenarios in a stage document.
//
// Example:
//
//	n, err := scenery.Open("Stage.xml").ScenarioCount()
func (e *Extractor) ScenarioCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureLoaded(); err != nil {
		return 0, err
	}
	if e.format != format.StageXML {
		return 0, fmt.Errorf("%s input has no scenarios", e.format)
	}
	return stage.ScenarioCount(e.root)
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Placements returns the raw placements in the source convention, before
// any transform.
func (e *Extractor) Placements() ([]model.RawPlacement, []Warning, error) {
	raws, warnings, _, err := e.placements()
	return raws, warnings, err
}

// Records extracts and transforms every placement.
//
// Returns the records, warnings for entries that were skipped, and an error
// if the run failed as a whole (unreadable input, bad scenario index,
// strict naming violation).
//
// Example:
//
//	records, warnings, err := scenery.Open("Stage.xml").Records()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", scenery.FormatWarnings(warnings))
//	}
func (e *Extractor) Records() ([]model.PlacementRecord, []Warning, error) {
	res, err := e.Extract()
	if err != nil {
		return nil, nil, err
	}
	return res.Records, res.Warnings, nil
}

// Extract runs extraction and returns records together with run statistics.
func (e *Extractor) Extract() (*Result, error) {
	raws, warnings, stats, err := e.placements()
	if err != nil {
		return nil, err
	}

	conv := e.options.stageConvention
	scenario := e.options.scenario
	if e.format == format.Manifest {
		conv = e.options.manifestConvention
		scenario = 0
	}

	res := &Result{
		Records:    transform.All(raws, conv),
		Warnings:   warnings,
		Stats:      stats,
		Source:     e.format,
		Scenario:   scenario,
		Convention: conv,
	}

	e.logger().Info("Extracted placements",
		"source", e.format.String(),
		"file", e.filename,
		"scenario", scenario,
		"convention", conv.String(),
		"entries", stats.Entries,
		"emitted", stats.Emitted,
		"excluded", stats.Excluded,
		"skipped", stats.Skipped,
	)
	return res, nil
}

// WriteTo extracts and writes every record to s in order. s is not closed.
//
// Example:
//
//	s := sink.NewJSONLines(os.Stdout)
//	res, err := scenery.Open("Stage.xml").WriteTo(s)
func (e *Extractor) WriteTo(s sink.Sink) (*Result, error) {
	res, err := e.Extract()
	if err != nil {
		return nil, err
	}
	if err := sink.WriteAll(s, res.Records); err != nil {
		return res, fmt.Errorf("failed to write records: %w", err)
	}
	return res, nil
}

// placements dispatches on the input format.
func (e *Extractor) placements() ([]model.RawPlacement, []Warning, Stats, error) {
	if e.err != nil {
		return nil, nil, Stats{}, e.err
	}
	if err := e.ensureLoaded(); err != nil {
		return nil, nil, Stats{}, err
	}

	switch e.format {
	case format.StageXML:
		return e.stagePlacements()
	case format.Manifest:
		return e.manifestPlacements()
	default:
		return nil, nil, Stats{}, fmt.Errorf("unsupported file format: %s", e.format)
	}
}

func (e *Extractor) stagePlacements() ([]model.RawPlacement, []Warning, Stats, error) {
	logger := e.logger()

	scenario, err := stage.FindScenario(e.root, e.options.scenario)
	if err != nil {
		return nil, nil, Stats{}, err
	}
	logger.Debug("Selected scenario", "scenario", e.options.scenario, "lists", scenario.Len())

	ext := stage.NewExtractor(scenario,
		stage.WithExclude(stage.NewExcludeSet(e.options.exclude...)),
		stage.WithLogger(logger),
	)
	raws, diags := stage.Collect(ext.All())

	var warnings []Warning
	for _, d := range diags {
		warnings = append(warnings, stageWarning(d))
	}

	s := ext.Stats()
	return raws, warnings, Stats{
		Entries:  s.Entries,
		Emitted:  s.Emitted,
		Excluded: s.Excluded,
		Skipped:  s.Skipped,
	}, nil
}

func (e *Extractor) manifestPlacements() ([]model.RawPlacement, []Warning, Stats, error) {
	logger := e.logger()

	opts := []manifest.Option{manifest.WithLogger(logger)}
	if e.options.lenientNaming {
		opts = append(opts, manifest.WithLenientNaming())
	}

	raws, diags, err := manifest.Extract(e.manifest, opts...)
	if err != nil {
		return nil, nil, Stats{}, err
	}

	var warnings []Warning
	for _, d := range diags {
		warnings = append(warnings, manifestWarning(d))
	}
	if m := e.manifest; m != nil && len(m.ExportedModels) > 0 {
		for _, raw := range raws {
			if !m.HasModel(raw.ModelName) {
				warnings = append(warnings, Warning{
					Code:     WarnUnlistedModel,
					Message:  fmt.Sprintf("model %q is not listed in ExportedModels", raw.ModelName),
					Instance: raw.Instance,
				})
			}
		}
	}

	entries := 0
	if e.manifest != nil {
		entries = len(e.manifest.PlacementInfo)
	}
	return raws, warnings, Stats{
		Entries: entries,
		Emitted: len(raws),
		Skipped: len(diags),
	}, nil
}

// ============================================================================
// Convenience
// ============================================================================

// ExtractFile is Open(path).WithConfig(cfg).Logger(logger).Extract().
func ExtractFile(path string, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return Open(path).WithConfig(cfg).Logger(logger).Extract()
}
