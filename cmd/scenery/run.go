package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsawler/scenery"
	"github.com/tsawler/scenery/assets"
	"github.com/tsawler/scenery/format"
	"github.com/tsawler/scenery/internal/metrics"
	"github.com/tsawler/scenery/model"
	"github.com/tsawler/scenery/sink"
)

// Output formats
const (
	outputJSONL = "jsonl"
	outputYAML  = "yaml"
)

// extractSettings are the per-command overrides of the configuration.
// Zero values leave the configured value in place.
type extractSettings struct {
	scenario    int
	exclude     []string
	convention  string
	lenient     bool
	format      string
	checkAssets bool
}

// extractor builds the fluent extractor for path from the configuration
// and s.
func (e *runEnv) extractor(path string, s extractSettings) (*scenery.Extractor, error) {
	ext := scenery.Open(path).WithConfig(e.cfg).Logger(e.logger)
	if s.scenario != 0 {
		ext = ext.Scenario(s.scenario)
	}
	if len(s.exclude) > 0 {
		ext = ext.Exclude(s.exclude...)
	}
	if s.convention != "" {
		conv, err := model.ParseConvention(s.convention)
		if err != nil {
			return nil, err
		}
		ext = ext.Convention(conv)
	}
	if s.lenient {
		ext = ext.LenientNaming()
	}
	return ext, nil
}

// extract runs one file through to w and records the run's metrics.
func (e *runEnv) extract(path string, s extractSettings, w io.Writer) (*scenery.Result, error) {
	source := sourceLabel(path)
	start := time.Now()

	res, err := e.extractTo(path, s, w)
	e.metrics.RecordRun(source, err, time.Since(start))
	if res != nil {
		e.metrics.RecordEntries(source, res.Stats.Entries, res.Stats.Emitted, res.Stats.Excluded)
		for _, warning := range res.Warnings {
			if warning.Code == scenery.WarnUnlistedModel {
				e.logger.Warn("Model not in ExportedModels", "file", path, "warning", warning.String())
				continue
			}
			e.metrics.RecordSkip(source, warning.Code)
			e.logger.Warn("Object skipped", "file", path, "warning", warning.String())
		}
	}
	if err != nil {
		return res, err
	}

	if s.checkAssets {
		e.checkAssets(path, res)
	}
	return res, nil
}

func (e *runEnv) extractTo(path string, s extractSettings, w io.Writer) (*scenery.Result, error) {
	out, err := newSink(s.format, w)
	if err != nil {
		if c, ok := w.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}

	ext, err := e.extractor(path, s)
	if err != nil {
		out.Close()
		return nil, err
	}

	res, err := ext.WriteTo(out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write records: %w", closeErr)
	}
	return res, err
}

// checkAssets logs every record whose model file cannot be found. Models
// are looked up in the configured source folder, else next to the input.
func (e *runEnv) checkAssets(path string, res *scenery.Result) {
	folder := e.cfg.SourceFolder
	if folder == "" {
		folder = filepath.Dir(path)
	}

	resolver := assets.NewResolver(folder, e.cfg.AssetExtension)
	if res.Source == format.Manifest {
		resolver = assets.NewNestedResolver(folder)
	}

	missing := 0
	for _, r := range resolver.ResolveAll(res.Records) {
		if r.Err != nil {
			missing++
			e.logger.Warn("Model file not found", "file", path, "instance", r.Record.Instance, "error", r.Err)
			continue
		}
		e.logger.Debug("Model file resolved", "model", r.Record.ModelName, "path", r.Path)
	}
	if missing > 0 {
		e.logger.Warn("Some model files are missing", "file", path, "missing", missing, "records", len(res.Records))
	}
}

// newSink returns the sink for an output format. The empty name selects
// JSON lines.
func newSink(name string, w io.Writer) (sink.Sink, error) {
	switch strings.ToLower(name) {
	case "", outputJSONL, "json":
		return sink.NewJSONLines(w), nil
	case outputYAML, "yml":
		return sink.NewYAML(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want jsonl or yaml)", name)
	}
}

// outputExtension maps an output format to a file extension.
func outputExtension(name string) string {
	switch strings.ToLower(name) {
	case outputYAML, "yml":
		return ".yaml"
	default:
		return ".jsonl"
	}
}

// outputPath names the record file for input inside dir.
func outputPath(input, dir, formatName string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+outputExtension(formatName))
}

// openOutput opens path for writing, or returns fallback when path is
// empty or "-". fallback is never closed by the sink.
func openOutput(path string, fallback io.Writer) (io.Writer, error) {
	if path == "" || path == "-" {
		return writerOnly{fallback}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// writerOnly hides Close so sinks leave stdout open.
type writerOnly struct {
	io.Writer
}

// sourceLabel picks the metrics source label from the file name.
func sourceLabel(path string) string {
	if format.Detect(path) == format.Manifest {
		return metrics.SourceManifest
	}
	return metrics.SourceStage
}
