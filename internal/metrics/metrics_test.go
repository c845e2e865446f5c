package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)
	if c.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if NewCollector(nil).Registry() == nil {
		t.Error("Expected a fresh registry")
	}
}

func TestCollector_RecordRun(t *testing.T) {
	c := NewCollector(nil)

	c.RecordRun(SourceStage, nil, 20*time.Millisecond)
	c.RecordRun(SourceStage, nil, 30*time.Millisecond)
	c.RecordRun(SourceManifest, errors.New("bad json"), time.Millisecond)

	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues(SourceStage, "success")); got != 2 {
		t.Errorf("stage success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues(SourceManifest, "error")); got != 1 {
		t.Errorf("manifest error runs = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.runDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestCollector_RecordEntries(t *testing.T) {
	c := NewCollector(nil)

	c.RecordEntries(SourceStage, 10, 7, 2)
	c.RecordEntries(SourceStage, 5, 5, 0)
	c.RecordSkip(SourceStage, "malformed_vector")

	if got := testutil.ToFloat64(c.entries.WithLabelValues(SourceStage)); got != 15 {
		t.Errorf("entries = %v, want 15", got)
	}
	if got := testutil.ToFloat64(c.emitted.WithLabelValues(SourceStage)); got != 12 {
		t.Errorf("emitted = %v, want 12", got)
	}
	if got := testutil.ToFloat64(c.excluded.WithLabelValues(SourceStage)); got != 2 {
		t.Errorf("excluded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.skipped.WithLabelValues(SourceStage, "malformed_vector")); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	c.RecordRun(SourceStage, nil, time.Second)
	c.RecordEntries(SourceStage, 1, 1, 0)
	c.RecordSkip(SourceStage, "x")
	if err := c.WriteTextfile("ignored.prom"); err != nil {
		t.Errorf("nil collector WriteTextfile() error = %v", err)
	}
	if c.Registry() != nil {
		t.Error("nil collector should have no registry")
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector(nil)
	c.RecordEntries(SourceManifest, 3, 3, 0)

	path := filepath.Join(t.TempDir(), "scenery.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `scenery_entries_total{source="manifest"} 3`) {
		t.Errorf("textfile missing entries counter:\n%s", data)
	}

	if err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
