// Package sink delivers placement records to their consumer.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/scenery/model"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("sink is closed")

// Sink receives records in production order.
type Sink interface {
	Write(rec model.PlacementRecord) error
	Close() error
}

// WriteAll writes records to s in order, stopping at the first error.
func WriteAll(s Sink, records []model.PlacementRecord) error {
	for i, rec := range records {
		if err := s.Write(rec); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.ModelName, err)
		}
	}
	return nil
}

// Collector keeps records in memory.
type Collector struct {
	mu      sync.Mutex
	records []model.PlacementRecord
	closed  bool
}

// Write appends rec.
func (c *Collector) Write(rec model.PlacementRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.records = append(c.records, rec)
	return nil
}

// Close marks the collector closed. Records stay readable.
func (c *Collector) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// Records returns a copy of the collected records.
func (c *Collector) Records() []model.PlacementRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.PlacementRecord, len(c.records))
	copy(out, c.records)
	return out
}

// JSONLines writes one JSON object per record per line.
type JSONLines struct {
	enc    *json.Encoder
	closer io.Closer
	closed bool
}

// NewJSONLines creates a sink writing to w. If w is an io.Closer it is
// closed by Close.
func NewJSONLines(w io.Writer) *JSONLines {
	s := &JSONLines{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Write encodes rec as a single line.
func (s *JSONLines) Write(rec model.PlacementRecord) error {
	if s.closed {
		return ErrClosed
	}
	return s.enc.Encode(rec)
}

// Close closes the underlying writer if it is closable.
func (s *JSONLines) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// YAML buffers records and writes them as one YAML sequence on Close.
type YAML struct {
	w       io.Writer
	records []model.PlacementRecord
	closed  bool
}

// NewYAML creates a sink writing to w.
func NewYAML(w io.Writer) *YAML {
	return &YAML{w: w}
}

// Write buffers rec.
func (s *YAML) Write(rec model.PlacementRecord) error {
	if s.closed {
		return ErrClosed
	}
	s.records = append(s.records, rec)
	return nil
}

// Close encodes the buffered records and closes w if it is closable.
func (s *YAML) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	records := s.records
	if records == nil {
		records = []model.PlacementRecord{}
	}

	enc := yaml.NewEncoder(s.w)
	enc.SetIndent(2)
	err := enc.Encode(records)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if c, ok := s.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write YAML records: %w", err)
	}
	return nil
}

// Multi fans each record out to several sinks.
type Multi []Sink

// Write writes rec to every sink, stopping at the first error.
func (m Multi) Write(rec model.PlacementRecord) error {
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the joined errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
