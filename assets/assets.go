// Package assets locates the model file a placement refers to.
//
// Two folder layouts are supported. Flat exports keep every model beside
// the stage file as <folder>/<name><ext>; the manifest exporter writes one
// directory per model as <folder>/<name>/<name>.dae.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/scenery/model"
)

// ErrNotFound is wrapped by every *NotFoundError.
var ErrNotFound = errors.New("model file not found")

// NotFoundError lists the paths that were tried.
type NotFoundError struct {
	Model string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %v (tried %s)", e.Model, ErrNotFound, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Layout selects how model files are arranged under the folder.
type Layout int

const (
	// Flat is <folder>/<name><ext>.
	Flat Layout = iota
	// Nested is <folder>/<name>/<name>.dae.
	Nested
)

// DefaultExtension is the flat-layout model file extension.
const DefaultExtension = ".obj"

// nestedExtension is what the manifest exporter writes
const nestedExtension = ".dae"

// Resolver maps placement records to model files.
type Resolver struct {
	Folder    string
	Extension string
	Layout    Layout
}

// NewResolver returns a flat-layout resolver for folder. An empty ext
// selects DefaultExtension.
func NewResolver(folder, ext string) *Resolver {
	return &Resolver{Folder: folder, Extension: normalizeExt(ext), Layout: Flat}
}

// NewNestedResolver returns a resolver for the per-model directory layout.
func NewNestedResolver(folder string) *Resolver {
	return &Resolver{Folder: folder, Extension: nestedExtension, Layout: Nested}
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Candidates returns the paths Resolve tries for rec, in order. The flat
// layout tries the unit config name before the model name.
func (r *Resolver) Candidates(rec model.PlacementRecord) []string {
	var names []string
	if r.Layout == Flat && rec.UnitConfigName != "" {
		names = append(names, rec.UnitConfigName)
	}
	if rec.ModelName != "" && (len(names) == 0 || names[0] != rec.ModelName) {
		names = append(names, rec.ModelName)
	}

	ext := r.Extension
	if ext == "" {
		ext = DefaultExtension
		if r.Layout == Nested {
			ext = nestedExtension
		}
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		if r.Layout == Nested {
			paths = append(paths, filepath.Join(r.Folder, name, name+ext))
		} else {
			paths = append(paths, filepath.Join(r.Folder, name+ext))
		}
	}
	return paths
}

// Resolve returns the first candidate that exists as a regular file.
func (r *Resolver) Resolve(rec model.PlacementRecord) (string, error) {
	tried := r.Candidates(rec)
	for _, path := range tried {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", &NotFoundError{Model: rec.ModelName, Tried: tried}
}

// Resolution is the outcome of resolving one record.
type Resolution struct {
	Record model.PlacementRecord
	Path   string
	Err    error
}

// ResolveAll resolves every record in order. Each distinct model name is
// looked up once.
func (r *Resolver) ResolveAll(records []model.PlacementRecord) []Resolution {
	type cached struct {
		path string
		err  error
	}
	seen := make(map[string]cached)

	out := make([]Resolution, len(records))
	for i, rec := range records {
		key := rec.UnitConfigName + "\x00" + rec.ModelName
		c, ok := seen[key]
		if !ok {
			c.path, c.err = r.Resolve(rec)
			seen[key] = c
		}
		out[i] = Resolution{Record: rec, Path: c.path, Err: c.err}
	}
	return out
}
