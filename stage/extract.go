package stage

import (
	"io"
	"iter"
	"log/slog"

	"github.com/tsawler/scenery/core"
	"github.com/tsawler/scenery/model"
)

// object fields read from each entry
const (
	fieldModelName      = "ModelName"
	fieldUnitConfigName = "UnitConfigName"
	fieldID             = "Id"
	fieldLayer          = "LayerConfigName"
	fieldTranslate      = "Translate"
	fieldRotate         = "Rotate"
	fieldScale          = "Scale"
)

// Result is one object entry's outcome: a placement, or the error that
// caused the entry to be skipped.
type Result struct {
	Placement model.RawPlacement
	List      string // object list name, e.g. "ObjectList"
	Index     int    // 0-based position within the list
	Err       error
}

// Diagnostic records an entry that was skipped because of a per-entry error.
type Diagnostic struct {
	List     string
	Index    int
	Instance string
	Err      error
}

// Stats counts what a pass over the scenario saw.
type Stats struct {
	Entries  int // object entries visited
	Emitted  int // placements produced
	Excluded int // entries dropped by the exclude set
	Skipped  int // entries dropped because of an error
}

// Extractor walks the object lists of a single scenario.
type Extractor struct {
	scenario *core.Node
	exclude  ExcludeSet
	logger   *slog.Logger
	stats    Stats
}

// Option configures an Extractor
type Option func(*Extractor)

// WithExclude drops entries whose resolved model name is in set.
func WithExclude(set ExcludeSet) Option {
	return func(e *Extractor) {
		e.exclude = set
	}
}

// WithLogger sets the logger used for skip decisions (logged at debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor for a scenario node as returned by
// SelectScenario.
func NewExtractor(scenario *core.Node, opts ...Option) *Extractor {
	e := &Extractor{
		scenario: scenario,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats returns the counts from the most recent pass.
func (e *Extractor) Stats() Stats {
	return e.stats
}

// All returns the scenario's entries as a single ordered pass: every object
// list in document order, every entry within each list in order. Entries that
// fail are yielded with Err set and never stop the sequence; excluded entries
// are not yielded at all.
func (e *Extractor) All() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		e.stats = Stats{}
		if e.scenario == nil {
			return
		}

		for _, list := range e.scenario.Children {
			if list.Kind != core.KindArray {
				continue
			}
			listName, _ := list.Name()
			e.logger.Debug("Processing object list", "list", listName, "entries", list.Len())

			for i, obj := range list.Children {
				if obj.Kind != core.KindDict {
					continue
				}
				e.stats.Entries++

				res, excluded := e.entry(obj, listName, i)
				if excluded {
					e.stats.Excluded++
					continue
				}
				if res.Err != nil {
					e.stats.Skipped++
					e.logger.Debug("Skipping object",
						"list", listName,
						"index", i,
						"error", res.Err,
					)
				} else {
					e.stats.Emitted++
				}

				if !yield(res) {
					return
				}
			}
		}
	}
}

// entry reads one object. The second return value reports an excluded entry.
func (e *Extractor) entry(obj *core.Node, listName string, index int) (Result, bool) {
	res := Result{List: listName, Index: index}

	raw := model.RawPlacement{List: listName}
	raw.ModelName, _ = obj.StringField(fieldModelName)
	raw.UnitConfigName, _ = obj.StringField(fieldUnitConfigName)
	raw.Instance, _ = obj.StringField(fieldID)
	raw.Layer, _ = obj.StringField(fieldLayer)

	if !raw.HasIdentity() {
		res.Placement = raw
		res.Err = &MissingModelIdentityError{Instance: raw.Instance}
		return res, false
	}

	if name := raw.ResolvedName(); e.exclude.Contains(name) {
		e.logger.Debug("Object excluded", "list", listName, "index", index, "model", name)
		return res, true
	}

	var err error
	if raw.Translate, err = core.ReadVectorField(obj, fieldTranslate); err != nil {
		res.Placement, res.Err = raw, err
		return res, false
	}
	if raw.Scale, err = core.ReadVectorField(obj, fieldScale); err != nil {
		res.Placement, res.Err = raw, err
		return res, false
	}
	if raw.Rotate, err = core.ReadVectorField(obj, fieldRotate); err != nil {
		res.Placement, res.Err = raw, err
		return res, false
	}

	res.Placement = raw
	return res, false
}

// Collect drains a sequence into the placements that succeeded and the
// diagnostics for the entries that did not.
func Collect(seq iter.Seq[Result]) ([]model.RawPlacement, []Diagnostic) {
	var (
		placements []model.RawPlacement
		diags      []Diagnostic
	)
	for res := range seq {
		if res.Err != nil {
			diags = append(diags, Diagnostic{
				List:     res.List,
				Index:    res.Index,
				Instance: res.Placement.Instance,
				Err:      res.Err,
			})
			continue
		}
		placements = append(placements, res.Placement)
	}
	return placements, diags
}
