package manifest

import (
	"io"
	"log/slog"
	"strings"

	"github.com/tsawler/scenery/model"
)

// ModelNameFromInstance derives the model name from an instance key: the
// text before the first underscore. "GateArea_001" yields "GateArea".
func ModelNameFromInstance(instance string) (string, error) {
	i := strings.IndexByte(instance, '_')
	if i <= 0 {
		return "", &NamingConventionError{Instance: instance}
	}
	return instance[:i], nil
}

// Diagnostic records an instance that was skipped in lenient mode.
type Diagnostic struct {
	Instance string
	Err      error
}

type options struct {
	lenient bool
	logger  *slog.Logger
}

// Option configures Extract
type Option func(*options)

// WithLenientNaming skips instances that break the naming convention and
// reports them as diagnostics instead of failing the whole manifest.
func WithLenientNaming() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithLogger sets the logger for per-instance traces.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Extract converts every placement in m, in document order. By default
// the first instance whose key breaks the naming convention fails the call
// with a *NamingConventionError and no placements are returned.
func Extract(m *Manifest, opts ...Option) ([]model.RawPlacement, []Diagnostic, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil {
		return nil, nil, nil
	}

	var (
		placements []model.RawPlacement
		diags      []Diagnostic
	)
	for _, instance := range m.Instances() {
		name, err := ModelNameFromInstance(instance)
		if err != nil {
			if !o.lenient {
				return nil, nil, err
			}
			o.logger.Debug("Skipping manifest instance", "instance", instance, "error", err)
			diags = append(diags, Diagnostic{Instance: instance, Err: err})
			continue
		}
		if len(m.ExportedModels) > 0 && !m.HasModel(name) {
			o.logger.Debug("Model not listed in ExportedModels", "instance", instance, "model", name)
		}

		info := m.PlacementInfo[instance]
		placements = append(placements, model.RawPlacement{
			ModelName: name,
			Translate: info.Position.Vector3(),
			Rotate:    info.Rotation.Vector3(),
			Scale:     info.Scale.Vector3(),
			Instance:  instance,
		})
	}
	return placements, diags, nil
}

// ExtractLenient is Extract with WithLenientNaming.
func ExtractLenient(m *Manifest, opts ...Option) ([]model.RawPlacement, []Diagnostic) {
	placements, diags, _ := Extract(m, append(opts, WithLenientNaming())...)
	return placements, diags
}
