package model

import (
	"fmt"
	"strings"
)

// Convention identifies how a placement was converted from the source
// engine's axes into the viewer's axes.
type Convention int

const (
	// ConventionUnknown is the zero value and is never produced by a transform.
	ConventionUnknown Convention = iota
	// ConventionRemap relabels Y/Z (negating one) and composes the rotation
	// as sequential local X, Y, Z turns.
	ConventionRemap
	// ConventionDirect keeps axes as-is and treats the rotation as
	// independent XYZ Euler angles.
	ConventionDirect
)

// String returns the string representation of the convention.
func (c Convention) String() string {
	switch c {
	case ConventionRemap:
		return "remap"
	case ConventionDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// ParseConvention parses "remap" or "direct" (case-insensitive).
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remap":
		return ConventionRemap, nil
	case "direct":
		return ConventionDirect, nil
	default:
		return ConventionUnknown, fmt.Errorf("unknown convention %q (want remap or direct)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Convention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Convention) UnmarshalText(text []byte) error {
	parsed, err := ParseConvention(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RawPlacement is placement data in the source convention, before any
// transform. Rotate is in degrees.
type RawPlacement struct {
	// ModelName is the object's own model, if it names one.
	ModelName string
	// UnitConfigName is the actor class name, used when ModelName is empty.
	UnitConfigName string

	Translate Vector3
	Rotate    Vector3
	Scale     Vector3

	// Instance is the object's Id in a stage document, or the key in a manifest.
	Instance string
	// List is the object list the entry was read from (e.g. "ObjectList").
	List string
	// Layer is the object's LayerConfigName, if any.
	Layer string
}

// ResolvedName returns ModelName, falling back to UnitConfigName.
func (r RawPlacement) ResolvedName() string {
	if r.ModelName != "" {
		return r.ModelName
	}
	return r.UnitConfigName
}

// HasIdentity reports whether at least one model name is present.
func (r RawPlacement) HasIdentity() bool {
	return r.ResolvedName() != ""
}

// PlacementRecord is a placed object in the viewer's convention, ready to
// be handed to whatever assembles the scene.
type PlacementRecord struct {
	ModelName      string     `json:"model" yaml:"model"`
	UnitConfigName string     `json:"unit_config,omitempty" yaml:"unit_config,omitempty"`
	Instance       string     `json:"instance,omitempty" yaml:"instance,omitempty"`
	List           string     `json:"list,omitempty" yaml:"list,omitempty"`
	Layer          string     `json:"layer,omitempty" yaml:"layer,omitempty"`
	Position       Vector3    `json:"position" yaml:"position"`
	Rotation       Vector3    `json:"rotation" yaml:"rotation"` // radians, applied X then Y then Z
	Scale          Vector3    `json:"scale" yaml:"scale"`
	Convention     Convention `json:"convention" yaml:"convention"`
}

// Matrix returns the rotation the record describes.
//
// Under ConventionRemap the three angles are applied one after another about
// the object's local X, then Y, then Z axis (Rx * Ry * Rz). Under
// ConventionDirect they are plain XYZ Euler angles (Rz * Ry * Rx).
func (p PlacementRecord) Matrix() Matrix3 {
	if p.Convention == ConventionRemap {
		return RotationX(p.Rotation.X).Mul(RotationY(p.Rotation.Y)).Mul(RotationZ(p.Rotation.Z))
	}
	return EulerXYZ(p.Rotation)
}

// Euler returns XYZ Euler angles equivalent to Matrix. For ConventionDirect
// this is the stored rotation itself.
func (p PlacementRecord) Euler() Vector3 {
	if p.Convention == ConventionRemap {
		return p.Matrix().ToEulerXYZ()
	}
	return p.Rotation
}
