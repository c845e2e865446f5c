// Package transform converts raw placements from the source engine's
// Y-up convention into records in the viewer's convention.
//
// Two conventions exist and are kept apart:
//
//   - Remap relabels axes (Y up becomes Z up, one axis negated) and applies
//     the rotation as three successive turns about the object's local X, Y
//     and Z axes.
//   - Direct copies position and scale and reads the rotation as plain XYZ
//     Euler angles.
//
// Every record carries the convention it was produced under.
package transform

import (
	"math"

	"github.com/tsawler/scenery/model"
)

// Convention aliases, so callers need not import model for the common case.
const (
	Remap  = model.ConventionRemap
	Direct = model.ConventionDirect
)

// ParseConvention parses "remap" or "direct".
func ParseConvention(s string) (model.Convention, error) {
	return model.ParseConvention(s)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Position maps a source position into the convention.
func Position(v model.Vector3, conv model.Convention) model.Vector3 {
	if conv == Remap {
		return model.Vec3(v.X, -v.Z, v.Y)
	}
	return v
}

// Scale maps a source scale into the convention. Under Remap the Y and Z
// axes swap without negation.
func Scale(v model.Vector3, conv model.Convention) model.Vector3 {
	if conv == Remap {
		return model.Vec3(v.X, v.Z, v.Y)
	}
	return v
}

// Rotation maps source rotation degrees to radians in the convention.
func Rotation(deg model.Vector3, conv model.Convention) model.Vector3 {
	if conv == Remap {
		return model.Vec3(Radians(deg.X), Radians(-deg.Z), Radians(deg.Y))
	}
	return model.Vec3(Radians(deg.X), Radians(deg.Y), Radians(deg.Z))
}

// Transform converts raw into a record. An unknown convention is treated
// as Direct.
func Transform(raw model.RawPlacement, conv model.Convention) model.PlacementRecord {
	if conv != Remap {
		conv = Direct
	}
	return model.PlacementRecord{
		ModelName:      raw.ResolvedName(),
		UnitConfigName: raw.UnitConfigName,
		Instance:       raw.Instance,
		List:           raw.List,
		Layer:          raw.Layer,
		Position:       Position(raw.Translate, conv),
		Rotation:       Rotation(raw.Rotate, conv),
		Scale:          Scale(raw.Scale, conv),
		Convention:     conv,
	}
}

// All transforms every placement in order.
func All(raws []model.RawPlacement, conv model.Convention) []model.PlacementRecord {
	records := make([]model.PlacementRecord, len(raws))
	for i, raw := range raws {
		records[i] = Transform(raw, conv)
	}
	return records
}
