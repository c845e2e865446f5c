// Package model provides the data types shared by every stage of placement
// extraction.
//
// # Placements
//
// A [RawPlacement] is what an extractor reads out of a stage document or a
// placement manifest: model identity plus translate, rotate (degrees) and
// scale in the source engine's axes. A [PlacementRecord] is the result of
// converting a raw placement into the viewer's axes; rotation is in radians.
//
//	raw := model.RawPlacement{ModelName: "Rock01", Translate: model.Vec3(1, 2, 3)}
//	rec := transform.Transform(raw, model.ConventionRemap)
//	fmt.Println(rec.Position) // (1, -3, 2)
//
// # Conventions
//
// Two conversions exist and are kept separate:
//
//   - [ConventionRemap] swaps Y and Z (negating the new Y for positions and
//     rotations, but not for scale) and applies the rotation as local X, then
//     Y, then Z turns.
//   - [ConventionDirect] leaves axes alone and treats the rotation as XYZ
//     Euler angles.
//
// [PlacementRecord.Matrix] and [PlacementRecord.Euler] expose the rotation
// in a form any consumer can apply regardless of convention.
//
// # Geometry
//
// [Vector3] and [Matrix3] are small value types; [Matrix3.ToEulerXYZ]
// decomposes a rotation matrix back into Euler angles.
package model
