package core

import (
	"fmt"

	"github.com/tsawler/scenery/model"
)

// vector axes in the order they are read
var axes = [3]string{"X", "Y", "Z"}

// MalformedVectorError reports a vector group that is present but does not
// hold a usable float leaf for every axis.
type MalformedVectorError struct {
	Group string // name of the vector group, e.g. "Translate"
	Axis  string // the axis that could not be read
	Err   error  // underlying parse error, nil when the leaf is missing
}

func (e *MalformedVectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed vector %q: axis %s: %v", e.Group, e.Axis, e.Err)
	}
	return fmt.Sprintf("malformed vector %q: missing axis %s", e.Group, e.Axis)
}

func (e *MalformedVectorError) Unwrap() error {
	return e.Err
}

// ReadVector reads the X, Y and Z Float leaves of a vector group.
// A nil group yields the zero vector; a group that is present but missing an
// axis, or whose axis value is not a number, fails with *MalformedVectorError.
func ReadVector(group *Node) (model.Vector3, error) {
	if group == nil {
		return model.Zero, nil
	}

	name, _ := group.Name()
	var out [3]float64
	for i, axis := range axes {
		leaf := group.FindChild(KindFloat, axis)
		if leaf == nil {
			return model.Zero, &MalformedVectorError{Group: name, Axis: axis}
		}
		f, err := leaf.Float()
		if err != nil {
			return model.Zero, &MalformedVectorError{Group: name, Axis: axis, Err: err}
		}
		out[i] = f
	}

	return model.Vec3(out[0], out[1], out[2]), nil
}

// ReadVectorField reads the vector group with the given name under n.
func ReadVectorField(n *Node, name string) (model.Vector3, error) {
	return ReadVector(n.FindChild(KindDict, name))
}
