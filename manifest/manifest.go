// Package manifest reads the JSON placement manifest written next to exported
// stage models and turns its entries into raw placements.
//
// A manifest looks like:
//
//	{
//	  "ExportedModels": ["GateArea", "Rock01"],
//	  "PlacementInfo": {
//	    "GateArea_001": {
//	      "Position": {"X": 1, "Y": 2, "Z": 3},
//	      "Rotation": {"X": 0, "Y": 90, "Z": 0},
//	      "Scale":    {"X": 1, "Y": 1, "Z": 1}
//	    }
//	  }
//	}
//
// Instance keys follow the "<ModelName>_<suffix>" naming convention; the
// model a placement refers to is derived from the key. Instances are visited
// in the order they appear in the document.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tsawler/scenery/model"
)

// Vector is a manifest {X, Y, Z} object. Missing axes decode as zero.
type Vector struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Vector3 converts to the geometry type, mapping a missing object to zero.
func (v *Vector) Vector3() model.Vector3 {
	if v == nil {
		return model.Zero
	}
	return model.Vec3(v.X, v.Y, v.Z)
}

// Placement is one PlacementInfo entry. Rotation is in degrees.
type Placement struct {
	Position *Vector `json:"Position"`
	Rotation *Vector `json:"Rotation"`
	Scale    *Vector `json:"Scale"`
}

// Manifest is a decoded placement manifest.
type Manifest struct {
	ExportedModels []string             `json:"ExportedModels"`
	PlacementInfo  map[string]Placement `json:"PlacementInfo"`

	// order holds the PlacementInfo keys as they appeared in the document
	order []string
}

// UnmarshalJSON decodes a manifest and records the document order of the
// PlacementInfo keys.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var doc struct {
		ExportedModels []string          `json:"ExportedModels"`
		PlacementInfo  orderedPlacements `json:"PlacementInfo"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	m.ExportedModels = doc.ExportedModels
	m.PlacementInfo = doc.PlacementInfo.values
	m.order = doc.PlacementInfo.keys
	return nil
}

// orderedPlacements is a PlacementInfo object decoded key by key.
type orderedPlacements struct {
	keys   []string
	values map[string]Placement
}

func (o *orderedPlacements) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("PlacementInfo must be an object, got %v", tok)
	}

	o.values = make(map[string]Placement)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected PlacementInfo key %v", tok)
		}

		var p Placement
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("PlacementInfo %q: %w", key, err)
		}
		// a repeated key keeps its first position and its last value
		if _, seen := o.values[key]; !seen {
			o.keys = append(o.keys, key)
		}
		o.values[key] = p
	}

	_, err = dec.Token()
	return err
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	return parse(data, "")
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &m, nil
}

// Instances returns the placement instance names in document order.
// Entries added to PlacementInfo after decoding follow, sorted by name.
func (m *Manifest) Instances() []string {
	names := make([]string, 0, len(m.PlacementInfo))
	listed := make(map[string]bool, len(m.order))
	for _, name := range m.order {
		if _, ok := m.PlacementInfo[name]; ok && !listed[name] {
			names = append(names, name)
			listed[name] = true
		}
	}

	var rest []string
	for name := range m.PlacementInfo {
		if !listed[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// HasModel reports whether name is listed in ExportedModels.
func (m *Manifest) HasModel(name string) bool {
	for _, exported := range m.ExportedModels {
		if exported == name {
			return true
		}
	}
	return false
}
