package stage

import "fmt"

// ScenarioIndexError reports a scenario index outside [1, Count].
type ScenarioIndexError struct {
	Index int
	Count int
}

func (e *ScenarioIndexError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("scenario %d out of range: document has no scenarios", e.Index)
	}
	return fmt.Sprintf("scenario %d out of range: valid scenarios are 1-%d", e.Index, e.Count)
}

// StructureError reports a stage document missing one of the levels every
// stage has (the BymlRoot wrapper or the scenario array under it).
type StructureError struct {
	Missing string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("stage document has no %s", e.Missing)
}

// MissingModelIdentityError reports an object entry with neither a
// ModelName nor a UnitConfigName.
type MissingModelIdentityError struct {
	Instance string // the entry's Id, if it has one
}

func (e *MissingModelIdentityError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("object %q has neither ModelName nor UnitConfigName", e.Instance)
	}
	return "object has neither ModelName nor UnitConfigName"
}
