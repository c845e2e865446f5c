// Package stage selects a scenario from a parsed stage document and reads
// the placements of the objects in it.
//
// A stage document holds an array of scenarios under BymlRoot. Each scenario
// is a dictionary of named object lists ("ObjectList", "AreaList", ...), and
// each list holds one dictionary per placed object:
//
//	list, err := stage.ScenarioList(root)
//	scenario, err := stage.SelectScenario(list, 1) // 1-based
//
//	ext := stage.NewExtractor(scenario, stage.WithExclude(stage.NewExcludeSet("Rock01")))
//	placements, diags := stage.Collect(ext.All())
//
// Model identity is the object's ModelName, falling back to UnitConfigName.
// Entries with neither, or with a malformed Translate/Rotate/Scale group, are
// reported as a [Diagnostic] and skipped; the pass always continues. Entries
// whose resolved name is in the [ExcludeSet] are dropped silently.
//
// Document-level problems stop the run before any extraction: a missing
// BymlRoot or scenario array is a [StructureError], an out-of-range index a
// [ScenarioIndexError].
package stage
