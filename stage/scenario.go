package stage

import (
	"github.com/tsawler/scenery/core"
)

// rootTag is the wrapper element BYML-to-XML dumpers put around the tree
const rootTag = "BymlRoot"

// ScenarioList locates the scenario array: the first Array under BymlRoot.
// root may be the BymlRoot element itself or the document element wrapping it.
func ScenarioList(root *core.Node) (*core.Node, error) {
	byml := root
	if root == nil || root.Tag != rootTag {
		byml = root.FindTag(rootTag)
	}
	if byml == nil {
		return nil, &StructureError{Missing: rootTag}
	}

	list := byml.FindGroup(core.KindArray)
	if list == nil {
		return nil, &StructureError{Missing: "scenario list"}
	}
	return list, nil
}

// ScenarioCount returns the number of scenarios in a stage document.
func ScenarioCount(root *core.Node) (int, error) {
	list, err := ScenarioList(root)
	if err != nil {
		return 0, err
	}
	return list.Len(), nil
}

// SelectScenario returns the scenario at the 1-based index. Other scenarios
// are left untouched.
func SelectScenario(list *core.Node, index int) (*core.Node, error) {
	count := list.Len()
	if index < 1 || index > count {
		return nil, &ScenarioIndexError{Index: index, Count: count}
	}
	return list.Children[index-1], nil
}

// FindScenario is ScenarioList followed by SelectScenario.
func FindScenario(root *core.Node, index int) (*core.Node, error) {
	list, err := ScenarioList(root)
	if err != nil {
		return nil, err
	}
	return SelectScenario(list, index)
}
