package mutate

import (
	"strings"

	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

type AddResult struct {
	Item *solution.Item
	Path string
	Name string
	// Suggested is set when the name was picked by the resolver.
	Suggested bool
}

// AddItem adds a child of typ below parentPath. An empty name takes the next free
// "New <Type>" name. The parent's checked state is recomputed afterwards.
func AddItem(t *solution.Tree, parentPath, name string, typ model.ItemType) (AddResult, error) {
	parent, err := Resolve(t, parentPath)
	if err != nil {
		return AddResult{}, err
	}
	name = strings.TrimSpace(name)
	suggested := false
	if name == "" {
		name, err = parent.SuggestNextChildName(typ)
		if err != nil {
			return AddResult{}, err
		}
		suggested = true
	}
	it, err := parent.AddChild(name, typ)
	if err != nil {
		return AddResult{}, err
	}
	parent.SortChildren()
	parent.RefreshCheckState()
	return AddResult{Item: it, Path: it.Path(), Name: name, Suggested: suggested}, nil
}

// SuggestName returns the name AddItem would pick for typ below parentPath.
func SuggestName(t *solution.Tree, parentPath string, typ model.ItemType) (string, error) {
	parent, err := Resolve(t, parentPath)
	if err != nil {
		return "", err
	}
	return parent.SuggestNextChildName(typ)
}

// DefaultChildType is the type added below parent when none is given: sub tasks under
// top tasks, top tasks everywhere else.
func DefaultChildType(parent model.ItemType) model.ItemType {
	if parent == model.ItemTypeTopTask {
		return model.ItemTypeSubTask
	}
	return model.ItemTypeTopTask
}
