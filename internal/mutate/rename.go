package mutate

import (
	"errors"
	"strings"

	"solution-cli/internal/solution"
)

type RenameResult struct {
	Item    *solution.Item
	OldPath string
	Path    string
	Changed bool
}

// RenameItem renames the item at path. Siblings are re-sorted; a name already used
// by a sibling is rejected and nothing changes.
func RenameItem(t *solution.Tree, path, newName string) (RenameResult, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return RenameResult{}, errors.New("missing name")
	}
	it, err := Resolve(t, path)
	if err != nil {
		return RenameResult{}, err
	}
	old := it.Path()
	if it.DisplayName() == newName {
		return RenameResult{Item: it, OldPath: old, Path: old}, nil
	}
	if it.Parent() == nil {
		t.RenameRoot(newName)
	} else if err := it.SetDisplayName(newName); err != nil {
		return RenameResult{}, err
	}
	return RenameResult{Item: it, OldPath: old, Path: it.Path(), Changed: true}, nil
}
