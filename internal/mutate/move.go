package mutate

import (
	"solution-cli/internal/solution"
)

type MoveResult struct {
	Item    *solution.Item
	OldPath string
	Path    string
}

// MoveItem re-parents the item at path below toParentPath, keeping its subtree, id
// and checked state. Every check runs before the item is detached.
func MoveItem(t *solution.Tree, path, toParentPath string) (MoveResult, error) {
	it, err := Resolve(t, path)
	if err != nil {
		return MoveResult{}, err
	}
	from := it.Parent()
	if from == nil {
		return MoveResult{}, ErrRootOperation
	}
	to, err := Resolve(t, toParentPath)
	if err != nil {
		return MoveResult{}, err
	}
	old := it.Path()
	if to == from {
		return MoveResult{Item: it, OldPath: old, Path: old}, nil
	}
	for cur := to; cur != nil; cur = cur.Parent() {
		if cur == it {
			return MoveResult{}, ErrMoveIntoSelf
		}
	}
	if !to.IsComposite() {
		return MoveResult{}, &solution.InvalidItemTypeError{Type: to.Type(), Reason: "leaf items cannot hold children"}
	}
	name := it.DisplayName()
	if _, taken := to.FindChild(name); taken {
		return MoveResult{}, &solution.DuplicateNameError{Name: name, Parent: to.DisplayName()}
	}

	// A selected item keeps the selection; clearing it first stops the detach from
	// handing it to a neighbour.
	selected := it.Selected()
	if selected {
		it.SetSelected(false)
	}
	from.RemoveChild(it)
	if err := to.Children().Add(it); err != nil {
		// Put it back where it was; the old slot is still free.
		_ = from.Children().Add(it)
		from.SortChildren()
		it.SetSelected(selected)
		return MoveResult{}, err
	}
	it.SetSelected(selected)
	to.SortChildren()
	from.RefreshCheckState()
	to.RefreshCheckState()
	return MoveResult{Item: it, OldPath: old, Path: it.Path()}, nil
}
