package mutate

import (
	"errors"

	"solution-cli/internal/solution"
)

var ErrInvalidCheckState = errors.New("invalid checked state")

type SetCheckedResult struct {
	Item    *solution.Item
	Path    string
	State   solution.CheckState
	Changed bool
}

// SetChecked applies state to the item at path and propagates it. Indeterminate is
// only ever derived, so it cannot be set explicitly.
func SetChecked(t *solution.Tree, path string, state solution.CheckState) (SetCheckedResult, error) {
	if state == solution.Indeterminate {
		return SetCheckedResult{}, ErrInvalidCheckState
	}
	it, err := Resolve(t, path)
	if err != nil {
		return SetCheckedResult{}, err
	}
	prev := it.Checked()
	it.SetChecked(state)
	return SetCheckedResult{Item: it, Path: it.Path(), State: it.Checked(), Changed: prev != state}, nil
}

// ToggleChecked checks an unchecked or indeterminate item and unchecks a checked one.
func ToggleChecked(t *solution.Tree, path string) (SetCheckedResult, error) {
	it, err := Resolve(t, path)
	if err != nil {
		return SetCheckedResult{}, err
	}
	next := solution.Checked
	if it.Checked() == solution.Checked {
		next = solution.Unchecked
	}
	return SetChecked(t, path, next)
}
