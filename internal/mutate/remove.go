package mutate

import (
	"solution-cli/internal/solution"
)

type RemoveResult struct {
	Path    string
	Removed int
	// Selected is the item that took over the selection, if the removed one held it.
	Selected *solution.Item
}

// RemoveItem detaches the item at path together with its subtree. The root cannot
// be removed.
func RemoveItem(t *solution.Tree, path string) (RemoveResult, error) {
	it, err := Resolve(t, path)
	if err != nil {
		return RemoveResult{}, err
	}
	parent := it.Parent()
	if parent == nil {
		return RemoveResult{}, ErrRootOperation
	}
	res := RemoveResult{Path: it.Path(), Removed: countSubtree(it)}
	wasSelected := it.Selected()
	if !parent.RemoveChild(it) {
		return RemoveResult{}, NotFoundError{Kind: "item", ID: res.Path}
	}
	if wasSelected {
		for _, r := range t.Snapshot(false) {
			if r.Selected {
				res.Selected = r.Item
				break
			}
		}
	}
	parent.RefreshCheckState()
	return res, nil
}
