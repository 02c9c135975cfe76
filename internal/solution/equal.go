package solution

import "solution-cli/internal/model"

// Equal reports whether a and b have the same topology and the same type, display name
// and checked state at every node. Ids and UI flags are ignored; sibling order is not
// compared because both sides are keyed by name.
func Equal(a, b *Tree) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	b.mu.RLock()
	defer b.mu.RUnlock()
	if a.root == nil || b.root == nil {
		return a.root == b.root
	}
	return equalItems(a.root, b.root)
}

func equalItems(x, y *Item) bool {
	if x.itemType != y.itemType || x.name != y.name || x.checked != y.checked {
		return false
	}
	if (x.children == nil) != (y.children == nil) {
		return false
	}
	if x.children == nil {
		return true
	}
	if len(x.children.items) != len(y.children.items) {
		return false
	}
	for _, cx := range x.children.items {
		cy, ok := y.children.byName[cx.name]
		if !ok || !equalItems(cx, cy) {
			return false
		}
	}
	return true
}

// Inconsistency is a composite whose stored checked state differs from the aggregate
// of its children.
type Inconsistency struct {
	Path     string         `json:"path" yaml:"path"`
	Type     model.ItemType `json:"itemType" yaml:"itemType"`
	Stored   CheckState     `json:"-" yaml:"-"`
	Expected CheckState     `json:"-" yaml:"-"`
	// StoredName and ExpectedName carry the states as words for output.
	StoredName   string `json:"stored" yaml:"stored"`
	ExpectedName string `json:"expected" yaml:"expected"`
}

// CheckConsistency lists composites violating the checked aggregation rule. Empty
// composites are never reported. Nothing is corrected.
func CheckConsistency(t *Tree) []Inconsistency {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Inconsistency
	if t.root == nil {
		return out
	}
	t.root.walk(func(it *Item) {
		if it.children == nil || len(it.children.items) == 0 {
			return
		}
		want := determineCheckState(it.children.items)
		if want == it.checked {
			return
		}
		out = append(out, Inconsistency{
			Path:         it.path(),
			Type:         it.itemType,
			Stored:       it.checked,
			Expected:     want,
			StoredName:   it.checked.String(),
			ExpectedName: want.String(),
		})
	})
	return out
}
