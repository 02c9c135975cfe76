package mutate

import (
	"strings"

	"solution-cli/internal/solution"
)

// Resolve finds the item at path (absolute "/Root/a/b" or relative to the root).
func Resolve(t *solution.Tree, path string) (*solution.Item, error) {
	it, ok := t.Find(path)
	if !ok {
		return nil, NotFoundError{Kind: "item", ID: cleanPath(path)}
	}
	return it, nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	return p
}

// countSubtree counts it and all of its descendants.
func countSubtree(it *solution.Item) int {
	n := 1
	if !it.IsComposite() {
		return n
	}
	for _, ch := range it.Children().Items() {
		n += countSubtree(ch)
	}
	return n
}
