package solution

import (
	"fmt"

	"solution-cli/internal/model"
)

// suffixSlack is how far past the sibling count the numeric suffix search goes.
const suffixSlack = 100

// NameTemplate is the base name suggested for a new item of the given type.
func NameTemplate(typ model.ItemType) (string, error) {
	switch typ {
	case model.ItemTypeRoot:
		return "New Solution", nil
	case model.ItemTypeSubTask:
		return "New SubTask", nil
	case model.ItemTypeTopTask:
		return "New TopTask", nil
	case model.ItemTypeProject:
		return "New Project", nil
	default:
		return "", &InvalidItemTypeError{Type: typ, Reason: "no name template"}
	}
}

// SuggestNextChildName returns the template for typ when no child uses it yet, otherwise
// the first free "<template> <n>".
func (it *Item) SuggestNextChildName(typ model.ItemType) (string, error) {
	tmpl, err := NameTemplate(typ)
	if err != nil {
		return "", err
	}
	if it.children == nil {
		return "", &InvalidItemTypeError{Type: it.itemType, Reason: "leaf items have no children to name"}
	}
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return suggestName(tmpl, len(it.children.items), func(n string) bool {
		_, taken := it.children.byName[n]
		return taken
	})
}

// SuggestName applies the child-name rule to an arbitrary set of taken names, e.g. the
// root names of all open solutions.
func SuggestName(template string, taken []string) (string, error) {
	set := make(map[string]struct{}, len(taken))
	for _, n := range taken {
		set[n] = struct{}{}
	}
	return suggestName(template, len(set), func(n string) bool {
		_, ok := set[n]
		return ok
	})
}

func suggestName(template string, count int, taken func(string) bool) (string, error) {
	if !taken(template) {
		return template, nil
	}
	bound := count + suffixSlack
	for i := 1; i < bound; i++ {
		n := fmt.Sprintf("%s %d", template, i)
		if !taken(n) {
			return n, nil
		}
	}
	return "", &NameExhaustionError{Template: template, Bound: bound}
}
