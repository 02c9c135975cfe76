package mutate

import (
	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

// DefaultRootName is the name of the solution created for an empty workspace.
const DefaultRootName = "New Project"

// Seed builds the starter solution shown on first run.
func Seed(rootName string) (*solution.Tree, error) {
	if rootName == "" {
		rootName = DefaultRootName
	}
	t := solution.NewTree(rootName)
	if _, err := t.Root().AddChildren(model.ItemTypeTopTask, "Enter to add a task", "Delete to remove a task"); err != nil {
		return nil, err
	}
	t.Root().SetExpanded(true)
	return t, nil
}

// NewSolutionName picks a root name not used by any of existing.
func NewSolutionName(existing []string) (string, error) {
	tmpl, err := solution.NameTemplate(model.ItemTypeRoot)
	if err != nil {
		return "", err
	}
	return solution.SuggestName(tmpl, existing)
}
