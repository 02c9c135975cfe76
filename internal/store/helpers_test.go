package store

import (
	"os"
	"testing"

	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

func withEnv(t *testing.T, k, v string, fn func()) {
	t.Helper()
	old, had := os.LookupEnv(k)
	if err := os.Setenv(k, v); err != nil {
		t.Fatalf("setenv %s: %v", k, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(k, old)
		} else {
			_ = os.Unsetenv(k)
		}
	})
	fn()
}

// demoTree builds <name>/P/{Folder/{a.txt,b.txt}, Empty} with a.txt checked.
func demoTree(t *testing.T, name string) *solution.Tree {
	t.Helper()
	tr := solution.NewTree(name)
	p, err := tr.Root().AddChild("P", model.ItemTypeProject)
	if err != nil {
		t.Fatalf("add P: %v", err)
	}
	folder, err := p.AddChild("Folder", model.ItemTypeTopTask)
	if err != nil {
		t.Fatalf("add Folder: %v", err)
	}
	files, err := folder.AddChildren(model.ItemTypeSubTask, "a.txt", "b.txt")
	if err != nil {
		t.Fatalf("add files: %v", err)
	}
	if _, err := p.AddChild("Empty", model.ItemTypeTopTask); err != nil {
		t.Fatalf("add Empty: %v", err)
	}
	p.SortChildren()
	files[0].SetChecked(solution.Checked)
	return tr
}
