package mutate

import (
	"errors"
	"testing"

	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

func TestMoveItem(t *testing.T) {
	tr := solution.NewTree("R")
	for _, step := range []struct {
		parent, name string
		typ          model.ItemType
	}{
		{"", "Src", model.ItemTypeTopTask},
		{"", "Dst", model.ItemTypeTopTask},
		{"Src", "a", model.ItemTypeSubTask},
		{"Src", "b", model.ItemTypeSubTask},
		{"Dst", "c", model.ItemTypeSubTask},
		{"Dst", "b", model.ItemTypeSubTask},
	} {
		if _, err := AddItem(tr, step.parent, step.name, step.typ); err != nil {
			t.Fatalf("add %s/%s: %v", step.parent, step.name, err)
		}
	}
	if _, err := SetChecked(tr, "Src/a", solution.Checked); err != nil {
		t.Fatal(err)
	}
	a, _ := tr.Find("Src/a")
	a.SetID(77)

	res, err := MoveItem(tr, "Src/a", "Dst")
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if res.OldPath != "/R/Src/a" || res.Path != "/R/Dst/a" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if a.ID() != 77 || a.Checked() != solution.Checked {
		t.Fatalf("move must keep id and state")
	}
	dst, _ := tr.Find("Dst")
	if dst.Children().At(0).DisplayName() != "a" || dst.Checked() != solution.Indeterminate {
		t.Fatalf("destination must be sorted and recomputed")
	}
	src, _ := tr.Find("Src")
	if src.Checked() != solution.Unchecked {
		t.Fatalf("source must be recomputed, got %v", src.Checked())
	}

	if _, err := MoveItem(tr, "Src/b", "Dst"); !errors.Is(err, solution.ErrDuplicateName) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if _, ok := tr.Find("Src/b"); !ok {
		t.Fatalf("a rejected move must leave the item in place")
	}
	if _, err := MoveItem(tr, "Dst", "Dst/c"); !errors.Is(err, solution.ErrInvalidItemType) && !errors.Is(err, ErrMoveIntoSelf) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if _, err := MoveItem(tr, "Src", "Src"); !errors.Is(err, ErrMoveIntoSelf) {
		t.Fatalf("expected self move rejection, got %v", err)
	}
	if _, err := MoveItem(tr, "/", "Dst"); !errors.Is(err, ErrRootOperation) {
		t.Fatalf("expected root rejection, got %v", err)
	}
	if _, err := MoveItem(tr, "Dst/c", "Src/b"); !errors.Is(err, solution.ErrInvalidItemType) {
		t.Fatalf("expected leaf target rejection, got %v", err)
	}
}

func TestMoveItem_KeepsSingleSelection(t *testing.T) {
	tr := solution.NewTree("R")
	for _, p := range [][2]string{{"", "Src"}, {"", "Dst"}, {"Src", "a"}, {"Src", "b"}} {
		typ := model.ItemTypeTopTask
		if p[0] != "" {
			typ = model.ItemTypeSubTask
		}
		if _, err := AddItem(tr, p[0], p[1], typ); err != nil {
			t.Fatalf("add %s/%s: %v", p[0], p[1], err)
		}
	}
	b, _ := tr.Find("Src/b")
	b.SetSelected(true)

	if _, err := MoveItem(tr, "Src/b", "Dst"); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	var selected []string
	for _, row := range tr.Snapshot(false) {
		if row.Selected {
			selected = append(selected, row.Path)
		}
	}
	if len(selected) != 1 || selected[0] != "/R/Dst/b" {
		t.Fatalf("selected rows = %v, want only /R/Dst/b", selected)
	}
}
