package model

import (
	"errors"
	"testing"
)

func TestParseItemType(t *testing.T) {
	cases := map[string]ItemType{
		"Project":  ItemTypeProject,
		" folder ": ItemTypeTopTask,
		"TOPTASK":  ItemTypeTopTask,
		"file":     ItemTypeSubTask,
		"subtask":  ItemTypeSubTask,
		"root":     ItemTypeRoot,
	}
	for in, want := range cases {
		got, ok := ParseItemType(in)
		if !ok || got != want {
			t.Fatalf("ParseItemType(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseItemType("widget"); ok {
		t.Fatalf("expected unknown type to fail")
	}
}

func TestItemTypeComposite(t *testing.T) {
	if ItemTypeSubTask.IsComposite() {
		t.Fatalf("SubTask must be a leaf")
	}
	for _, typ := range []ItemType{ItemTypeRoot, ItemTypeTopTask, ItemTypeProject} {
		if !typ.IsComposite() {
			t.Fatalf("%s must be composite", typ)
		}
	}
	if ItemType(5).Valid() {
		t.Fatalf("code 5 is not a known type")
	}
	if got := ItemType(5).String(); got != "ItemType(5)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestCheckItemTypes(t *testing.T) {
	if err := CheckItemTypes(ItemTypeEnum()); err != nil {
		t.Fatalf("live enum must match itself: %v", err)
	}

	extra := ItemTypeEnum()
	extra[400] = "Workspace"
	if err := CheckItemTypes(extra); err != nil {
		t.Fatalf("extra codes are tolerated: %v", err)
	}

	renamed := ItemTypeEnum()
	renamed[200] = "Folder"
	err := CheckItemTypes(renamed)
	var sm *SchemaMismatchError
	if !errors.As(err, &sm) || !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	if sm.Code != 200 || sm.Got != "Folder" || sm.Expected != "TopTask" || sm.Missing {
		t.Fatalf("unexpected mismatch: %+v", sm)
	}

	missing := ItemTypeEnum()
	delete(missing, 0)
	err = CheckItemTypes(missing)
	if !errors.As(err, &sm) || !sm.Missing || sm.Code != 0 {
		t.Fatalf("expected missing code 0, got %v", err)
	}
}

func TestSolutionRoot(t *testing.T) {
	s := Solution{Nodes: []Node{
		{ID: 2, ParentID: IDPtr(1), ItemType: ItemTypeProject, DisplayName: "P"},
		{ID: 1, ItemType: ItemTypeRoot, DisplayName: "R", IsChecked: BoolPtr(false)},
	}}
	r, ok := s.Root()
	if !ok || r.ID != 1 {
		t.Fatalf("Root() = %+v, %v", r, ok)
	}
	if _, ok := (Solution{}).Root(); ok {
		t.Fatalf("empty solution has no root")
	}
}
