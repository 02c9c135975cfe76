package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"solution-cli/internal/logging"
	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

func TestStore_SaveAllRejectsDuplicateRootsBeforeWriting(t *testing.T) {
	log, logs := logging.NewObserved()
	s := Store{Dir: t.TempDir(), Backend: XMLBackend{}, Log: log}

	trees := []*solution.Tree{demoTree(t, "A"), demoTree(t, "B"), demoTree(t, "A")}
	err := s.SaveAll(context.Background(), trees)
	var dup *DuplicateRootError
	if !errors.As(err, &dup) || dup.Name != "A" || !errors.Is(err, ErrDuplicateRoot) {
		t.Fatalf("expected duplicate A, got %v", err)
	}
	names, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("nothing may be written, found %v", names)
	}
	if logs.FilterMessage("store.save.rejected").Len() != 1 {
		t.Fatalf("expected rejection to be logged, got %v", logs.All())
	}
}

func TestStore_SaveListLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	if err := s.SaveAll(ctx, []*solution.Tree{demoTree(t, "Beta"), demoTree(t, "Alpha")}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Beta" {
		t.Fatalf("List = %v", names)
	}

	target := solution.NewTree("scratch")
	if err := s.Load(ctx, "Beta", target); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if target.Name() != "Beta" || !solution.Equal(target, demoTree(t, "Beta")) {
		t.Fatalf("loaded tree differs")
	}

	all, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 2 || all[0].Name() != "Alpha" {
		t.Fatalf("LoadAll order: %v", all)
	}

	if err := s.Delete(ctx, "Alpha"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "Alpha"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("second delete: %v", err)
	}
	var nf *NotFoundError
	if err := s.Load(ctx, "Alpha", target); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if target.Name() != "Beta" {
		t.Fatalf("failed load must leave target alone")
	}
}

func TestStore_IDsAreStableAcrossSaves(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir(), Backend: JSONBackend{}}
	tr := demoTree(t, "Demo")
	if err := s.Save(ctx, tr); err != nil {
		t.Fatalf("Save: %v", err)
	}
	folder, _ := tr.Find("P/Folder")
	id := folder.ID()

	got, err := s.Open(ctx, "Demo")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f2, _ := got.Find("P/Folder")
	if f2.ID() != id {
		t.Fatalf("id changed: %d -> %d", id, f2.ID())
	}
	if _, err := f2.AddChild("c.txt", model.ItemTypeSubTask); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("resave: %v", err)
	}
	again, err := s.Open(ctx, "Demo")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	c, ok := again.Find("P/Folder/c.txt")
	if !ok || c.ID() <= id {
		t.Fatalf("new item must get a fresh id above existing ones")
	}
}

func TestStore_InvalidRootNames(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	for _, name := range []string{"", "  ", "a/b", `a\b`, "..", ".hidden"} {
		err := s.Save(context.Background(), solution.NewTree(name))
		if !errors.Is(err, ErrInvalidRootName) {
			t.Fatalf("%q: expected invalid name, got %v", name, err)
		}
	}
}

func TestStore_Rename(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir(), Backend: YAMLBackend{}}
	if err := s.SaveAll(ctx, []*solution.Tree{demoTree(t, "Old"), demoTree(t, "Taken")}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := s.Rename(ctx, "Old", "Taken"); !errors.Is(err, ErrDuplicateRoot) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := s.Rename(ctx, "Old", "New"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if s.Exists("Old") || !s.Exists("New") {
		t.Fatalf("rename did not move the file")
	}
	tr, err := s.Open(ctx, "New")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tr.Name() != "New" {
		t.Fatalf("root name = %q", tr.Name())
	}
}

func TestStore_LoadLogsInconsistency(t *testing.T) {
	ctx := context.Background()
	log, logs := logging.NewObserved()
	s := Store{Dir: t.TempDir(), Backend: JSONBackend{}, Log: log}

	m := model.Solution{
		ItemTypes: model.ItemTypeEnum(),
		Nodes: []model.Node{
			{ID: 1, ItemType: model.ItemTypeRoot, DisplayName: "R", IsChecked: model.BoolPtr(false)},
			{ID: 2, ParentID: model.IDPtr(1), ItemType: model.ItemTypeSubTask, DisplayName: "f", IsChecked: model.BoolPtr(true)},
		},
	}
	if err := (JSONBackend{}).Write(ctx, s.Path("R"), m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tr, err := s.Open(ctx, "R")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tr.Root().Checked() != solution.Unchecked {
		t.Fatalf("stored value must be kept")
	}
	if logs.FilterMessage("store.load.inconsistent").Len() != 1 {
		t.Fatalf("expected inconsistency warning, got %v", logs.All())
	}
}

func TestStore_SaveNamesFileAfterExportedRoot(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir(), Backend: JSONBackend{}}
	tr := demoTree(t, "A")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				tr.RenameRoot("B")
			} else {
				tr.RenameRoot("A")
			}
		}
	}()
	for i := 0; i < 50; i++ {
		if err := s.Save(ctx, tr); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	<-done

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, n := range names {
		m, err := s.backend().Read(ctx, s.Path(n))
		if err != nil {
			t.Fatalf("Read %s: %v", n, err)
		}
		if root, _ := m.Root(); root.DisplayName != n {
			t.Fatalf("file %q holds root %q", n, root.DisplayName)
		}
	}
}
