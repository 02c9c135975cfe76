package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"solution-cli/internal/convert"
	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

func TestBackends_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			b, err := BackendFor(f)
			if err != nil {
				t.Fatalf("BackendFor: %v", err)
			}
			tr := demoTree(t, "Demo")
			m, err := convert.ToModel(tr)
			if err != nil {
				t.Fatalf("ToModel: %v", err)
			}
			path := filepath.Join(t.TempDir(), "Demo"+b.Ext())
			if err := b.Write(ctx, path, m); err != nil {
				t.Fatalf("Write: %v", err)
			}
			// Rewriting replaces the file as a whole.
			if err := b.Write(ctx, path, m); err != nil {
				t.Fatalf("rewrite: %v", err)
			}

			got, err := b.Read(ctx, path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if len(got.Nodes) != len(m.Nodes) {
				t.Fatalf("nodes: got %d want %d", len(got.Nodes), len(m.Nodes))
			}
			back := solution.NewTree("x")
			if err := convert.ToTree(got, back); err != nil {
				t.Fatalf("ToTree: %v", err)
			}
			if !solution.Equal(tr, back) {
				t.Fatalf("round trip through %s changed the tree", f)
			}
			folder, _ := back.Find("P/Folder")
			if folder.Checked() != solution.Indeterminate {
				t.Fatalf("indeterminate must survive, got %v", folder.Checked())
			}

			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Fatalf("expected only the solution file, got %d entries", len(entries))
			}
		})
	}
}

func TestBackends_ReadMissingFile(t *testing.T) {
	for _, f := range Formats() {
		b, _ := BackendFor(f)
		path := filepath.Join(t.TempDir(), "nope"+b.Ext())
		if _, err := b.Read(context.Background(), path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s: expected not-exist, got %v", f, err)
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s: reading must not create the file", f)
		}
	}
}

func TestBackends_DetectSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	m, err := convert.ToModel(demoTree(t, "Demo"))
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	stale := model.ItemTypeEnum()
	stale[200] = "Folder"
	m.ItemTypes = stale

	for _, f := range Formats() {
		b, _ := BackendFor(f)
		path := filepath.Join(t.TempDir(), "Demo"+b.Ext())
		if err := b.Write(ctx, path, m); err != nil {
			t.Fatalf("%s Write: %v", f, err)
		}
		_, err := b.Read(ctx, path)
		var sm *model.SchemaMismatchError
		if !errors.As(err, &sm) || sm.Code != 200 {
			t.Fatalf("%s: expected schema mismatch on code 200, got %v", f, err)
		}
	}
}

func TestSQLiteBackend_EnforcesParentReferences(t *testing.T) {
	m := model.Solution{
		ItemTypes: model.ItemTypeEnum(),
		Nodes: []model.Node{
			{ID: 1, ItemType: model.ItemTypeRoot, DisplayName: "R"},
			{ID: 2, ParentID: model.IDPtr(42), ItemType: model.ItemTypeProject, DisplayName: "P"},
		},
	}
	path := filepath.Join(t.TempDir(), "R.solsqlite")
	err := SQLiteBackend{}.Write(context.Background(), path, m)
	if err == nil {
		t.Fatalf("expected foreign key failure")
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("failed write must not leave a file")
	}
}

func TestXMLBackend_Document(t *testing.T) {
	m, err := convert.ToModel(demoTree(t, "Demo"))
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	path := filepath.Join(t.TempDir(), "Demo.solxml")
	if err := (XMLBackend{}).Write(context.Background(), path, m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, _ := os.ReadFile(path)
	s := string(b)
	for _, want := range []string{`<ItemType id="300" name="Project">`, `name="Folder"`, `name="a.txt"`, `checked="true"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("document missing %q:\n%s", want, s)
		}
	}
	// Indeterminate Folder carries no checked attribute.
	if strings.Contains(s, `name="Folder" checked`) {
		t.Fatalf("indeterminate must be omitted:\n%s", s)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != DefaultFormat {
		t.Fatalf("empty: %v %v", f, err)
	}
	if f, err := ParseFormat(" YAML "); err != nil || f != FormatYAML {
		t.Fatalf("yaml: %v %v", f, err)
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParentFirst(t *testing.T) {
	nodes := []model.Node{
		{ID: 3, ParentID: model.IDPtr(2)},
		{ID: 5, ParentID: model.IDPtr(9)},
		{ID: 2, ParentID: model.IDPtr(1)},
		{ID: 1},
		{ID: 4, ParentID: model.IDPtr(1)},
	}
	got := parentFirst(nodes)
	var ids []int64
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	want := []int64{1, 2, 3, 4, 5}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

// nameTree builds R with two SubTasks whose names differ only in bytes the given
// encoders cannot carry.
func nameTree(t *testing.T, names ...string) *solution.Tree {
	t.Helper()
	tr := solution.NewTree("R")
	if _, err := tr.Root().AddChildren(model.ItemTypeSubTask, names...); err != nil {
		t.Fatalf("add: %v", err)
	}
	return tr
}

func TestDocumentBackends_RejectNamesTheyCannotKeep(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		backend Backend
		names   []string
	}{
		{XMLBackend{}, []string{"a\xfe", "a\xff"}},
		{XMLBackend{}, []string{"a\x01"}},
		{JSONBackend{}, []string{"a\xfe", "a\xff"}},
	}
	for _, tc := range cases {
		s := Store{Dir: t.TempDir(), Backend: tc.backend}
		err := s.Save(ctx, nameTree(t, tc.names...))
		var bad *UnsupportedNameError
		if !errors.As(err, &bad) || !errors.Is(err, ErrUnsupportedName) {
			t.Fatalf("%s %q: expected UnsupportedNameError, got %v", tc.backend.Format(), tc.names, err)
		}
		if s.Exists("R") {
			t.Fatalf("%s: rejected save must not leave a file", tc.backend.Format())
		}
	}
}

func TestBackends_KeepUnusualNames(t *testing.T) {
	ctx := context.Background()
	for _, b := range []Backend{SQLiteBackend{}, YAMLBackend{}, XMLBackend{}, JSONBackend{}} {
		names := []string{"tab\there", "ünïcode ✓", "quote \" & <tag>"}
		if b.Format() == FormatSQLite || b.Format() == FormatYAML {
			names = append(names, "a\xfe", "a\xff")
		}
		tr := nameTree(t, names...)
		s := Store{Dir: t.TempDir(), Backend: b}
		if err := s.Save(ctx, tr); err != nil {
			t.Fatalf("%s: Save: %v", b.Format(), err)
		}
		got, err := s.Open(ctx, "R")
		if err != nil {
			t.Fatalf("%s: Open: %v", b.Format(), err)
		}
		if !solution.Equal(tr, got) {
			t.Fatalf("%s: names changed on the way through", b.Format())
		}
	}
}
