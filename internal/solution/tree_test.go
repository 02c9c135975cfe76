package solution

import (
	"sync"
	"testing"

	"solution-cli/internal/model"

	"github.com/stretchr/testify/require"
)

func TestTree_FindAndPath(t *testing.T) {
	tr, p, folder, a, _ := buildPFolder(t)

	for _, path := range []string{"", "/"} {
		got, ok := tr.Find(path)
		require.True(t, ok)
		require.Same(t, tr.Root(), got)
	}
	got, ok := tr.Find("/Root/P/Folder/A")
	require.True(t, ok)
	require.Same(t, a, got)
	got, ok = tr.Find("P/Folder")
	require.True(t, ok)
	require.Same(t, folder, got)
	got, ok = tr.Find("P/")
	require.True(t, ok)
	require.Same(t, p, got)

	_, ok = tr.Find("/Other/P")
	require.False(t, ok)
	_, ok = tr.Find("P/Folder/A/deeper")
	require.False(t, ok)
	_, ok = tr.Find("p")
	require.False(t, ok)

	require.Equal(t, "/Root/P/Folder/A", a.Path())
	require.Equal(t, "/Root", tr.Root().Path())

	tr.RenameRoot("Renamed")
	require.Equal(t, "/Renamed/P/Folder/A", a.Path())
	require.Equal(t, 5, tr.Len())
}

func TestTree_SnapshotRespectsExpansion(t *testing.T) {
	tr, p, folder, _, _ := buildPFolder(t)

	rows := tr.Snapshot(true)
	require.Len(t, rows, 2) // root always descended into, P collapsed
	require.Equal(t, "/Root/P", rows[1].Path)
	require.True(t, rows[1].HasChildren)

	p.SetExpanded(true)
	folder.SetExpanded(true)
	rows = tr.Snapshot(true)
	require.Len(t, rows, 5)
	require.Equal(t, 3, rows[3].Depth)
	require.Equal(t, "A", rows[3].Name)

	require.Len(t, tr.Snapshot(false), 5)
}

func TestTree_ExportAssignsIDsParentFirst(t *testing.T) {
	tr, p, _, a, _ := buildPFolder(t)
	p.SetID(10)

	recs := tr.Export()
	require.Len(t, recs, 5)
	require.Equal(t, model.ItemTypeRoot, recs[0].Type)
	require.EqualValues(t, 0, recs[0].ParentID)

	pos := map[int64]int{}
	for i, r := range recs {
		require.NotZero(t, r.ID)
		_, dup := pos[r.ID]
		require.False(t, dup, "duplicate id %d", r.ID)
		pos[r.ID] = i
		if i > 0 {
			at, ok := pos[r.ParentID]
			require.True(t, ok, "parent of %s exported later", r.Name)
			require.Less(t, at, i)
		}
	}
	require.EqualValues(t, 10, recs[1].ID)
	require.Greater(t, recs[0].ID, int64(10))

	// Ids stick.
	id := a.ID()
	require.Equal(t, recs, tr.Export())
	require.Equal(t, id, a.ID())
}

func TestTree_EventsDeliveredAfterUnlock(t *testing.T) {
	tr := NewTree("Root")
	var got []EventKind
	var lens []int
	cancel := tr.Subscribe(func(ev Event) {
		got = append(got, ev.Kind)
		lens = append(lens, tr.Len()) // would deadlock if delivered under the lock
	})

	p, err := tr.Root().AddChild("P", model.ItemTypeProject)
	require.NoError(t, err)
	require.NoError(t, p.SetDisplayName("Q"))
	p.SetChecked(Checked)
	require.True(t, tr.Root().RemoveChild(p))

	require.Equal(t, []EventKind{ChildAdded, Renamed, Sorted, CheckedChanged, CheckedChanged, ChildRemoved}, got)
	require.Equal(t, []int{2, 2, 2, 2, 2, 1}, lens)

	cancel()
	tr.RenameRoot("X")
	require.Len(t, got, 6)
}

func TestTree_ReplaceMovesItems(t *testing.T) {
	target := NewTree("Old")
	var replaced bool
	target.Subscribe(func(ev Event) {
		if ev.Kind == Replaced {
			replaced = true
		}
	})

	src, _, _, a, _ := buildPFolder(t)
	target.Replace(src)

	require.True(t, replaced)
	require.Equal(t, "Root", target.Name())
	require.Same(t, target, a.Tree())
	require.Nil(t, src.Root())
	require.Equal(t, 5, target.Len())

	// Items now lock the target tree.
	a.SetChecked(Checked)
	got, ok := target.Find("P/Folder")
	require.True(t, ok)
	require.Equal(t, Indeterminate, got.Checked())
}

func TestEqual(t *testing.T) {
	x, _, _, xa, _ := buildPFolder(t)
	y, _, _, ya, _ := buildPFolder(t)
	require.True(t, Equal(x, y))

	xa.SetChecked(Checked)
	require.False(t, Equal(x, y))
	ya.SetChecked(Checked)
	require.True(t, Equal(x, y))

	xa.SetID(99)
	xa.SetSelected(true)
	require.True(t, Equal(x, y))

	require.NoError(t, ya.SetDisplayName("C"))
	require.False(t, Equal(x, y))
}

func TestTree_ConcurrentReadersAndWriters(t *testing.T) {
	tr := NewTree("Root")
	root := tr.Root()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				n, err := root.SuggestNextChildName(model.ItemTypeSubTask)
				if err != nil {
					continue
				}
				if it, err := root.AddChild(n, model.ItemTypeSubTask); err == nil {
					it.SetChecked(Checked)
				}
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = tr.Snapshot(false)
				_ = tr.Export()
			}
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, it := range root.Children().Items() {
		require.False(t, seen[it.DisplayName()])
		seen[it.DisplayName()] = true
	}
	require.Equal(t, Checked, root.Checked())
}
