// Package solution holds the live solution tree: items, their sorted child
// collections, tri-state checked propagation and unique name suggestion.
//
// All state of one tree is guarded by a single RWMutex owned by the Tree. Exported
// methods lock; unexported helpers assume the lock is held.
package solution

import (
	"strings"
	"sync"

	"solution-cli/internal/model"
)

type Tree struct {
	mu      sync.RWMutex
	root    *Item
	pending []Event

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewTree creates a tree whose root item is named rootName.
func NewTree(rootName string) *Tree {
	t := &Tree{}
	t.root = newItem(t, nil, model.ItemTypeRoot, rootName)
	return t
}

func (t *Tree) lock() { t.mu.Lock() }

// unlock releases the write lock and then delivers the events queued under it.
func (t *Tree) unlock() {
	evs := t.pending
	t.pending = nil
	t.mu.Unlock()
	t.dispatch(evs)
}

// Root returns the root item. It is nil only for a tree consumed by Replace.
func (t *Tree) Root() *Item {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Name is the display name of the root item.
func (t *Tree) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return ""
	}
	return t.root.name
}

// RenameRoot renames the root item. The root has no siblings, so nothing can collide.
func (t *Tree) RenameRoot(name string) {
	t.lock()
	defer t.unlock()
	if t.root == nil || t.root.name == name {
		return
	}
	old := t.root.name
	t.root.name = name
	t.emit(Event{Kind: Renamed, Item: t.root, OldName: old})
}

// Find resolves a slash separated path of display names. A leading "/" makes the path
// absolute, starting with the root's own name; otherwise it is relative to the root.
// "" and "/" both name the root.
func (t *Tree) Find(path string) (*Item, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return nil, false
	}
	segs, ok := splitPath(t.root.name, path)
	if !ok {
		return nil, false
	}
	cur := t.root
	for _, seg := range segs {
		if cur.children == nil {
			return nil, false
		}
		next, ok := cur.children.byName[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func splitPath(rootName, path string) ([]string, bool) {
	if path == "" || path == "/" {
		return nil, true
	}
	abs := strings.HasPrefix(path, "/")
	var segs []string
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if abs {
		if len(segs) == 0 || segs[0] != rootName {
			return nil, false
		}
		segs = segs[1:]
	}
	return segs, true
}

// Row is a point-in-time copy of one item, produced by Snapshot.
type Row struct {
	Item        *Item
	Depth       int
	Type        model.ItemType
	Name        string
	Path        string
	Checked     CheckState
	Expanded    bool
	Selected    bool
	HasChildren bool
	Placeholder bool
}

// Snapshot copies the tree depth-first in display order. With expandedOnly, children of
// collapsed composites are skipped (the root is always descended into).
func (t *Tree) Snapshot(expandedOnly bool) []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return nil
	}
	var out []Row
	var walk func(it *Item, depth int, prefix string)
	walk = func(it *Item, depth int, prefix string) {
		p := prefix + "/" + it.name
		r := Row{
			Item:     it,
			Depth:    depth,
			Type:     it.itemType,
			Name:     it.name,
			Path:     p,
			Checked:  it.checked,
			Expanded: it.expanded,
			Selected: it.selected,
		}
		if it.children != nil {
			r.HasChildren = it.children.hasChildren()
			r.Placeholder = it.children.placeholder
		}
		out = append(out, r)
		if it.children == nil {
			return
		}
		if expandedOnly && depth > 0 && !it.expanded {
			return
		}
		for _, ch := range it.children.items {
			walk(ch, depth+1, p)
		}
	}
	walk(t.root, 0, "")
	return out
}

// Record is one flattened item as handed to the persistence layer. ParentID is 0 for
// the root.
type Record struct {
	ID       int64
	ParentID int64
	Type     model.ItemType
	Name     string
	Checked  CheckState
}

// Export flattens the tree parent-before-child, assigning fresh ids (above the current
// maximum) to items that have none. It holds the write lock for the whole walk so the
// tree cannot change while it is being serialized.
func (t *Tree) Export() []Record {
	t.lock()
	defer t.unlock()
	if t.root == nil {
		return nil
	}
	var maxID int64
	t.root.walk(func(it *Item) {
		if it.id > maxID {
			maxID = it.id
		}
	})
	var out []Record
	t.root.walk(func(it *Item) {
		if it.id == 0 {
			maxID++
			it.id = maxID
		}
		var pid int64
		if it.parent != nil {
			pid = it.parent.id
		}
		out = append(out, Record{ID: it.id, ParentID: pid, Type: it.itemType, Name: it.name, Checked: it.checked})
	})
	return out
}

// Replace moves src's items into t in one step, as seen by t's readers. src is
// consumed and must not be used afterwards.
func (t *Tree) Replace(src *Tree) {
	if src == t {
		return
	}
	src.mu.Lock()
	root := src.root
	src.root = nil
	src.pending = nil
	src.mu.Unlock()
	if root == nil {
		return
	}

	t.lock()
	defer t.unlock()
	root.walk(func(it *Item) { it.tree = t })
	t.root = root
	t.emit(Event{Kind: Replaced, Item: root})
}

// Len counts all items including the root.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	if t.root != nil {
		t.root.walk(func(*Item) { n++ })
	}
	return n
}
