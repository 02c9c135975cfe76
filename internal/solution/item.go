package solution

import (
	"strings"

	"solution-cli/internal/model"
)

// Item is one node of a solution tree. Composite items (Root, Project, TopTask) own a
// Children collection; SubTask items are leaves. parent is a back reference only: the
// parent's collection owns the item, and removal clears the reference.
type Item struct {
	tree     *Tree
	parent   *Item
	children *Children // nil for leaves

	id       int64
	itemType model.ItemType
	name     string
	checked  CheckState
	expanded bool
	selected bool

	// updating is set while SetChecked runs for this item; nested updates are ignored.
	updating bool
}

func newItem(t *Tree, parent *Item, typ model.ItemType, name string) *Item {
	it := &Item{tree: t, parent: parent, itemType: typ, name: name}
	if typ.IsComposite() {
		it.children = newChildren(it)
	}
	return it
}

// walk visits it and its descendants in pre-order. Callers hold the tree lock.
func (it *Item) walk(fn func(*Item)) {
	fn(it)
	if it.children == nil {
		return
	}
	for _, ch := range it.children.items {
		ch.walk(fn)
	}
}

func (it *Item) Tree() *Tree { return it.tree }

func (it *Item) ID() int64 {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.id
}

// SetID sets the persisted identity. Loaders use it; new items start at 0 and get an id
// on export.
func (it *Item) SetID(id int64) {
	it.tree.lock()
	defer it.tree.unlock()
	it.id = id
}

func (it *Item) Type() model.ItemType { return it.itemType }

// IsComposite reports whether the item can own children.
func (it *Item) IsComposite() bool { return it.children != nil }

func (it *Item) DisplayName() string {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.name
}

func (it *Item) Parent() *Item {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.parent
}

func (it *Item) Checked() CheckState {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.checked
}

func (it *Item) Expanded() bool {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.expanded
}

func (it *Item) Selected() bool {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.selected
}

func (it *Item) SetExpanded(v bool) {
	it.tree.lock()
	defer it.tree.unlock()
	if it.expanded == v {
		return
	}
	it.expanded = v
	it.tree.emit(Event{Kind: ExpandedChanged, Item: it})
}

func (it *Item) SetSelected(v bool) {
	it.tree.lock()
	defer it.tree.unlock()
	it.setSelected(v)
}

func (it *Item) setSelected(v bool) {
	if it.selected == v {
		return
	}
	it.selected = v
	it.tree.emit(Event{Kind: SelectedChanged, Item: it})
}

// Path returns "/<root>/<...>/<name>".
func (it *Item) Path() string {
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.path()
}

func (it *Item) path() string {
	var segs []string
	for cur := it; cur != nil; cur = cur.parent {
		segs = append(segs, cur.name)
	}
	var b strings.Builder
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segs[i])
	}
	return b.String()
}

// Children returns the child collection, or nil for leaves.
func (it *Item) Children() *Children { return it.children }

// HasChildren is true when the item holds real children or the unloaded placeholder.
func (it *Item) HasChildren() bool {
	if it.children == nil {
		return false
	}
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return it.children.hasChildren()
}

// FindChild looks a direct child up by exact name.
func (it *Item) FindChild(name string) (*Item, bool) {
	if it.children == nil {
		return nil, false
	}
	return it.children.TryGet(name)
}

// AddChild creates a child of the given type and inserts it without sorting; call
// SortChildren once after a batch of adds. Root cannot be added as a child.
func (it *Item) AddChild(name string, typ model.ItemType) (*Item, error) {
	if err := it.checkChildType(typ); err != nil {
		return nil, err
	}
	it.tree.lock()
	defer it.tree.unlock()
	ch := newItem(it.tree, it, typ, name)
	if err := it.children.add(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (it *Item) checkChildType(typ model.ItemType) error {
	if it.children == nil {
		return &InvalidItemTypeError{Type: typ, Reason: it.itemType.String() + " items cannot hold children"}
	}
	switch typ {
	case model.ItemTypeSubTask, model.ItemTypeTopTask, model.ItemTypeProject:
		return nil
	case model.ItemTypeRoot:
		return &InvalidItemTypeError{Type: typ, Reason: "the root is created with the tree"}
	default:
		return &InvalidItemTypeError{Type: typ, Reason: "unknown type"}
	}
}

// AddChildren adds a batch of children of one type and sorts once at the end. On a
// duplicate the earlier names of the batch stay added and the error is returned.
func (it *Item) AddChildren(typ model.ItemType, names ...string) ([]*Item, error) {
	if err := it.checkChildType(typ); err != nil {
		return nil, err
	}
	it.tree.lock()
	defer it.tree.unlock()
	out := make([]*Item, 0, len(names))
	var err error
	for _, n := range names {
		ch := newItem(it.tree, it, typ, n)
		if err = it.children.add(ch); err != nil {
			break
		}
		out = append(out, ch)
	}
	it.children.sort()
	return out, err
}

// RemoveChild detaches ch. It reports false when ch is not a child of it.
func (it *Item) RemoveChild(ch *Item) bool {
	if it.children == nil || ch == nil {
		return false
	}
	return it.children.Remove(ch)
}

// RenameChild renames ch and moves it to its sorted position.
func (it *Item) RenameChild(ch *Item, newName string) error {
	if it.children == nil {
		return &NotMemberError{Name: ch.DisplayName(), Parent: it.DisplayName()}
	}
	return it.children.Rename(ch, newName)
}

// SetDisplayName renames the item through its parent's collection so the sibling key
// and the sort order follow. The root, having no siblings, is renamed directly.
func (it *Item) SetDisplayName(name string) error {
	p := it.Parent()
	if p == nil {
		it.tree.lock()
		defer it.tree.unlock()
		if it.name != name {
			old := it.name
			it.name = name
			it.tree.emit(Event{Kind: Renamed, Item: it, OldName: old})
		}
		return nil
	}
	return p.RenameChild(it, name)
}

func (it *Item) SortChildren() {
	if it.children == nil {
		return
	}
	it.children.Sort()
}

// RemoveAllChildren empties the collection, clearing any placeholder.
func (it *Item) RemoveAllChildren() { it.ResetChildren(false) }

// ResetChildren drops all children and, with placeholder set, marks the item as not yet
// loaded. Readers see either the old children or the reset state, never a mix.
func (it *Item) ResetChildren(placeholder bool) {
	if it.children == nil {
		return
	}
	it.tree.lock()
	defer it.tree.unlock()
	it.children.reset(placeholder)
}

// IsLoaded is false while the item holds the unloaded placeholder.
func (it *Item) IsLoaded() bool {
	if it.children == nil {
		return true
	}
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	return !it.children.placeholder
}
