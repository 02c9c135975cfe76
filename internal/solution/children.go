package solution

import (
	"iter"
	"slices"
	"strings"

	"solution-cli/internal/model"
)

// Children is the name-keyed, sorted child collection of a composite item.
//
// Sort order: Project, then TopTask, then SubTask; within a type, case-sensitive
// byte-wise name order. Sorting is stable.
type Children struct {
	owner  *Item
	items  []*Item
	byName map[string]*Item

	// placeholder marks an unloaded composite. It is a flag, not a shared sentinel item.
	placeholder bool
}

func newChildren(owner *Item) *Children {
	return &Children{owner: owner, byName: map[string]*Item{}}
}

func (c *Children) tree() *Tree { return c.owner.tree }

func (c *Children) hasChildren() bool { return c.placeholder || len(c.items) > 0 }

// TryGet looks a child up by exact display name.
func (c *Children) TryGet(name string) (*Item, bool) {
	c.tree().mu.RLock()
	defer c.tree().mu.RUnlock()
	it, ok := c.byName[name]
	return it, ok
}

func (c *Children) Len() int {
	c.tree().mu.RLock()
	defer c.tree().mu.RUnlock()
	return len(c.items)
}

// At returns the i-th child in the current order.
func (c *Children) At(i int) *Item {
	c.tree().mu.RLock()
	defer c.tree().mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// IndexOf returns the position of it, or -1.
func (c *Children) IndexOf(it *Item) int {
	c.tree().mu.RLock()
	defer c.tree().mu.RUnlock()
	return slices.Index(c.items, it)
}

// Items returns a copy of the children in the current order.
func (c *Children) Items() []*Item {
	c.tree().mu.RLock()
	defer c.tree().mu.RUnlock()
	return slices.Clone(c.items)
}

// All iterates over a copy taken when iteration starts.
func (c *Children) All() iter.Seq2[int, *Item] {
	return slices.All(c.Items())
}

// Add inserts a detached item of the same tree (for example one removed from another
// parent). It does not sort.
func (c *Children) Add(it *Item) error {
	if it == nil {
		return nil
	}
	if it.itemType == model.ItemTypeRoot {
		return &InvalidItemTypeError{Type: it.itemType, Reason: "the root is created with the tree"}
	}
	t := c.tree()
	t.lock()
	defer t.unlock()
	if it.tree != t {
		return ErrForeignItem
	}
	if it.parent != nil {
		return ErrAttached
	}
	for cur := c.owner; cur != nil; cur = cur.parent {
		if cur == it {
			return ErrCycle
		}
	}
	return c.add(it)
}

// add is check-then-commit: on a duplicate nothing changes.
func (c *Children) add(it *Item) error {
	if _, ok := c.byName[it.name]; ok {
		return &DuplicateNameError{Name: it.name, Parent: c.owner.name}
	}
	if c.placeholder {
		c.placeholder = false
	}
	it.parent = c.owner
	c.items = append(c.items, it)
	c.byName[it.name] = it
	c.tree().emit(Event{Kind: ChildAdded, Item: it, Parent: c.owner})
	return nil
}

// Remove detaches it by identity. When it was selected, the previous sibling in sorted
// order becomes selected, or the owner when it was first.
func (c *Children) Remove(it *Item) bool {
	if it == nil {
		return false
	}
	t := c.tree()
	t.lock()
	defer t.unlock()
	return c.remove(it)
}

func (c *Children) remove(it *Item) bool {
	idx := slices.Index(c.items, it)
	if idx < 0 {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	if c.byName[it.name] == it {
		delete(c.byName, it.name)
	}
	it.parent = nil
	c.tree().emit(Event{Kind: ChildRemoved, Item: it, Parent: c.owner})

	if it.selected {
		it.setSelected(false)
		if idx == 0 {
			c.owner.setSelected(true)
		} else {
			c.items[idx-1].setSelected(true)
		}
	}
	return true
}

// Rename changes the key of a member and re-sorts so it lands at its sorted position.
func (c *Children) Rename(it *Item, newName string) error {
	if it == nil {
		return nil
	}
	t := c.tree()
	t.lock()
	defer t.unlock()
	return c.rename(it, newName)
}

func (c *Children) rename(it *Item, newName string) error {
	if !slices.Contains(c.items, it) {
		return &NotMemberError{Name: it.name, Parent: c.owner.name}
	}
	if it.name == newName {
		return nil
	}
	if other, ok := c.byName[newName]; ok && other != it {
		return &DuplicateNameError{Name: newName, Parent: c.owner.name}
	}
	old := it.name
	delete(c.byName, old)
	it.name = newName
	c.byName[newName] = it
	c.tree().emit(Event{Kind: Renamed, Item: it, OldName: old})
	c.sort()
	return nil
}

// Sort re-orders the children into display order.
func (c *Children) Sort() {
	t := c.tree()
	t.lock()
	defer t.unlock()
	c.sort()
}

func (c *Children) sort() {
	slices.SortStableFunc(c.items, compareItems)
	c.tree().emit(Event{Kind: Sorted, Item: c.owner})
}

func (c *Children) reset(placeholder bool) {
	for _, it := range c.items {
		it.parent = nil
	}
	c.items = nil
	c.byName = map[string]*Item{}
	c.placeholder = placeholder
	c.tree().emit(Event{Kind: ChildrenReset, Item: c.owner})
}

func compareItems(a, b *Item) int {
	if ra, rb := typeRank(a.itemType), typeRank(b.itemType); ra != rb {
		return ra - rb
	}
	return strings.Compare(a.name, b.name)
}

func typeRank(t model.ItemType) int {
	switch t {
	case model.ItemTypeProject:
		return 0
	case model.ItemTypeTopTask:
		return 1
	case model.ItemTypeSubTask:
		return 2
	default:
		return 3
	}
}
