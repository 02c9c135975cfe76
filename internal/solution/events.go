package solution

// EventKind identifies what changed in a tree.
type EventKind int

const (
	ChildAdded EventKind = iota + 1
	ChildRemoved
	Renamed
	Sorted
	CheckedChanged
	ExpandedChanged
	SelectedChanged
	ChildrenReset
	Replaced
)

func (k EventKind) String() string {
	switch k {
	case ChildAdded:
		return "child.added"
	case ChildRemoved:
		return "child.removed"
	case Renamed:
		return "renamed"
	case Sorted:
		return "sorted"
	case CheckedChanged:
		return "checked.changed"
	case ExpandedChanged:
		return "expanded.changed"
	case SelectedChanged:
		return "selected.changed"
	case ChildrenReset:
		return "children.reset"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the mutation that produced it has released
// the tree lock. Item is the item whose state changed; for ChildAdded and
// ChildRemoved, Parent is the composite whose collection changed.
type Event struct {
	Kind    EventKind
	Item    *Item
	Parent  *Item
	OldName string
}

// Subscribe registers fn for change notifications. The returned func cancels it.
// Listeners run on the mutating goroutine and may read the tree.
func (t *Tree) Subscribe(fn func(Event)) (cancel func()) {
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	if t.subs == nil {
		t.subs = map[int]func(Event){}
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	return func() {
		t.subsMu.Lock()
		delete(t.subs, id)
		t.subsMu.Unlock()
	}
}

// emit queues ev. Callers hold t.mu for writing.
func (t *Tree) emit(ev Event) {
	t.pending = append(t.pending, ev)
}

func (t *Tree) dispatch(evs []Event) {
	if len(evs) == 0 {
		return
	}
	t.subsMu.Lock()
	fns := make([]func(Event), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.subsMu.Unlock()
	for _, ev := range evs {
		for _, fn := range fns {
			fn(ev)
		}
	}
}
