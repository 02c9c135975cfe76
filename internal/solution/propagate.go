package solution

// SetChecked assigns the checked state and propagates it: a Checked/Unchecked composite
// imposes its state on every child, then the parent is recomputed from its children.
// Setting the current value is a no-op.
func (it *Item) SetChecked(v CheckState) {
	it.tree.lock()
	defer it.tree.unlock()
	it.setChecked(v)
}

func (it *Item) setChecked(v CheckState) {
	if it.checked == v {
		return
	}
	// A nested update of an item that is already being updated (the parent reached
	// again through one of its children) is dropped.
	if it.updating {
		return
	}
	it.updating = true
	defer func() { it.updating = false }()

	it.checked = v
	if it.children != nil && len(it.children.items) > 0 && v != Indeterminate {
		for _, ch := range it.children.items {
			ch.setChecked(v)
		}
	}
	if p := it.parent; p != nil && p.children != nil && len(p.children.items) > 0 {
		p.setChecked(determineCheckState(p.children.items))
	}
	it.tree.emit(Event{Kind: CheckedChanged, Item: it})
}

// RestoreChecked stores v without propagating it. Loaders use it to put back persisted
// values that are already consistent.
func (it *Item) RestoreChecked(v CheckState) {
	it.tree.lock()
	defer it.tree.unlock()
	if it.checked == v {
		return
	}
	it.checked = v
	it.tree.emit(Event{Kind: CheckedChanged, Item: it})
}

// DetermineCheckState aggregates the states of the direct children. The second result
// is false for leaves and empty composites, which keep their last explicit value.
func (it *Item) DetermineCheckState() (CheckState, bool) {
	if it.children == nil {
		return it.Checked(), false
	}
	it.tree.mu.RLock()
	defer it.tree.mu.RUnlock()
	if len(it.children.items) == 0 {
		return it.checked, false
	}
	return determineCheckState(it.children.items), true
}

// RefreshCheckState recomputes the item from its children and propagates the result
// upward. Use it after structural changes (add/remove) that SetChecked never sees.
func (it *Item) RefreshCheckState() {
	it.tree.lock()
	defer it.tree.unlock()
	it.refresh()
}

func (it *Item) refresh() {
	if it.children == nil || len(it.children.items) == 0 {
		return
	}
	it.setChecked(determineCheckState(it.children.items))
}
