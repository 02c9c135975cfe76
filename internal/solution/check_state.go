package solution

// CheckState is the tri-state checked flag of an item.
type CheckState int8

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Ptr maps the state onto the nullable bool used by the persisted model (nil = indeterminate).
func (s CheckState) Ptr() *bool {
	switch s {
	case Checked:
		v := true
		return &v
	case Unchecked:
		v := false
		return &v
	default:
		return nil
	}
}

// CheckStateFromPtr is the inverse of Ptr.
func CheckStateFromPtr(b *bool) CheckState {
	if b == nil {
		return Indeterminate
	}
	if *b {
		return Checked
	}
	return Unchecked
}

// ParseCheckState accepts "checked"/"unchecked"/"indeterminate" and true/false spellings.
func ParseCheckState(s string) (CheckState, bool) {
	switch s {
	case "checked", "true", "on", "1", "x":
		return Checked, true
	case "unchecked", "false", "off", "0":
		return Unchecked, true
	case "indeterminate", "partial", "null", "-":
		return Indeterminate, true
	default:
		return Unchecked, false
	}
}

// determineCheckState aggregates children states: Checked iff all are checked,
// Unchecked iff all are unchecked, Indeterminate otherwise. An empty slice yields
// Checked (the degenerate "all" over nothing); callers skip empty composites.
func determineCheckState(children []*Item) CheckState {
	allChecked, allUnchecked := true, true
	for _, ch := range children {
		switch ch.checked {
		case Checked:
			allUnchecked = false
		case Unchecked:
			allChecked = false
		default:
			return Indeterminate
		}
		if !allChecked && !allUnchecked {
			return Indeterminate
		}
	}
	if allChecked {
		return Checked
	}
	return Unchecked
}
