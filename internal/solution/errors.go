package solution

import (
	"errors"
	"fmt"

	"solution-cli/internal/model"
)

var (
	ErrDuplicateName   = errors.New("duplicate name")
	ErrInvalidItemType = errors.New("invalid item type")
	ErrNameExhaustion  = errors.New("no free name")
	ErrNotMember       = errors.New("not a member")

	// ErrAttached is returned when adding an item that still belongs to a parent.
	ErrAttached = errors.New("item already has a parent")
	// ErrForeignItem is returned when adding an item that belongs to another tree.
	ErrForeignItem = errors.New("item belongs to another tree")
	// ErrCycle is returned when adding an item below one of its own descendants.
	ErrCycle = errors.New("item cannot be added below itself")
)

// DuplicateNameError is returned when an add or rename would give two siblings the same name.
type DuplicateNameError struct {
	Name   string
	Parent string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an item named %q already exists below %q", e.Name, e.Parent)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// InvalidItemTypeError is returned for child types a parent cannot hold.
type InvalidItemTypeError struct {
	Type   model.ItemType
	Reason string
}

func (e *InvalidItemTypeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid item type %s", e.Type)
	}
	return fmt.Sprintf("invalid item type %s: %s", e.Type, e.Reason)
}

func (e *InvalidItemTypeError) Is(target error) bool { return target == ErrInvalidItemType }

// NameExhaustionError means no free "<template> <n>" name was found within the suffix bound.
type NameExhaustionError struct {
	Template string
	Bound    int
}

func (e *NameExhaustionError) Error() string {
	return fmt.Sprintf("no free name for %q within %d suffixes", e.Template, e.Bound)
}

func (e *NameExhaustionError) Is(target error) bool { return target == ErrNameExhaustion }

// NotMemberError is returned when renaming an item through a collection that does not hold it.
type NotMemberError struct {
	Name   string
	Parent string
}

func (e *NotMemberError) Error() string {
	return fmt.Sprintf("%q is not a child of %q", e.Name, e.Parent)
}

func (e *NotMemberError) Is(target error) bool { return target == ErrNotMember }
