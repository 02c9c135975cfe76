package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ItemType is the persisted type code of a solution item.
type ItemType int64

const (
	ItemTypeRoot    ItemType = 0
	ItemTypeSubTask ItemType = 100
	ItemTypeTopTask ItemType = 200
	ItemTypeProject ItemType = 300
)

var itemTypeNames = map[ItemType]string{
	ItemTypeRoot:    "Root",
	ItemTypeSubTask: "SubTask",
	ItemTypeTopTask: "TopTask",
	ItemTypeProject: "Project",
}

// ItemTypes lists all known item types in code order.
func ItemTypes() []ItemType {
	return []ItemType{ItemTypeRoot, ItemTypeSubTask, ItemTypeTopTask, ItemTypeProject}
}

func (t ItemType) String() string {
	if n, ok := itemTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ItemType(%d)", int64(t))
}

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	_, ok := itemTypeNames[t]
	return ok
}

// IsComposite reports whether items of this type own children.
func (t ItemType) IsComposite() bool {
	switch t {
	case ItemTypeRoot, ItemTypeTopTask, ItemTypeProject:
		return true
	default:
		return false
	}
}

// ParseItemType accepts type names case-insensitively, plus the folder/file/project
// aliases users tend to type.
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "root", "solution":
		return ItemTypeRoot, true
	case "subtask", "file":
		return ItemTypeSubTask, true
	case "toptask", "folder":
		return ItemTypeTopTask, true
	case "project":
		return ItemTypeProject, true
	default:
		return 0, false
	}
}

// Node is one persisted item. ParentID is nil only for the root;
// IsChecked is nil when the item is indeterminate.
type Node struct {
	ID          int64    `json:"id" yaml:"id"`
	ParentID    *int64   `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	ItemType    ItemType `json:"itemType" yaml:"itemType"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	IsChecked   *bool    `json:"isChecked" yaml:"isChecked"`
}

// Solution is the persistable graph of one tree. Nodes are ordered parent before child.
type Solution struct {
	ItemTypes map[int64]string `json:"itemTypes" yaml:"itemTypes"`
	Nodes     []Node           `json:"nodes" yaml:"nodes"`
}

// Root returns the first node without a parent.
func (s Solution) Root() (Node, bool) {
	for _, n := range s.Nodes {
		if n.ParentID == nil {
			return n, true
		}
	}
	return Node{}, false
}

// ItemTypeEnum returns the live code -> name table written next to every solution.
func ItemTypeEnum() map[int64]string {
	out := make(map[int64]string, len(itemTypeNames))
	for t, n := range itemTypeNames {
		out[int64(t)] = n
	}
	return out
}

var ErrSchemaMismatch = errors.New("item type schema mismatch")

// SchemaMismatchError reports a persisted item type table that disagrees with ItemTypeEnum.
type SchemaMismatchError struct {
	Code     int64
	Expected string
	Got      string
	Missing  bool
}

func (e *SchemaMismatchError) Error() string {
	if e.Missing {
		return fmt.Sprintf("item type schema mismatch: code %d (%s) missing", e.Code, e.Expected)
	}
	return fmt.Sprintf("item type schema mismatch: code %d is %q, expected %q", e.Code, e.Got, e.Expected)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// CheckItemTypes verifies that every live item type is present in got with the same name.
// Extra codes in got are tolerated.
func CheckItemTypes(got map[int64]string) error {
	want := ItemTypeEnum()
	codes := make([]int64, 0, len(want))
	for c := range want {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		name, ok := got[c]
		if !ok {
			return &SchemaMismatchError{Code: c, Expected: want[c], Missing: true}
		}
		if name != want[c] {
			return &SchemaMismatchError{Code: c, Expected: want[c], Got: name}
		}
	}
	return nil
}

// BoolPtr is a small helper for building nodes in code and tests.
func BoolPtr(b bool) *bool { return &b }

// IDPtr is a small helper for building nodes in code and tests.
func IDPtr(id int64) *int64 { return &id }
