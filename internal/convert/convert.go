// Package convert maps between the live solution tree and the flat, persistable
// model.Solution graph.
package convert

import (
	"errors"
	"fmt"
	"sort"

	"solution-cli/internal/model"
	"solution-cli/internal/solution"
)

var (
	ErrNoRoot        = errors.New("solution has no root node")
	ErrMultipleRoots = errors.New("solution has more than one root node")
)

// NodeError describes a node that cannot be placed in the tree.
type NodeError struct {
	ID     int64
	Name   string
	Reason string
	Err    error
}

func (e *NodeError) Error() string {
	msg := fmt.Sprintf("node %d (%q): %s", e.ID, e.Name, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NodeError) Unwrap() error { return e.Err }

// ToModel flattens t parent-before-child. Items without an id receive one above the
// current maximum, written back to the live items so later saves are stable.
func ToModel(t *solution.Tree) (model.Solution, error) {
	if t == nil {
		return model.Solution{}, ErrNoRoot
	}
	// One locked walk: the root name and every record come from the same state.
	recs := t.Export()
	if len(recs) == 0 {
		return model.Solution{}, ErrNoRoot
	}
	out := model.Solution{
		ItemTypes: model.ItemTypeEnum(),
		Nodes:     make([]model.Node, 0, len(recs)),
	}
	for _, r := range recs {
		n := model.Node{
			ID:          r.ID,
			ItemType:    r.Type,
			DisplayName: r.Name,
			IsChecked:   r.Checked.Ptr(),
		}
		if r.Type != model.ItemTypeRoot {
			n.ParentID = model.IDPtr(r.ParentID)
		}
		out.Nodes = append(out.Nodes, n)
	}
	return out, nil
}

// ToTree rebuilds s into a staging tree and, only when that succeeds, swaps it into
// target. On error target is left as it was.
func ToTree(s model.Solution, target *solution.Tree) error {
	staging, err := Build(s)
	if err != nil {
		return err
	}
	target.Replace(staging)
	return nil
}

// Build validates s and returns a new tree holding it. Checked values are restored
// as stored; nothing is propagated.
func Build(s model.Solution) (*solution.Tree, error) {
	if err := model.CheckItemTypes(s.ItemTypes); err != nil {
		return nil, err
	}

	var root *model.Node
	byParent := map[int64][]model.Node{}
	ids := map[int64]model.Node{}
	for i := range s.Nodes {
		n := s.Nodes[i]
		if _, dup := ids[n.ID]; dup {
			return nil, &NodeError{ID: n.ID, Name: n.DisplayName, Reason: "duplicate id"}
		}
		ids[n.ID] = n
		if n.ParentID == nil {
			if root != nil {
				return nil, ErrMultipleRoots
			}
			root = &s.Nodes[i]
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	if root.ItemType != model.ItemTypeRoot {
		return nil, &NodeError{ID: root.ID, Name: root.DisplayName, Reason: "parentless node is not a Root"}
	}
	for pid, kids := range byParent {
		if _, ok := ids[pid]; !ok {
			k := kids[0]
			return nil, &NodeError{ID: k.ID, Name: k.DisplayName, Reason: fmt.Sprintf("unknown parent %d", pid)}
		}
	}

	t := solution.NewTree(root.DisplayName)
	r := t.Root()
	r.SetID(root.ID)
	placed := 1
	if err := attach(r, root.ID, byParent, &placed); err != nil {
		return nil, err
	}
	if placed != len(s.Nodes) {
		// Only nodes on a parent cycle are never reached from the root.
		return nil, &NodeError{Reason: fmt.Sprintf("%d nodes are not reachable from the root", len(s.Nodes)-placed)}
	}
	restore(r, root, ids)
	return t, nil
}

func attach(parent *solution.Item, parentID int64, byParent map[int64][]model.Node, placed *int) error {
	kids := byParent[parentID]
	sort.SliceStable(kids, func(i, j int) bool { return kids[i].ID < kids[j].ID })
	for _, n := range kids {
		if !parent.IsComposite() {
			return &NodeError{ID: n.ID, Name: n.DisplayName, Reason: "parent " + parent.Type().String() + " cannot hold children"}
		}
		ch, err := parent.AddChild(n.DisplayName, n.ItemType)
		if err != nil {
			return &NodeError{ID: n.ID, Name: n.DisplayName, Reason: "cannot add", Err: err}
		}
		ch.SetID(n.ID)
		*placed++
		if err := attach(ch, n.ID, byParent, placed); err != nil {
			return err
		}
	}
	if parent.IsComposite() {
		parent.SortChildren()
	}
	return nil
}

func restore(it *solution.Item, n *model.Node, ids map[int64]model.Node) {
	if it.IsComposite() {
		for _, ch := range it.Children().Items() {
			cn := ids[ch.ID()]
			restore(ch, &cn, ids)
		}
	}
	it.RestoreChecked(solution.CheckStateFromPtr(n.IsChecked))
}
