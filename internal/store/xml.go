package store

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"solution-cli/internal/model"
)

// XMLBackend writes a nested document mirroring the tree, with the item type table
// in an ItemTypes section.
type XMLBackend struct{}

func (XMLBackend) Format() Format { return FormatXML }
func (XMLBackend) Ext() string    { return ".solxml" }

type xmlSolution struct {
	XMLName   xml.Name      `xml:"Solution"`
	ItemTypes []xmlItemType `xml:"ItemTypes>ItemType"`
	Root      *xmlItem      `xml:"Item"`
}

type xmlItemType struct {
	ID   int64  `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlItem struct {
	ID      int64      `xml:"id,attr"`
	Type    int64      `xml:"type,attr"`
	Name    string     `xml:"name,attr"`
	Checked string     `xml:"checked,attr,omitempty"`
	Items   []*xmlItem `xml:"Item"`
}

func (XMLBackend) Write(_ context.Context, path string, s model.Solution) error {
	if err := checkNames(FormatXML, s.Nodes); err != nil {
		return err
	}
	doc, err := toXML(s)
	if err != nil {
		return err
	}
	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append([]byte(xml.Header), b...)
	b = append(b, '\n')
	return atomicWriteFile(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp", path, b, 0o644)
}

func (XMLBackend) Read(_ context.Context, path string) (model.Solution, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Solution{}, err
	}
	var doc xmlSolution
	if err := xml.Unmarshal(b, &doc); err != nil {
		return model.Solution{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	enum := make(map[int64]string, len(doc.ItemTypes))
	for _, it := range doc.ItemTypes {
		enum[it.ID] = it.Name
	}
	if err := model.CheckItemTypes(enum); err != nil {
		return model.Solution{}, err
	}
	out := model.Solution{ItemTypes: enum}
	if doc.Root == nil {
		return out, nil
	}
	var walk func(it *xmlItem, parent *int64) error
	walk = func(it *xmlItem, parent *int64) error {
		n := model.Node{ID: it.ID, ParentID: parent, ItemType: model.ItemType(it.Type), DisplayName: it.Name}
		if it.Checked != "" {
			v, err := strconv.ParseBool(it.Checked)
			if err != nil {
				return fmt.Errorf("item %d: checked=%q: %w", it.ID, it.Checked, err)
			}
			n.IsChecked = model.BoolPtr(v)
		}
		out.Nodes = append(out.Nodes, n)
		for _, ch := range it.Items {
			if err := walk(ch, model.IDPtr(it.ID)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc.Root, nil); err != nil {
		return model.Solution{}, err
	}
	return out, nil
}

func toXML(s model.Solution) (xmlSolution, error) {
	enum := s.ItemTypes
	if enum == nil {
		enum = model.ItemTypeEnum()
	}
	doc := xmlSolution{}
	for code, name := range enum {
		doc.ItemTypes = append(doc.ItemTypes, xmlItemType{ID: code, Name: name})
	}
	sort.Slice(doc.ItemTypes, func(i, j int) bool { return doc.ItemTypes[i].ID < doc.ItemTypes[j].ID })

	items := map[int64]*xmlItem{}
	for _, n := range parentFirst(s.Nodes) {
		x := &xmlItem{ID: n.ID, Type: int64(n.ItemType), Name: n.DisplayName}
		if n.IsChecked != nil {
			x.Checked = strconv.FormatBool(*n.IsChecked)
		}
		if _, dup := items[n.ID]; dup {
			return xmlSolution{}, fmt.Errorf("duplicate node id %d", n.ID)
		}
		items[n.ID] = x
		if n.ParentID == nil {
			if doc.Root != nil {
				return xmlSolution{}, fmt.Errorf("more than one root node")
			}
			doc.Root = x
			continue
		}
		p, ok := items[*n.ParentID]
		if !ok {
			return xmlSolution{}, fmt.Errorf("node %d: unknown parent %d", n.ID, *n.ParentID)
		}
		p.Items = append(p.Items, x)
	}
	return doc, nil
}
