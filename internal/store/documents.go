package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"solution-cli/internal/model"

	"gopkg.in/yaml.v3"
)

// YAMLBackend writes the flat model.Solution as YAML.
type YAMLBackend struct{}

func (YAMLBackend) Format() Format { return FormatYAML }
func (YAMLBackend) Ext() string    { return ".solyaml" }

func (YAMLBackend) Write(_ context.Context, path string, s model.Solution) error {
	s = normalizeDocument(s)
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp", path, b, 0o644)
}

func (YAMLBackend) Read(_ context.Context, path string) (model.Solution, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Solution{}, err
	}
	var s model.Solution
	if err := yaml.Unmarshal(b, &s); err != nil {
		return model.Solution{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return checkDocument(s)
}

// JSONBackend writes the flat model.Solution as indented JSON.
type JSONBackend struct{}

func (JSONBackend) Format() Format { return FormatJSON }
func (JSONBackend) Ext() string    { return ".soljson" }

func (JSONBackend) Write(_ context.Context, path string, s model.Solution) error {
	if err := checkNames(FormatJSON, s.Nodes); err != nil {
		return err
	}
	s = normalizeDocument(s)
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return atomicWriteFile(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp", path, b, 0o644)
}

func (JSONBackend) Read(_ context.Context, path string) (model.Solution, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Solution{}, err
	}
	var s model.Solution
	if err := json.Unmarshal(b, &s); err != nil {
		return model.Solution{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return checkDocument(s)
}

func normalizeDocument(s model.Solution) model.Solution {
	if s.ItemTypes == nil {
		s.ItemTypes = model.ItemTypeEnum()
	}
	s.Nodes = parentFirst(s.Nodes)
	return s
}

func checkDocument(s model.Solution) (model.Solution, error) {
	if err := model.CheckItemTypes(s.ItemTypes); err != nil {
		return model.Solution{}, err
	}
	s.Nodes = parentFirst(s.Nodes)
	return s, nil
}

var ErrUnsupportedName = errors.New("display name cannot be stored")

// UnsupportedNameError is returned before anything is written when a backend's encoder
// would rewrite a display name (invalid UTF-8 becomes U+FFFD), which could turn two
// sibling names into one.
type UnsupportedNameError struct {
	Format Format
	ID     int64
	Name   string
	Reason string
}

func (e *UnsupportedNameError) Error() string {
	return fmt.Sprintf("%s cannot store the name of node %d (%q): %s", e.Format, e.ID, e.Name, e.Reason)
}

func (e *UnsupportedNameError) Is(target error) bool { return target == ErrUnsupportedName }

// checkNames requires valid UTF-8 in every display name. XML further restricts the
// character range.
func checkNames(f Format, nodes []model.Node) error {
	for _, n := range nodes {
		if !utf8.ValidString(n.DisplayName) {
			return &UnsupportedNameError{Format: f, ID: n.ID, Name: n.DisplayName, Reason: "invalid UTF-8"}
		}
		if f != FormatXML {
			continue
		}
		for _, r := range n.DisplayName {
			if !isXMLChar(r) {
				return &UnsupportedNameError{Format: f, ID: n.ID, Name: n.DisplayName, Reason: fmt.Sprintf("character %U is not allowed in XML", r)}
			}
		}
	}
	return nil
}

// isXMLChar is the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	default:
		return r >= 0x10000 && r <= 0x10FFFF
	}
}
