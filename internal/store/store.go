package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"solution-cli/internal/convert"
	"solution-cli/internal/solution"

	"go.uber.org/zap"
)

var (
	ErrInvalidRootName = errors.New("invalid solution name")
	ErrDuplicateRoot   = errors.New("duplicate solution name")
)

// DuplicateRootError is returned by SaveAll when two trees share a root name and
// would map onto the same file.
type DuplicateRootError struct {
	Name string
}

func (e *DuplicateRootError) Error() string {
	return fmt.Sprintf("more than one solution is named %q", e.Name)
}

func (e *DuplicateRootError) Is(target error) bool { return target == ErrDuplicateRoot }

// Store keeps one file per solution in Dir, named after the root item.
type Store struct {
	Dir     string
	Backend Backend
	Log     *zap.Logger
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) backend() Backend {
	if s.Backend == nil {
		return SQLiteBackend{}
	}
	return s.Backend
}

func (s Store) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// ValidateRootName rejects names that cannot be used as a file name.
func ValidateRootName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidRootName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidRootName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidRootName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidRootName, name)
	}
	return nil
}

// Path is the file a solution with the given root name is stored in.
func (s Store) Path(rootName string) string {
	return filepath.Join(s.Dir, rootName+s.backend().Ext())
}

// SaveAll writes every tree. Duplicate or invalid root names are rejected before
// anything is written.
func (s Store) SaveAll(ctx context.Context, trees []*solution.Tree) error {
	seen := map[string]bool{}
	for _, t := range trees {
		name := t.Name()
		if err := ValidateRootName(name); err != nil {
			return err
		}
		if seen[name] {
			err := &DuplicateRootError{Name: name}
			s.log().Warn("store.save.rejected", zap.String("root", name), zap.Error(err))
			return err
		}
		seen[name] = true
	}
	for _, t := range trees {
		if err := s.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Save writes one tree to Path(root name). The file name is taken from the exported
// root node, so a rename racing with the save cannot pair one name with the other
// name's contents.
func (s Store) Save(ctx context.Context, t *solution.Tree) error {
	m, err := convert.ToModel(t)
	if err != nil {
		return err
	}
	root, ok := m.Root()
	if !ok {
		return convert.ErrNoRoot
	}
	name := root.DisplayName
	if err := ValidateRootName(name); err != nil {
		return err
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	path := s.Path(name)
	if err := s.backend().Write(ctx, path, m); err != nil {
		s.log().Error("store.save.failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("save %q: %w", name, err)
	}
	s.log().Debug("store.save", zap.String("path", path), zap.Int("nodes", len(m.Nodes)))
	return nil
}

// Load replaces target's contents with the stored solution. On error target is
// unchanged.
func (s Store) Load(ctx context.Context, name string, target *solution.Tree) error {
	if err := ValidateRootName(name); err != nil {
		return err
	}
	path := s.Path(name)
	m, err := s.backend().Read(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Name: name}
		}
		s.log().Error("store.load.failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("load %q: %w", name, err)
	}
	if err := convert.ToTree(m, target); err != nil {
		s.log().Error("store.load.failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("load %q: %w", name, err)
	}
	if bad := solution.CheckConsistency(target); len(bad) > 0 {
		s.log().Warn("store.load.inconsistent", zap.String("path", path), zap.Int("items", len(bad)))
	}
	return nil
}

// Open loads the named solution into a new tree.
func (s Store) Open(ctx context.Context, name string) (*solution.Tree, error) {
	t := solution.NewTree(name)
	if err := s.Load(ctx, name, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the stored solution names, sorted.
func (s Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	ext := s.backend().Ext()
	var out []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || filepath.Ext(n) != ext {
			continue
		}
		out = append(out, strings.TrimSuffix(n, ext))
	}
	sort.Strings(out)
	return out, nil
}

// LoadAll opens every stored solution in name order.
func (s Store) LoadAll(ctx context.Context) ([]*solution.Tree, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*solution.Tree, 0, len(names))
	for _, n := range names {
		t, err := s.Open(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Delete removes the stored solution.
func (s Store) Delete(_ context.Context, name string) error {
	if err := ValidateRootName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Name: name}
		}
		return err
	}
	s.log().Debug("store.delete", zap.String("root", name))
	return nil
}

// Rename moves a stored solution to a new root name, rewriting the root item.
func (s Store) Rename(ctx context.Context, oldName, newName string) error {
	if err := ValidateRootName(newName); err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if s.Exists(newName) {
		return &DuplicateRootError{Name: newName}
	}
	t, err := s.Open(ctx, oldName)
	if err != nil {
		return err
	}
	t.RenameRoot(newName)
	if err := s.Save(ctx, t); err != nil {
		return err
	}
	return s.Delete(ctx, oldName)
}

// NotFoundError is returned for solutions that have no file in Dir.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("solution not found: %s", e.Name) }

func (e *NotFoundError) Is(target error) bool { return target == os.ErrNotExist }
