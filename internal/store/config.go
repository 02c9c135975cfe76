package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"solution-cli/internal/logging"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	envPrefix     = "SOLUTION_"
	workspaceName = ".solutions"
)

type Config struct {
	Store StoreConfig    `koanf:"store" json:"store,omitempty" yaml:"store,omitempty"`
	Log   logging.Config `koanf:"log" json:"log,omitempty" yaml:"log,omitempty"`
	TUI   TUIConfig      `koanf:"tui" json:"tui,omitempty" yaml:"tui,omitempty"`
}

type StoreConfig struct {
	// Dir holds one file per solution. Empty means the nearest .solutions directory.
	Dir string `koanf:"dir" json:"dir,omitempty" yaml:"dir,omitempty"`
	// Format is the backend name (sqlite, xml, yaml, json).
	Format string `koanf:"format" json:"format,omitempty" yaml:"format,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `koanf:"glyphs" json:"glyphs,omitempty" yaml:"glyphs,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.solution).
	if v := strings.TrimSpace(os.Getenv("SOLUTION_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".solution"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig reads config.yaml and then overlays SOLUTION_* environment variables:
//
//	SOLUTION_STORE_DIR    -> store.dir
//	SOLUTION_STORE_FORMAT -> store.format
//	SOLUTION_LOG_LEVEL    -> log.level
//	SOLUTION_TUI_GLYPHS   -> tui.glyphs
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// envKey maps SOLUTION_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes cfg as YAML. Environment overrides in effect when cfg was loaded
// are written too.
func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yamlv3.Marshal(cfg)
	if err != nil {
		return err
	}
	// Unique temp name + rename so concurrent CLI and TUI writers never interleave.
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

// DiscoverDir walks up from start looking for a .solutions directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, workspaceName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir is the nearest existing .solutions directory, else ./.solutions.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, workspaceName), nil
}
