package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestLoadConfig_FileThenEnv(t *testing.T) {
	cfgDir := t.TempDir()
	withEnv(t, "SOLUTION_CONFIG_DIR", cfgDir, func() {
		yml := "store:\n  dir: /data/solutions\n  format: xml\nlog:\n  level: info\ntui:\n  glyphs: ascii\n"
		if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(yml), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Store.Dir != "/data/solutions" || cfg.Store.Format != "xml" || cfg.Log.Level != "info" || cfg.TUI.Glyphs != "ascii" {
			t.Fatalf("unexpected config: %+v", cfg)
		}

		withEnv(t, "SOLUTION_STORE_FORMAT", "yaml", func() {
			withEnv(t, "SOLUTION_LOG_LEVEL", "debug", func() {
				cfg, err := LoadConfig()
				if err != nil {
					t.Fatalf("LoadConfig: %v", err)
				}
				if cfg.Store.Format != "yaml" || cfg.Log.Level != "debug" {
					t.Fatalf("env must override file: %+v", cfg)
				}
				if cfg.Store.Dir != "/data/solutions" {
					t.Fatalf("unrelated keys keep file values: %+v", cfg)
				}
			})
		})
	})
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	withEnv(t, "SOLUTION_CONFIG_DIR", t.TempDir(), func() {
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Store.Format != "" || cfg.Store.Dir != "" {
			t.Fatalf("expected empty config, got %+v", cfg)
		}
	})
}

func TestSaveConfig_RoundTripAndConcurrentWriters(t *testing.T) {
	withEnv(t, "SOLUTION_CONFIG_DIR", t.TempDir(), func() {
		seed := &Config{Store: StoreConfig{Format: "json"}}
		if err := SaveConfig(seed); err != nil {
			t.Fatalf("SaveConfig: %v", err)
		}

		var wg sync.WaitGroup
		errCh := make(chan error, 16)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cfg, err := LoadConfig()
				if err != nil {
					errCh <- err
					return
				}
				cfg.TUI.Glyphs = "ascii"
				if err := SaveConfig(cfg); err != nil {
					errCh <- err
				}
			}()
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			t.Errorf("concurrent SaveConfig: %v", err)
		}

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Store.Format != "json" || cfg.TUI.Glyphs != "ascii" {
			t.Fatalf("unexpected config after writers: %+v", cfg)
		}
		path, _ := ConfigPath()
		entries, _ := os.ReadDir(filepath.Dir(path))
		if len(entries) != 1 {
			t.Fatalf("temp files left behind: %d entries", len(entries))
		}
	})
}

func TestDiscoverDir(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, workspaceName)
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(ws, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok := DiscoverDir(deep)
	if !ok || got != ws {
		t.Fatalf("DiscoverDir = %q, %v", got, ok)
	}
}
