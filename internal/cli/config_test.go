package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbuehler/facezoom/pkg/errors"
)

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	// Point XDG at an empty directory so no real config is picked up.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := newTestCLI()
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Scale.Factor != 1.2 {
		t.Errorf("Factor = %v, want 1.2", cfg.Scale.Factor)
	}
	if cfg.Scale.DefaultHeight != 180 {
		t.Errorf("DefaultHeight = %d, want 180", cfg.Scale.DefaultHeight)
	}
	if cfg.Registry.Backend != BackendMemory {
		t.Errorf("Backend = %q, want %q", cfg.Registry.Backend, BackendMemory)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[scale]
factor = 1.5
min_height = 80
max_height = 800
default_height = 160
excluded = ["mode-line"]

[registry]
backend = "file"
path = "/tmp/faces.json"
`)

	c := newTestCLI()
	c.configPath = path

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Scale.Factor != 1.5 {
		t.Errorf("Factor = %v, want 1.5", cfg.Scale.Factor)
	}
	if cfg.Scale.MinHeight != 80 || cfg.Scale.MaxHeight != 800 {
		t.Errorf("bounds = [%d, %d], want [80, 800]", cfg.Scale.MinHeight, cfg.Scale.MaxHeight)
	}
	if len(cfg.Scale.Excluded) != 1 || cfg.Scale.Excluded[0] != "mode-line" {
		t.Errorf("Excluded = %v, want [mode-line]", cfg.Scale.Excluded)
	}
	if cfg.Registry.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Registry.Backend, BackendFile)
	}
	if cfg.Registry.Path != "/tmp/faces.json" {
		t.Errorf("Path = %q, want /tmp/faces.json", cfg.Registry.Path)
	}
}

func TestLoadConfigPartialGetsDefaults(t *testing.T) {
	path := writeConfig(t, `
[scale]
factor = 2.0
`)

	c := newTestCLI()
	c.configPath = path

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Scale.Factor != 2.0 {
		t.Errorf("Factor = %v, want 2.0", cfg.Scale.Factor)
	}
	if cfg.Scale.MinHeight != 100 || cfg.Scale.MaxHeight != 1000 {
		t.Errorf("bounds = [%d, %d], want defaults [100, 1000]", cfg.Scale.MinHeight, cfg.Scale.MaxHeight)
	}
	if len(cfg.Scale.Excluded) == 0 {
		t.Error("omitted excluded list should fall back to defaults")
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c := newTestCLI()
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")

	_, err := c.loadConfig()
	if err == nil {
		t.Fatal("loadConfig() should fail for missing explicit path")
	}
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `[scale` + "\n")

	c := newTestCLI()
	c.configPath = path

	_, err := c.loadConfig()
	if err == nil {
		t.Fatal("loadConfig() should fail for malformed TOML")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestLoadConfigInvalidFactor(t *testing.T) {
	path := writeConfig(t, `
[scale]
factor = 0.8
`)

	c := newTestCLI()
	c.configPath = path

	_, err := c.loadConfig()
	if err == nil {
		t.Fatal("loadConfig() should reject factor <= 1")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestNewRegistryUnknownBackend(t *testing.T) {
	c := newTestCLI()

	_, cleanup, err := c.newRegistry(t.Context(), RegistryConfig{Backend: "cassandra"})
	defer cleanup()
	if err == nil {
		t.Fatal("newRegistry() should reject unknown backend")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidBackend {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidBackend)
	}
}

func TestDemoRegistryResolves(t *testing.T) {
	reg := demoRegistry()

	names, err := reg.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) == 0 {
		t.Fatal("demo registry should not be empty")
	}

	// Inherited chrome faces must resolve through their parent.
	parent, ok, err := reg.Parent(t.Context(), "mode-line-inactive")
	if err != nil || !ok {
		t.Fatalf("Parent(mode-line-inactive) = %q, %v, %v", parent, ok, err)
	}
	if parent != "mode-line" {
		t.Errorf("parent = %q, want mode-line", parent)
	}
}
