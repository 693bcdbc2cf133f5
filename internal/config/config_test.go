package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateDir != filepath.Join("/tmp/xdg-state", "epubdoc") {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want warn/text", cfg.Log)
	}
	if cfg.Read.Count != 20 {
		t.Errorf("Read.Count = %d, want 20", cfg.Read.Count)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := "state_dir: /var/lib/epubdoc\nlog:\n  level: debug\n  format: json\nread:\n  count: 5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateDir != "/var/lib/epubdoc" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Read.Count != 5 {
		t.Errorf("Read.Count = %d, want 5", cfg.Read.Count)
	}
}

func TestLoad_DiscoveredFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(dir, "epubdoc.yaml"), []byte("read:\n  count: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Read.Count != 7 {
		t.Errorf("Read.Count = %d, want 7", cfg.Read.Count)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EPUBDOC_LOG_LEVEL", "error")
	t.Setenv("EPUBDOC_STATE_DIR", "/srv/state")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
	if cfg.StateDir != "/srv/state" {
		t.Errorf("StateDir = %q, want /srv/state", cfg.StateDir)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoad_InvalidCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("read:\n  count: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Read.Count != 20 {
		t.Errorf("Read.Count = %d, want default 20", cfg.Read.Count)
	}
}
