package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7870 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7870)
	}
	if cfg.Store.Dir == "" {
		t.Error("Store.Dir should default to the data directory")
	}
	if cfg.Telemetry.Prometheus {
		t.Error("Prometheus should default to off")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PETAP_HOME", dir)

	content := `
[api]
host = "0.0.0.0"
port = 9999

[telemetry]
prometheus = true
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 9999)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("Prometheus should be enabled from file")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("PETAP_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("missing file should fall back to defaults")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("PETAP_HOME", t.TempDir())

	want := DefaultConfig()
	want.API.Port = 8123
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.API.Port != 8123 {
		t.Errorf("API.Port = %d, want 8123", got.API.Port)
	}
}
