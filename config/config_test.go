package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Refresh.Delay.Duration != 1500*time.Millisecond {
		t.Errorf("default delay = %v; want 1.5s", cfg.Refresh.Delay.Duration)
	}
	if cfg.Refresh.Window.Duration != 100*time.Millisecond {
		t.Errorf("default window = %v; want 100ms", cfg.Refresh.Window.Duration)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[providers]
onesecmail_url = "http://localhost:9999/"

[refresh]
delay = "2s"

[storage]
session_dir = "/tmp/tempmail-test"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Providers.OneSecMailURL != "http://localhost:9999/" {
		t.Errorf("onesecmail_url = %q", cfg.Providers.OneSecMailURL)
	}
	if cfg.Refresh.Delay.Duration != 2*time.Second {
		t.Errorf("delay = %v; want 2s", cfg.Refresh.Delay.Duration)
	}
	// Unset fields keep their defaults.
	if cfg.Refresh.Window.Duration != 100*time.Millisecond {
		t.Errorf("window = %v; want default 100ms", cfg.Refresh.Window.Duration)
	}
	if cfg.Storage.SessionDir != "/tmp/tempmail-test" {
		t.Errorf("session_dir = %q", cfg.Storage.SessionDir)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[refresh]\ndelay = \"soon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted an unparsable duration")
	}
}
