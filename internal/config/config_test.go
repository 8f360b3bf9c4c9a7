package config

import (
	"os"
	"path/filepath"
	"testing"

	"tcpchat/internal/protocol"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Address != "127.0.0.1" || cfg.Port != "6000" {
		t.Errorf("default endpoint = %s:%s, want 127.0.0.1:6000", cfg.Address, cfg.Port)
	}
	if cfg.Room != protocol.DefaultRoom {
		t.Errorf("default room = %q, want %q", cfg.Room, protocol.DefaultRoom)
	}
	hostname, err := os.Hostname()
	if err == nil && cfg.Username != hostname {
		t.Errorf("default username = %q, want hostname %q", cfg.Username, hostname)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	body := `
username = "alice"
port = "7000"
remote_color = "Magenta"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Username != "alice" || cfg.Port != "7000" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("unset field lost its default: %+v", cfg)
	}
	if cfg.RemoteColor != "Magenta" {
		t.Errorf("remote_color = %q", cfg.RemoteColor)
	}
}

func TestLoadRejectsUnknownColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(`local_color = "neon"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown color name")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected an error for a missing settings file")
	}
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}
