// Package config resolves the startup settings bundle from defaults and an
// optional TOML settings file. Command-line flags override both; that merge
// happens in main.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"tcpchat/internal/protocol"
)

// Config is the resolved settings bundle consumed at startup.
type Config struct {
	Username    string `toml:"username"`
	Address     string `toml:"address"`
	Port        string `toml:"port"`
	Room        string `toml:"room"`
	LocalColor  string `toml:"local_color"`
	RemoteColor string `toml:"remote_color"`
}

// Default returns the baseline settings: hostname as username, localhost
// relay, white on white colors.
func Default() Config {
	username, err := os.Hostname()
	if err != nil {
		username = ""
	}
	return Config{
		Username:    username,
		Address:     "127.0.0.1",
		Port:        "6000",
		Room:        protocol.DefaultRoom,
		LocalColor:  string(protocol.ColorWhite),
		RemoteColor: string(protocol.ColorWhite),
	}
}

// Load merges the TOML file at path over the defaults. An empty path yields
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the client could not run with, unknown color
// names in particular.
func (c Config) Validate() error {
	if _, err := protocol.ParseColor(c.LocalColor); err != nil {
		return fmt.Errorf("local_color: %w", err)
	}
	if _, err := protocol.ParseColor(c.RemoteColor); err != nil {
		return fmt.Errorf("remote_color: %w", err)
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}
