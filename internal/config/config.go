// Package config persists the CLI's non-secret settings as JSON in the
// XDG config dir. The API token never lands here; it lives in the OS
// keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"queryweaver/cli/internal/xdg"
)

// DefaultServer is the hosted QueryWeaver endpoint used when no server
// has been configured.
const DefaultServer = "https://app.queryweaver.ai"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string     `json:"log_level"`
	Server   string     `json:"server"`
	Chat     ChatConfig `json:"chat"`
}

// ChatConfig holds defaults applied to every chat session.
type ChatConfig struct {
	// Database is the target used when a command does not name one.
	Database string `json:"database"`
	// Instructions ride along on every query request when set.
	Instructions string `json:"instructions"`
}

func configPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file. A machine without one gets the defaults:
// hosted server, info logging, and no default database — the user picks
// one with 'queryweaver use'.
func Load() (Config, error) {
	p, err := configPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return Config{LogLevel: "info", Server: DefaultServer}, nil
	}
	if err != nil {
		return Config{}, err
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	if c.Server == "" {
		c.Server = DefaultServer
	}
	return c, nil
}

// Save writes the config file, 0600 since the directory also backs the
// keyring file fallback.
func Save(c Config) error {
	p, err := configPath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
