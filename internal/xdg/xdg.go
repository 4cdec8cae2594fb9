// Package xdg resolves the XDG Base Directory paths QueryWeaver stores
// its files under, creating them with private permissions on first use
// and falling back to the conventional dotfile locations when the XDG
// environment variables are unset.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "queryweaver"

// ConfigDir returns the per-user config directory
// ($XDG_CONFIG_HOME/queryweaver, defaulting to ~/.config/queryweaver),
// creating it 0700 if missing. The config file and the keyring
// file-backend fallback both live here, hence the private mode.
func ConfigDir() (string, error) {
	return ensureAppDir("XDG_CONFIG_HOME", ".config")
}

func ensureAppDir(envVar string, fallback ...string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
