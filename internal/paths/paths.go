package paths

import (
	"os"
	"path/filepath"
)

const appDir = "brt"

// CacheDir returns $XDG_CACHE_HOME/brt (default ~/.cache/brt), creating it
// if needed. The log file lives here.
func CacheDir() (string, error) {
	return ensure("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/brt (default ~/.local/share/brt), creating
// it if needed. The settings database lives here.
func DataDir() (string, error) {
	return ensure("XDG_DATA_HOME", ".local", "share")
}

// ConfigDir returns $XDG_CONFIG_HOME/brt (default ~/.config/brt), creating
// it if needed.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

func ensure(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	// Relative values are invalid per the XDG base directory rules.
	if base == "" || !filepath.IsAbs(base) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
