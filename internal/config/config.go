// Package config holds configuration defaults and path utilities.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath  = "database.path"
	KeySearchURL     = "search.url"
	KeySearchTimeout = "search.timeout"
	KeySearchLimit   = "search.limit"
	KeySearchRetries = "search.max_attempts"
	KeySessionTTL    = "sessions.ttl"
)

// SetDefaults registers defaults for every configuration key, so commands
// can read keys without re-stating fallbacks.
func SetDefaults() {
	viper.SetDefault(KeyDatabasePath, "$HOME/.local/share/htscompass/catalog.db")
	viper.SetDefault(KeySearchTimeout, 30*time.Second)
	viper.SetDefault(KeySearchLimit, 200)
	viper.SetDefault(KeySearchRetries, 3)
	viper.SetDefault(KeySessionTTL, time.Hour)
}

// DatabasePath returns the configured catalog database path, expanded.
func DatabasePath() string {
	return ExpandPath(viper.GetString(KeyDatabasePath))
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
