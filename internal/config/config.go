// Package config handles application configuration via TOML files.
// Configuration is stored at ~/.config/media-shuttle/config.toml and holds
// the four media roots, the deletion gate, the optional post-run hook and
// the profile directory where the batch queue and run lock live.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// ProfileEnv overrides the profile directory when set.
const ProfileEnv = "MEDIA_SHUTTLE_PROFILE"

const appName = "media-shuttle"

// Config holds application configuration
type Config struct {
	Locations LocationsConfig `toml:"locations"`
	Delete    DeleteConfig    `toml:"delete"`
	Hook      HookConfig      `toml:"hook"`
	Profile   ProfileConfig   `toml:"profile"`
	Log       LogConfig       `toml:"log"`
}

// LocationsConfig holds the internal and external media roots.
// Roots are matched as literal string prefixes, so "/mnt/usb" also
// matches "/mnt/usb2/...".
type LocationsConfig struct {
	InternalMovies string `toml:"internal_movies"`
	ExternalMovies string `toml:"external_movies"`
	InternalTV     string `toml:"internal_tv"`
	ExternalTV     string `toml:"external_tv"`

	// Network labels the external tier as a network share instead of USB.
	Network bool `toml:"network"`
}

// DeleteConfig gates every delete operation.
type DeleteConfig struct {
	Enabled bool `toml:"enabled"`
}

// HookConfig describes the command offered after a batch run.
type HookConfig struct {
	Enabled bool          `toml:"enabled"`
	Label   string        `toml:"label"`
	Command string        `toml:"command"`
	Timeout time.Duration `toml:"timeout"`
}

// ProfileConfig holds the writable state directory.
type ProfileConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Delete: DeleteConfig{
			Enabled: false,
		},
		Hook: HookConfig{
			Enabled: false,
			Label:   "Update Library",
			Timeout: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// HookConfigured reports whether the post-run hook can be offered.
// It needs to be enabled and carry both a label and a command.
func (c Config) HookConfigured() bool {
	return c.Hook.Enabled &&
		strings.TrimSpace(c.Hook.Label) != "" &&
		strings.TrimSpace(c.Hook.Command) != ""
}

// ExternalLabel returns the display name of the external tier.
func (c Config) ExternalLabel() string {
	if c.Locations.Network {
		return "Network Location"
	}
	return "External USB"
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, "config.toml")
}

// ProfileDir returns the directory holding the batch queue and run lock.
// MEDIA_SHUTTLE_PROFILE overrides [profile] dir.
func (c Config) ProfileDir() string {
	if dir := os.Getenv(ProfileEnv); dir != "" {
		return dir
	}
	if c.Profile.Dir != "" {
		return c.Profile.Dir
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", appName)
}

// Load reads config from path or returns defaults.
// An empty path means ConfigPath().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// No config file, return defaults
		return cfg, nil
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// Save writes config to path, creating parent directories.
func Save(path string, cfg Config) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureProfileDir creates the profile directory on fs if it doesn't exist
// and returns its path.
func EnsureProfileDir(fs afero.Fs, cfg Config) (string, error) {
	dir := cfg.ProfileDir()
	return dir, fs.MkdirAll(dir, 0755)
}
