package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[locations]
internal_movies = "/int/movies"
external_movies = "/ext/movies"
internal_tv = "/int/tv"
external_tv = "/ext/tv"
network = true

[delete]
enabled = true

[hook]
enabled = true
label = "Update Plex"
command = "curl -s http://plex/refresh"
timeout = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/ext/movies", cfg.Locations.ExternalMovies)
	assert.Equal(t, "/int/tv", cfg.Locations.InternalTV)
	assert.True(t, cfg.Delete.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Hook.Timeout)
	assert.True(t, cfg.HookConfigured())
	assert.Equal(t, "Network Location", cfg.ExternalLabel())
	// untouched sections keep their defaults
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[locations\n"), 0644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Locations.InternalMovies = "/storage/movies"
	cfg.Hook.Command = "true"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestHookConfigured_RequiresLabelAndCommand(t *testing.T) {
	cfg := Default()
	cfg.Hook.Enabled = true
	cfg.Hook.Command = "   "
	assert.False(t, cfg.HookConfigured())

	cfg.Hook.Command = "true"
	cfg.Hook.Label = ""
	assert.False(t, cfg.HookConfigured())

	cfg.Hook.Label = "Scan"
	assert.True(t, cfg.HookConfigured())

	cfg.Hook.Enabled = false
	assert.False(t, cfg.HookConfigured())
}

func TestProfileDir_Precedence(t *testing.T) {
	t.Setenv(ProfileEnv, "/from/env")
	t.Setenv("XDG_STATE_HOME", "/state")

	cfg := Default()
	assert.Equal(t, "/from/env", cfg.ProfileDir())

	cfg.Profile.Dir = "/explicit"
	assert.Equal(t, "/from/env", cfg.ProfileDir())

	t.Setenv(ProfileEnv, "")
	assert.Equal(t, "/explicit", cfg.ProfileDir())

	cfg.Profile.Dir = ""
	assert.Equal(t, filepath.Join("/state", "media-shuttle"), cfg.ProfileDir())
}

func TestEnsureProfileDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := Default()
	cfg.Profile.Dir = "/state/media-shuttle"

	dir, err := EnsureProfileDir(fs, cfg)
	require.NoError(t, err)
	assert.Equal(t, "/state/media-shuttle", dir)

	ok, err := afero.DirExists(fs, dir)
	require.NoError(t, err)
	assert.True(t, ok)
}
