package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/config"
	"github.com/litescript/ls-media-shuttle/internal/location"
)

const testConfig = `
[locations]
internal_movies = "/int/movies"
external_movies = "/ext/movies"
internal_tv = "/int/tv"
external_tv = "/ext/tv"

[delete]
enabled = true

[hook]
enabled = true
label = "Refresh"
command = "refresh-library"

[profile]
dir = "/profile"
`

type fakeHook struct {
	commands []string
}

func (h *fakeHook) Run(_ context.Context, command string) error {
	h.commands = append(h.commands, command)
	return nil
}

type harness struct {
	t       *testing.T
	fs      afero.Fs
	hook    *fakeHook
	cfgPath string
}

func newHarness(t *testing.T, cfg string) *harness {
	t.Helper()
	t.Setenv(config.ProfileEnv, "")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/int/movies", "/ext/movies", "/int/tv", "/ext/tv"} {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
	return &harness{t: t, fs: fs, hook: &fakeHook{}, cfgPath: cfgPath}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(Options{Fs: h.fs, In: strings.NewReader(stdin), Out: &out, Hook: h.hook})
	cmd.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) write(path string) {
	h.t.Helper()
	require.NoError(h.t, h.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(h.t, afero.WriteFile(h.fs, path, []byte("x"), 0644))
}

func (h *harness) exists(path string) bool {
	h.t.Helper()
	ok, err := afero.Exists(h.fs, path)
	require.NoError(h.t, err)
	return ok
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t, testConfig)

	out, err := h.run("", "add", "/int/movies/Film")
	require.NoError(t, err)
	assert.Contains(t, out, "Added for move")

	out, err = h.run("", "add", "--action", "delete", "/ext/tv/Show/e1.mkv")
	require.NoError(t, err)
	assert.Contains(t, out, "Added for delete")

	out, err = h.run("", "add", "/int/movies/Film")
	require.NoError(t, err)
	assert.Contains(t, out, "Item already in batch")

	out, err = h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. Move to External: movies – Film")
	assert.Contains(t, out, " 2. Delete from External: Show – e1.mkv")
}

func TestAdd_Rejections(t *testing.T) {
	h := newHarness(t, testConfig)

	_, err := h.run("", "add", "/tmp/elsewhere")
	assert.ErrorIs(t, err, location.ErrUnknownLocation)

	_, err = h.run("", "add", "--action", "copy", "/int/movies/Film")
	assert.ErrorIs(t, err, batch.ErrInvalidAction)

	out, err := h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Batch list is empty")
}

func TestRemove(t *testing.T) {
	h := newHarness(t, testConfig)
	_, err := h.run("", "add", "/int/movies/Film")
	require.NoError(t, err)

	out, err := h.run("", "remove", "/int/movies/Film")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed item from batch")

	out, err = h.run("", "remove", "/int/movies/Film")
	require.NoError(t, err)
	assert.Contains(t, out, "Not in batch")
}

func TestRun_Yes(t *testing.T) {
	h := newHarness(t, testConfig)
	h.write("/int/movies/Film/film.mkv")
	_, err := h.run("", "add", "/int/movies/Film")
	require.NoError(t, err)

	out, err := h.run("", "run", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "1 done, 0 skipped, 0 failed")
	assert.True(t, h.exists("/ext/movies/Film/film.mkv"))
	assert.False(t, h.exists("/profile/"+batch.LockFileName))
	assert.Empty(t, h.hook.commands)
}

func TestRun_YesWithHook(t *testing.T) {
	h := newHarness(t, testConfig)
	h.write("/int/movies/a.mkv")
	_, err := h.run("", "add", "/int/movies/a.mkv")
	require.NoError(t, err)

	_, err = h.run("", "run", "--yes", "--hook")
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh-library"}, h.hook.commands)
}

func TestRun_Interactive(t *testing.T) {
	h := newHarness(t, testConfig)
	h.write("/int/movies/a.mkv")
	h.write("/ext/movies/a.mkv")
	_, err := h.run("", "add", "/int/movies/a.mkv")
	require.NoError(t, err)

	// process with confirmation, then decline the overwrite
	out, err := h.run("2\nn\n", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Process")
	assert.Contains(t, out, "Overwrite a.mkv?")
	assert.Contains(t, out, "0 done, 1 skipped, 0 failed")
	assert.True(t, h.exists("/int/movies/a.mkv"))
}

func TestRun_EmptyAndCancelled(t *testing.T) {
	h := newHarness(t, testConfig)

	out, err := h.run("", "run", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Batch list is empty")

	_, err = h.run("", "add", "/int/movies/a.mkv")
	require.NoError(t, err)
	_, err = h.run("1\n", "run")
	require.NoError(t, err)

	out, err = h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "a.mkv")
}

func TestStop(t *testing.T) {
	h := newHarness(t, testConfig)

	out, err := h.run("", "stop", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "No batch process running")

	h.write("/profile/" + batch.LockFileName)
	out, err = h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "A batch process is running.")

	_, err = h.run("n\n", "stop")
	require.NoError(t, err)
	assert.True(t, h.exists("/profile/"+batch.LockFileName))

	out, err = h.run("", "stop", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Batch process stopped")
	assert.False(t, h.exists("/profile/"+batch.LockFileName))
}

func TestMoveAndDelete(t *testing.T) {
	h := newHarness(t, testConfig)
	h.write("/int/tv/Show/e1.mkv")
	h.write("/ext/movies/Old/old.mkv")

	out, err := h.run("", "move", "--yes", "/int/tv/Show")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved")
	assert.True(t, h.exists("/ext/tv/Show/e1.mkv"))

	out, err = h.run("y\n", "delete", "/ext/movies/Old")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted folder")
	assert.False(t, h.exists("/ext/movies/Old"))
}

func TestDelete_Disabled(t *testing.T) {
	h := newHarness(t, strings.Replace(testConfig, "enabled = true\n\n[hook]", "enabled = false\n\n[hook]", 1))
	h.write("/int/movies/a.mkv")

	out, err := h.run("", "delete", "--yes", "/int/movies/a.mkv")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleting is disabled in settings.")
	assert.True(t, h.exists("/int/movies/a.mkv"))
}

func TestHookCommand(t *testing.T) {
	h := newHarness(t, testConfig)
	out, err := h.run("", "hook")
	require.NoError(t, err)
	assert.Contains(t, out, "Refresh finished")
	assert.Equal(t, []string{"refresh-library"}, h.hook.commands)

	h = newHarness(t, strings.Replace(testConfig, `command = "refresh-library"`, `command = "  "`, 1))
	_, err = h.run("", "hook")
	assert.ErrorIs(t, err, ErrHookNotConfigured)
}

func TestVersionAndConfigPath(t *testing.T) {
	h := newHarness(t, testConfig)

	out, err := h.run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "media-shuttle v")

	out, err = h.run("", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, h.cfgPath+"\n", out)

	out, err = h.run("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `internal_movies = "/int/movies"`)
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t, testConfig)
	path := filepath.Join(t.TempDir(), "new", "config.toml")
	h.cfgPath = path

	_, err := h.run("", "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = h.run("", "config", "init")
	assert.Error(t, err)
}
