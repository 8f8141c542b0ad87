package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/config"
	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/location"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
)

type recordingHook struct {
	commands []string
}

func (h *recordingHook) Run(_ context.Context, command string) error {
	h.commands = append(h.commands, command)
	return nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Locations = config.LocationsConfig{
		InternalMovies: "/int/movies",
		ExternalMovies: "/ext/movies",
		InternalTV:     "/int/tv",
		ExternalTV:     "/ext/tv",
	}
	cfg.Delete.Enabled = true
	return cfg
}

func testEngine(t *testing.T, cfg config.Config, ui prompt.UI) Engine {
	t.Helper()

	fs := afero.NewMemMapFs()
	resolver := location.NewResolver(location.Roots{
		InternalMovies: cfg.Locations.InternalMovies,
		ExternalMovies: cfg.Locations.ExternalMovies,
		InternalTV:     cfg.Locations.InternalTV,
		ExternalTV:     cfg.Locations.ExternalTV,
	})
	for _, root := range resolver.Roots() {
		require.NoError(t, fs.MkdirAll(root.Path, 0755))
	}

	queue := batch.NewQueue(fs, "/profile/"+batch.QueueFileName, ui)
	lock := batch.NewRunLock(fs, "/profile")
	mover := fileops.NewMover(fileops.Options{Fs: fs, Resolver: resolver, Dialog: ui, AllowDelete: cfg.Delete.Enabled})
	hook := &recordingHook{}

	return Engine{
		Fs:       fs,
		Resolver: resolver,
		Queue:    queue,
		Lock:     lock,
		Mover:    mover,
		Hook:     hook,
		Runner: batch.NewRunner(batch.Options{
			Queue:       queue,
			Lock:        lock,
			Mover:       mover,
			UI:          ui,
			Hook:        hook,
			HookLabel:   cfg.Hook.Label,
			HookCommand: cfg.Hook.Command,
		}),
	}
}

func writeFile(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(path), 0644))
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and every command it batches, feeding the resulting
// messages back into the model. Spinner ticks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case rowsLoadedMsg, actionDoneMsg, refreshMsg:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func labels(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.label)
	}
	return out
}

func TestModel_MainMenu(t *testing.T) {
	cfg := testConfig()
	m := NewModel(cfg, testEngine(t, cfg, &prompt.Scripted{}))
	assert.Equal(t, []string{"Movies", "TV Shows", "Batch List"}, labels(m.rows))

	cfg.Hook = config.HookConfig{Enabled: true, Label: "Update Plex", Command: "true"}
	m = NewModel(cfg, testEngine(t, cfg, &prompt.Scripted{}))
	assert.Equal(t, []string{"Movies", "TV Shows", "Batch List", "Update Plex"}, labels(m.rows))
	assert.Contains(t, m.View(), "Main Menu")
}

func TestModel_BrowseRootsAndFolders(t *testing.T) {
	cfg := testConfig()
	cfg.Locations.Network = true
	engine := testEngine(t, cfg, &prompt.Scripted{})
	writeFile(t, engine.Fs, "/int/movies/Film (2020)/film.mkv")
	writeFile(t, engine.Fs, "/int/movies/a.nfo")

	m := NewModel(cfg, engine)
	m = press(t, m, keyEnter)
	require.Equal(t, viewRoots, m.mode)
	assert.Equal(t, []string{"Internal Movies", "Network Location Movies"}, labels(m.rows))

	m = press(t, m, keyEnter)
	require.Equal(t, viewFolder, m.mode)
	assert.Equal(t, "/int/movies", m.dir)
	assert.Equal(t, []string{"Film (2020)", "a.nfo"}, labels(m.rows))

	m = press(t, m, keyEnter)
	assert.Equal(t, "/int/movies/Film (2020)", m.dir)
	assert.Equal(t, []string{"film.mkv"}, labels(m.rows))

	m = press(t, m, keyBack)
	assert.Equal(t, "/int/movies", m.dir)
	m = press(t, m, keyBack)
	assert.Equal(t, viewRoots, m.mode)
	m = press(t, m, keyEsc)
	assert.Equal(t, viewMenu, m.mode)
}

func TestModel_QueueFromFolder(t *testing.T) {
	cfg := testConfig()
	ui := &prompt.Scripted{}
	engine := testEngine(t, cfg, ui)
	writeFile(t, engine.Fs, "/int/movies/Film/film.mkv")

	m := NewModel(cfg, engine)
	m = press(t, m, keyEnter, keyEnter)
	require.Equal(t, []string{"Film"}, labels(m.rows))

	m = press(t, m, runes("b"), runes("x"))
	assert.False(t, m.busy)
	assert.Equal(t, []batch.Entry{
		{Path: "/int/movies/Film", Action: batch.ActionMove},
		{Path: "/int/movies/Film", Action: batch.ActionDelete},
	}, engine.Queue.Load())
	assert.Equal(t, []batch.Action{batch.ActionMove, batch.ActionDelete}, m.rows[0].badges)
	assert.Contains(t, m.View(), "[move]")
}

func TestModel_MoveNow(t *testing.T) {
	cfg := testConfig()
	engine := testEngine(t, cfg, &prompt.Scripted{})
	writeFile(t, engine.Fs, "/int/movies/Film/film.mkv")

	m := NewModel(cfg, engine)
	m = press(t, m, keyEnter, keyEnter, runes("m"))

	ok, err := afero.Exists(engine.Fs, "/ext/movies/Film/film.mkv")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, m.rows)
}

func TestModel_FilterNarrowsRows(t *testing.T) {
	cfg := testConfig()
	engine := testEngine(t, cfg, &prompt.Scripted{})
	writeFile(t, engine.Fs, "/int/movies/Alien/a.mkv")
	writeFile(t, engine.Fs, "/int/movies/Heat/h.mkv")

	m := NewModel(cfg, engine)
	m.filter.Cursor.SetMode(cursor.CursorStatic)
	m = press(t, m, keyEnter, keyEnter, runes("/"), runes("h"), runes("e"))
	assert.True(t, m.filtering)
	assert.Equal(t, []string{"Heat"}, labels(m.visibleRows()))

	m = press(t, m, keyEsc)
	assert.False(t, m.filtering)
	assert.Len(t, m.visibleRows(), 2)
}

func TestModel_ProcessBatch(t *testing.T) {
	cfg := testConfig()
	ui := &prompt.Scripted{DefaultChoice: 2}
	engine := testEngine(t, cfg, ui)
	writeFile(t, engine.Fs, "/int/movies/Film/film.mkv")
	_, err := engine.Queue.Add("/int/movies/Film", batch.ActionMove)
	require.NoError(t, err)

	m := NewModel(cfg, engine)
	m = press(t, m, keyDown, keyDown, keyEnter)
	require.Equal(t, viewBatch, m.mode)
	assert.Equal(t, []string{"Move to External: movies – Film"}, labels(m.rows))

	m = press(t, m, runes("p"))
	assert.Empty(t, m.rows)
	assert.Empty(t, engine.Queue.Load())
	assert.Contains(t, m.status, "Batch complete")

	ok, err := afero.Exists(engine.Fs, "/ext/movies/Film/film.mkv")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestModel_RemoveFromBatch(t *testing.T) {
	cfg := testConfig()
	engine := testEngine(t, cfg, &prompt.Scripted{})
	_, err := engine.Queue.Add("/int/movies/Film", batch.ActionDelete)
	require.NoError(t, err)

	m := NewModel(cfg, engine)
	m = press(t, m, keyDown, keyDown, keyEnter, runes("r"))
	assert.Empty(t, engine.Queue.Load())
	assert.Empty(t, m.rows)
}

func TestModel_StopAsksFirst(t *testing.T) {
	cfg := testConfig()
	ui := &prompt.Scripted{Answers: []bool{false, true}}
	engine := testEngine(t, cfg, ui)
	require.NoError(t, engine.Lock.Acquire())

	m := NewModel(cfg, engine)
	m = press(t, m, keyDown, keyDown, keyEnter)
	require.Equal(t, viewBatch, m.mode)

	m = press(t, m, runes("s"))
	assert.Equal(t, []string{"Stop Batch Process: Are you sure you want to stop the batch process?"}, ui.Confirms)
	assert.True(t, engine.Lock.IsHeld())

	press(t, m, runes("s"))
	assert.Len(t, ui.Confirms, 2)
	assert.False(t, engine.Lock.IsHeld())
}

func TestModel_HookFromMenu(t *testing.T) {
	cfg := testConfig()
	cfg.Hook = config.HookConfig{Enabled: true, Label: "Update Plex", Command: "refresh"}
	engine := testEngine(t, cfg, &prompt.Scripted{})

	m := NewModel(cfg, engine)
	m = press(t, m, runes("h"))
	assert.Equal(t, []string{"refresh"}, engine.Hook.(*recordingHook).commands)
	assert.Equal(t, "Update Plex finished", m.status)
}

func TestModel_ConfirmDialog(t *testing.T) {
	cfg := testConfig()
	m := NewModel(cfg, testEngine(t, cfg, &prompt.Scripted{}))

	for k, want := range map[string]bool{"y": true, "n": false} {
		reply := make(chan bool, 1)
		next, _ := m.Update(confirmRequestMsg{title: "Already exists", message: "Overwrite a.mkv?", reply: reply})
		m = next.(Model)
		assert.Contains(t, m.View(), "Overwrite a.mkv?")

		m = press(t, m, runes("q"))
		require.NotNil(t, m.dialog, "other keys leave the dialog open")

		m = press(t, m, runes(k))
		assert.Nil(t, m.dialog)
		assert.Equal(t, want, <-reply)
	}
}

func TestModel_SelectDialog(t *testing.T) {
	cfg := testConfig()
	m := NewModel(cfg, testEngine(t, cfg, &prompt.Scripted{}))
	options := []string{"Cancel", "Process with confirmation", "Yes to All"}

	reply := make(chan selectReply, 1)
	next, _ := m.Update(selectRequestMsg{title: "Batch Process", options: options, reply: reply})
	m = press(t, next.(Model), keyDown, keyDown, keyDown, keyEnter)
	assert.Equal(t, selectReply{index: 2, ok: true}, <-reply)

	next, _ = m.Update(selectRequestMsg{title: "Batch Process", options: options, reply: reply})
	m = press(t, next.(Model), keyEsc)
	assert.Equal(t, selectReply{index: -1, ok: false}, <-reply)
	assert.Nil(t, m.dialog)
}

func TestModel_NotificationShownInStatus(t *testing.T) {
	cfg := testConfig()
	m := NewModel(cfg, testEngine(t, cfg, &prompt.Scripted{}))

	next, _ := m.Update(notifyMsg{title: "Batch", message: "Item already in batch", severity: prompt.SeverityInfo})
	assert.Contains(t, next.(Model).View(), "Item already in batch")
}

func TestBridge_WithoutProgram(t *testing.T) {
	b := newBridge(context.Background())
	assert.False(t, b.Confirm("t", "m"))
	_, ok := b.SelectOne("t", []string{"a"})
	assert.False(t, ok)
	b.Notify("t", "m", prompt.SeverityInfo)
	b.RefreshView()
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "12.0 GB", formatSize(12*1<<30))
}
