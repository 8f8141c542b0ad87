// Package tui is the terminal browser: pick a library, walk its folders,
// queue items for the batch or act on them right away, and run the batch.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/config"
	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/location"
	"github.com/litescript/ls-media-shuttle/internal/logger"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
	"github.com/litescript/ls-media-shuttle/internal/theme"
)

type viewMode int

const (
	viewMenu viewMode = iota
	viewRoots
	viewFolder
	viewBatch
)

type menuAction int

const (
	menuMovies menuAction = iota
	menuTV
	menuBatch
	menuHook
)

// row is one selectable line. Which fields are set depends on the view.
type row struct {
	label  string
	path   string
	isDir  bool
	free   string
	badges []batch.Action
	entry  batch.Entry
	action menuAction
	root   location.Root
}

type dialogKind int

const (
	dialogConfirm dialogKind = iota
	dialogSelect
)

type dialog struct {
	kind    dialogKind
	title   string
	message string
	options []string
	cursor  int

	confirmReply chan bool
	selectReply  chan selectReply
}

type rowsLoadedMsg struct {
	mode viewMode
	dir  string
	rows []row
	err  error
}

type actionDoneMsg struct {
	status   string
	severity prompt.Severity
}

// Model is the browser state.
type Model struct {
	cfg    config.Config
	engine Engine
	ctx    context.Context

	styles  theme.Styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	filter  textinput.Model

	mode      viewMode
	filtering bool
	category  location.Category
	root      location.Root
	dir       string
	rows      []row
	cursor    int

	dialog    *dialog
	busy      bool
	busyLabel string
	progress  batch.Progress

	status         string
	statusSeverity prompt.Severity

	width  int
	height int
}

// NewModel creates the browser on the main menu.
func NewModel(cfg config.Config, engine Engine) Model {
	palette, styles := theme.Load()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter"
	fi.CharLimit = 128

	m := Model{
		cfg:     cfg,
		engine:  engine,
		ctx:     context.Background(),
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		filter:  fi,
		mode:    viewMenu,
	}
	m.rows = m.menuRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) menuRows() []row {
	rows := []row{
		{label: location.CategoryMovies.String(), action: menuMovies},
		{label: location.CategoryTV.String(), action: menuTV},
		{label: "Batch List", action: menuBatch},
	}
	if m.cfg.HookConfigured() {
		rows = append(rows, row{label: m.cfg.Hook.Label, action: menuHook})
	}
	return rows
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case rowsLoadedMsg:
		if msg.mode != m.mode || msg.dir != m.dir {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Cannot open %s", filepath.Base(msg.dir)), prompt.SeverityError)
		}
		m.rows = msg.rows
		m.clampCursor()

	case confirmRequestMsg:
		m.dialog = &dialog{kind: dialogConfirm, title: msg.title, message: msg.message, confirmReply: msg.reply}

	case selectRequestMsg:
		m.dialog = &dialog{kind: dialogSelect, title: msg.title, options: msg.options, selectReply: msg.reply}

	case notifyMsg:
		m.setStatus(msg.message, msg.severity)

	case refreshMsg:
		return m, m.reload()

	case progressMsg:
		m.progress = batch.Progress(msg)

	case actionDoneMsg:
		m.busy = false
		m.busyLabel = ""
		m.progress = batch.Progress{}
		if msg.status != "" {
			m.setStatus(msg.status, msg.severity)
		}
		return m, m.reload()

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) setStatus(text string, severity prompt.Severity) {
	m.status = text
	m.statusSeverity = severity
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.dialog != nil {
		return m.handleDialogKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Open):
		return m.open()
	case key.Matches(msg, m.keys.Hook) && (m.mode == viewMenu || m.mode == viewBatch):
		return m.runHook()
	}

	switch m.mode {
	case viewFolder:
		return m.handleFolderKey(msg)
	case viewBatch:
		return m.handleBatchKey(msg)
	}
	return m, nil
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	k := msg.String()

	if d.kind == dialogConfirm {
		switch k {
		case "y", "Y", "enter":
			d.confirmReply <- true
			m.dialog = nil
		case "n", "N", "esc":
			d.confirmReply <- false
			m.dialog = nil
		}
		return m, nil
	}

	switch k {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.options)-1 {
			d.cursor++
		}
	case "enter":
		d.selectReply <- selectReply{index: d.cursor, ok: true}
		m.dialog = nil
	case "esc", "q":
		d.selectReply <- selectReply{index: -1, ok: false}
		m.dialog = nil
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.clampCursor()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m Model) handleFolderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Filter) {
		m.filtering = true
		return m, m.filter.Focus()
	}

	sel, ok := m.selected()
	if !ok {
		return m, nil
	}
	engine := m.engine
	name := filepath.Base(sel.path)

	switch {
	case key.Matches(msg, m.keys.QueueMove):
		return m, m.startAction("Adding "+name, func() actionDoneMsg {
			_, _ = engine.Queue.Add(sel.path, batch.ActionMove)
			return actionDoneMsg{}
		})
	case key.Matches(msg, m.keys.QueueDelete):
		return m, m.startAction("Adding "+name, func() actionDoneMsg {
			_, _ = engine.Queue.Add(sel.path, batch.ActionDelete)
			return actionDoneMsg{}
		})
	case key.Matches(msg, m.keys.MoveNow):
		return m, m.startAction("Moving "+name, func() actionDoneMsg {
			_, _ = engine.Mover.Move(sel.path, fileops.KindAuto, fileops.ModeAsk)
			return actionDoneMsg{}
		})
	case key.Matches(msg, m.keys.DeleteNow):
		return m, m.startAction("Deleting "+name, func() actionDoneMsg {
			_, _ = engine.Mover.Delete(sel.path, fileops.KindAuto, fileops.ModeAsk)
			return actionDoneMsg{}
		})
	}
	return m, nil
}

func (m Model) handleBatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	engine := m.engine
	ctx := m.ctx

	switch {
	case key.Matches(msg, m.keys.Process):
		return m, m.startAction("Processing batch", func() actionDoneMsg {
			res, err := engine.Runner.Start(ctx)
			if err != nil {
				logger.Warn().Err(err).Str("status", res.Status.String()).Msg("batch ended early")
			}
			if res.Status == batch.StatusCompleted {
				return actionDoneMsg{
					status:   fmt.Sprintf("Batch complete: %d done, %d skipped, %d failed", res.Done, res.Skipped, res.Failed),
					severity: prompt.SeverityInfo,
				}
			}
			return actionDoneMsg{}
		})
	case key.Matches(msg, m.keys.Stop):
		return m, m.startAction("Stopping", func() actionDoneMsg {
			engine.Runner.ConfirmStop()
			return actionDoneMsg{}
		})
	case key.Matches(msg, m.keys.Remove):
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.startAction("Removing", func() actionDoneMsg {
			_ = engine.Queue.Remove(sel.entry.Path, sel.entry.Action)
			return actionDoneMsg{}
		})
	}
	return m, nil
}

func (m Model) open() (tea.Model, tea.Cmd) {
	sel, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch m.mode {
	case viewMenu:
		switch sel.action {
		case menuMovies, menuTV:
			m.category = location.CategoryMovies
			if sel.action == menuTV {
				m.category = location.CategoryTV
			}
			return m.enter(viewRoots, "")
		case menuBatch:
			return m.enter(viewBatch, "")
		case menuHook:
			return m.runHook()
		}
	case viewRoots:
		m.root = sel.root
		return m.enter(viewFolder, sel.root.Path)
	case viewFolder:
		if sel.isDir {
			return m.enter(viewFolder, sel.path)
		}
	}
	return m, nil
}

func (m Model) back() (tea.Model, tea.Cmd) {
	switch m.mode {
	case viewFolder:
		if m.dir == m.root.Path || !strings.HasPrefix(m.dir, m.root.Path) {
			return m.enter(viewRoots, "")
		}
		return m.enter(viewFolder, filepath.Dir(m.dir))
	case viewRoots, viewBatch:
		m.mode = viewMenu
		m.dir = ""
		m.rows = m.menuRows()
		m.cursor = 0
	}
	return m, nil
}

func (m Model) enter(mode viewMode, dir string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.dir = dir
	m.rows = nil
	m.cursor = 0
	m.filter.SetValue("")
	return m, m.reload()
}

// reload re-reads the rows of the current view off the event loop.
func (m Model) reload() tea.Cmd {
	engine := m.engine
	mode, dir, category := m.mode, m.dir, m.category

	switch mode {
	case viewRoots:
		externalLabel := m.cfg.ExternalLabel()
		return func() tea.Msg {
			return rowsLoadedMsg{mode: mode, dir: dir, rows: rootRows(engine.Resolver, category, externalLabel)}
		}
	case viewFolder:
		return func() tea.Msg {
			rows, err := folderRows(engine.Fs, engine.Queue, dir)
			return rowsLoadedMsg{mode: mode, dir: dir, rows: rows, err: err}
		}
	case viewBatch:
		return func() tea.Msg {
			return rowsLoadedMsg{mode: mode, dir: dir, rows: batchRows(engine.Resolver, engine.Queue)}
		}
	}
	return nil
}

func (m *Model) startAction(label string, fn func() actionDoneMsg) tea.Cmd {
	m.busy = true
	m.busyLabel = label
	m.progress = batch.Progress{}
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return fn() })
}

func (m Model) runHook() (tea.Model, tea.Cmd) {
	if !m.cfg.HookConfigured() || m.engine.Hook == nil {
		return m, nil
	}
	hook := m.engine.Hook
	ctx := m.ctx
	label := strings.TrimSpace(m.cfg.Hook.Label)
	command := m.cfg.Hook.Command

	cmd := m.startAction(label, func() actionDoneMsg {
		if err := hook.Run(ctx, command); err != nil {
			logger.Warn().Err(err).Msg("hook failed")
			return actionDoneMsg{status: label + " failed", severity: prompt.SeverityError}
		}
		return actionDoneMsg{status: label + " finished", severity: prompt.SeverityInfo}
	})
	return m, cmd
}

func (m Model) visibleRows() []row {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if m.mode != viewFolder || needle == "" {
		return m.rows
	}
	var out []row
	for _, r := range m.rows {
		if strings.Contains(strings.ToLower(r.label), needle) {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) selected() (row, bool) {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func rootRows(r *location.Resolver, category location.Category, externalLabel string) []row {
	var rows []row
	for _, root := range r.Roots() {
		if root.Category != category {
			continue
		}
		tier := root.Tier.String()
		if root.Tier == location.TierExternal {
			tier = externalLabel
		}
		rows = append(rows, row{
			label: fmt.Sprintf("%s %s", tier, category),
			path:  root.Path,
			isDir: true,
			free:  freeLabel(root.Path),
			root:  root,
		})
	}
	return rows
}

func folderRows(fs afero.Fs, q *batch.Queue, dir string) ([]row, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	queued := make(map[string][]batch.Action)
	for _, e := range q.Load() {
		queued[e.Path] = append(queued[e.Path], e.Action)
	}

	rows := make([]row, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") {
			continue
		}
		p := filepath.Join(dir, info.Name())
		rows = append(rows, row{
			label:  info.Name(),
			path:   p,
			isDir:  info.IsDir(),
			badges: queued[p],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].isDir && !rows[j].isDir
	})
	return rows, nil
}

func batchRows(r *location.Resolver, q *batch.Queue) []row {
	entries := q.Load()
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{label: batch.Describe(r, e), path: e.Path, entry: e})
	}
	return rows
}
