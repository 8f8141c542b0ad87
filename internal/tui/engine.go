package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/config"
	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/location"
	"github.com/litescript/ls-media-shuttle/internal/logger"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
)

// Engine is the batch machinery the browser drives.
type Engine struct {
	Fs       afero.Fs
	Resolver *location.Resolver
	Queue    *batch.Queue
	Lock     *batch.RunLock
	Mover    *fileops.Mover
	Runner   *batch.Runner
	Hook     batch.Hook
}

// BuildFunc wires an Engine to the given prompt implementation.
// onProgress may be nil.
type BuildFunc func(ui prompt.UI, onProgress func(batch.Progress)) Engine

// Run starts the browser and blocks until it exits.
func Run(ctx context.Context, cfg config.Config, build BuildFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := newBridge(ctx)
	engine := build(bridge, bridge.progress)

	m := NewModel(cfg, engine)
	m.ctx = ctx

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.attach(p)

	w, err := batch.NewWatcher(func() { p.Send(refreshMsg{}) }, engine.Queue.Path(), engine.Lock.Path())
	if err != nil {
		logger.Warn().Err(err).Msg("queue watcher unavailable")
	} else {
		defer w.Stop()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
