// Package cli is the media-shuttle command tree. With no subcommand it
// opens the browser; the subcommands drive the same batch engine from a
// shell or a file manager action.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/config"
	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/hook"
	"github.com/litescript/ls-media-shuttle/internal/location"
	"github.com/litescript/ls-media-shuttle/internal/logger"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
	"github.com/litescript/ls-media-shuttle/internal/tui"
	"github.com/litescript/ls-media-shuttle/internal/version"
)

// Options replaces the process defaults, mainly for tests.
type Options struct {
	Fs   afero.Fs
	In   io.Reader
	Out  io.Writer
	Hook batch.Hook
}

type app struct {
	opts Options

	cfgPath string
	debug   bool
	cfg     config.Config
	profile string
}

// Execute runs the command tree against the real process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd(Options{}).ExecuteContext(ctx)
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "media-shuttle",
		Short: "Move media between internal and external storage",
		Long: `media-shuttle moves movie and TV folders between an internal library and
its mirror on external storage, one item at a time or as a queued batch.

Run without a command to open the browser.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runBrowse,
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Out)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default "+config.ConfigPath()+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log at debug level")

	root.AddCommand(
		a.browseCmd(),
		a.addCmd(),
		a.removeCmd(),
		a.listCmd(),
		a.runCmd(),
		a.stopCmd(),
		a.moveCmd(),
		a.deleteCmd(),
		a.hookCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the config and starts logging before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load config: %v\n", err)
	}
	a.cfg = cfg

	profile, err := config.EnsureProfileDir(a.opts.Fs, cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to create profile dir: %v\n", err)
	}
	a.profile = profile

	level := cfg.Log.Level
	if a.debug {
		level = "debug"
	}
	logFile := cfg.Log.File
	if logFile == "" && isBrowse(cmd) {
		// the browser owns the terminal
		logFile = filepath.Join(profile, "media-shuttle.log")
	}
	if err := logger.Init(level, logFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	logger.Debug().Str("config", a.cfgPath).Str("profile", profile).Msg("starting")
	return nil
}

func isBrowse(cmd *cobra.Command) bool {
	return cmd.Name() == "browse" || !cmd.HasParent()
}

func (a *app) resolver() *location.Resolver {
	l := a.cfg.Locations
	return location.NewResolver(location.Roots{
		InternalMovies: l.InternalMovies,
		ExternalMovies: l.ExternalMovies,
		InternalTV:     l.InternalTV,
		ExternalTV:     l.ExternalTV,
	})
}

func (a *app) hookRunner() batch.Hook {
	if a.opts.Hook != nil {
		return a.opts.Hook
	}
	return hook.NewExecutor(a.cfg.Hook.Timeout)
}

// engine wires the batch machinery to ui.
func (a *app) engine(ui prompt.UI, onProgress func(batch.Progress)) tui.Engine {
	fs := a.opts.Fs
	resolver := a.resolver()
	queue := batch.NewQueue(fs, filepath.Join(a.profile, batch.QueueFileName), ui)
	lock := batch.NewRunLock(fs, a.profile)
	mover := fileops.NewMover(fileops.Options{
		Fs:          fs,
		Resolver:    resolver,
		Dialog:      ui,
		AllowDelete: a.cfg.Delete.Enabled,
	})

	var hookLabel, hookCommand string
	if a.cfg.HookConfigured() {
		hookLabel = a.cfg.Hook.Label
		hookCommand = a.cfg.Hook.Command
	}
	h := a.hookRunner()

	return tui.Engine{
		Fs:       fs,
		Resolver: resolver,
		Queue:    queue,
		Lock:     lock,
		Mover:    mover,
		Hook:     h,
		Runner: batch.NewRunner(batch.Options{
			Queue:       queue,
			Lock:        lock,
			Mover:       mover,
			UI:          ui,
			Hook:        h,
			HookLabel:   hookLabel,
			HookCommand: hookCommand,
			OnProgress:  onProgress,
		}),
	}
}

// ui returns the line prompter, or an auto-answering one when yes is set.
// choice is what the auto-answering prompter picks from menus.
func (a *app) ui(cmd *cobra.Command, yes bool, choice int) prompt.UI {
	term := prompt.NewTerminal(a.opts.In, cmd.OutOrStdout())
	if !yes {
		return term
	}
	return &prompt.Scripted{DefaultAnswer: true, DefaultChoice: choice, Echo: term}
}

// absPath cleans a path argument and makes it absolute.
func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
