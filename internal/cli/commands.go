package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/config"
	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/location"
	"github.com/litescript/ls-media-shuttle/internal/tui"
	"github.com/litescript/ls-media-shuttle/internal/version"
)

// ErrHookNotConfigured is returned by the hook command.
var ErrHookNotConfigured = errors.New("no hook configured")

// Menu picks used by --yes.
const (
	choiceConfirmAll         = 2
	choiceConfirmAllWithHook = 3
)

func (a *app) runBrowse(cmd *cobra.Command, _ []string) error {
	return tui.Run(cmd.Context(), a.cfg, a.engine)
}

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the browser (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runBrowse,
	}
}

func (a *app) addCmd() *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "add PATH...",
		Short: "Queue paths for the next batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := batch.ParseAction(action)
			if err != nil {
				return err
			}
			e := a.engine(a.ui(cmd, false, 0), nil)
			for _, arg := range args {
				p, err := absPath(arg)
				if err != nil {
					return err
				}
				if e.Resolver.Tier(p) == location.TierUnknown {
					return fmt.Errorf("%s: %w", p, location.ErrUnknownLocation)
				}
				if _, err := e.Queue.Add(p, act); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&action, "action", "a", string(batch.ActionMove), "move or delete")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "remove PATH...",
		Short: "Drop paths from the batch list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := batch.ParseAction(action)
			if err != nil {
				return err
			}
			e := a.engine(a.ui(cmd, false, 0), nil)
			for _, arg := range args {
				p, err := absPath(arg)
				if err != nil {
					return err
				}
				if !e.Queue.Contains(p, act) {
					fmt.Fprintf(cmd.OutOrStdout(), "Not in batch: %s\n", p)
					continue
				}
				if err := e.Queue.Remove(p, act); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&action, "action", "a", string(batch.ActionMove), "move or delete")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the batch list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := a.engine(a.ui(cmd, false, 0), nil)
			out := cmd.OutOrStdout()

			if e.Lock.IsHeld() {
				fmt.Fprintln(out, "A batch process is running.")
			}
			entries := e.Queue.Load()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Batch list is empty")
				return nil
			}
			for i, entry := range entries {
				fmt.Fprintf(out, "%2d. %s\n", i+1, batch.Describe(e.Resolver, entry))
			}
			return nil
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	var yes, withHook bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the batch list",
		Long: `Process the batch list.

Without --yes you are asked how to proceed and, when confirming one by one,
about every conflict. An interrupted run keeps its lock and remaining work;
run again and choose "Stop Batch Process" to clear the lock, then rerun to
resume.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			choice := choiceConfirmAll
			if withHook {
				if a.cfg.HookConfigured() {
					choice = choiceConfirmAllWithHook
				} else {
					fmt.Fprintln(out, "No hook configured, running without it.")
				}
			}

			e := a.engine(a.ui(cmd, yes, choice), nil)
			res, err := e.Runner.Start(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, batch.ErrRunActive) {
				return err
			}

			switch res.Status {
			case batch.StatusCompleted:
				fmt.Fprintf(out, "%d done, %d skipped, %d failed\n", res.Done, res.Skipped, res.Failed)
			case batch.StatusInterrupted:
				fmt.Fprintf(out, "Interrupted after %d of %d. The remaining items are kept.\n",
					res.Done+res.Skipped+res.Failed, res.Total)
			case batch.StatusActive:
				fmt.Fprintln(out, "A batch process is already running.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm everything without asking")
	cmd.Flags().BoolVar(&withHook, "hook", false, "with --yes, run the configured hook afterwards")
	return cmd
}

func (a *app) stopCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Clear the run lock of an active batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.engine(a.ui(cmd, yes, 0), nil).Runner.ConfirmStop()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) moveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "move PATH...",
		Short: "Move items to the other tier right away",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := a.engine(a.ui(cmd, yes, 0), nil)
			mode := fileops.ModeAsk
			if yes {
				mode = fileops.ModeConfirmAll
			}
			for _, arg := range args {
				p, err := absPath(arg)
				if err != nil {
					return err
				}
				_, _ = e.Mover.Move(p, fileops.KindAuto, mode)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite existing destinations without asking")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete PATH...",
		Short: "Delete items right away (needs [delete] enabled)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := a.engine(a.ui(cmd, yes, 0), nil)
			mode := fileops.ModeAsk
			if yes {
				mode = fileops.ModeConfirmAll
			}
			for _, arg := range args {
				p, err := absPath(arg)
				if err != nil {
					return err
				}
				_, _ = e.Mover.Delete(p, fileops.KindAuto, mode)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) hookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Run the configured hook now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.HookConfigured() {
				return ErrHookNotConfigured
			}
			if err := a.hookRunner().Run(cmd.Context(), a.cfg.Hook.Command); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s finished\n", a.cfg.Hook.Label)
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	path := func() string {
		if a.cfgPath != "" {
			return a.cfgPath
		}
		return config.ConfigPath()
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := path()
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			}
			if err := config.Save(p, config.Default()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), path())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(a.cfg)
			},
		},
		initCmd,
	)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "media-shuttle v%s\n", version.Version)
		},
	}
}
