package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/litescript/ls-media-shuttle/internal/fileops"
	"github.com/litescript/ls-media-shuttle/internal/logger"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
)

// Menu labels offered before a run.
const (
	optionCancel     = "Cancel"
	optionConfirm    = "Process with confirmation"
	optionConfirmAll = "Yes to All"
	optionContinue   = "Continue"
	optionStop       = "Stop Batch Process"
)

// Hook runs the operator-configured post-run command.
type Hook interface {
	Run(ctx context.Context, command string) error
}

// Status is how a call to Start ended.
type Status int

const (
	StatusEmpty       Status = iota // nothing queued
	StatusCancelled                 // user cancelled at the menu
	StatusActive                    // a run lock exists and was left alone
	StatusStopped                   // the run lock was cleared
	StatusInterrupted               // context cancelled mid-run; lock and checkpoint kept
	StatusCompleted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusCancelled:
		return "cancelled"
	case StatusActive:
		return "active"
	case StatusStopped:
		return "stopped"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "completed"
	}
}

// Progress is reported before each operation runs.
type Progress struct {
	Index int // 1-based
	Total int
	Name  string
	Op    Operation
}

// Result summarises a call to Start.
type Result struct {
	Status  Status
	RunID   string
	Total   int
	Done    int
	Skipped int
	Failed  int
	HookRan bool
}

// Options configures a Runner.
type Options struct {
	Queue *Queue
	Lock  *RunLock
	Mover *fileops.Mover
	UI    prompt.UI

	// Hook is offered only when HookLabel and HookCommand are both set.
	Hook        Hook
	HookLabel   string
	HookCommand string

	OnProgress func(Progress)
}

// Runner drives a batch from the queue through the mover.
type Runner struct {
	queue       *Queue
	lock        *RunLock
	mover       *fileops.Mover
	ui          prompt.UI
	hook        Hook
	hookLabel   string
	hookCommand string
	onProgress  func(Progress)
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	return &Runner{
		queue:       opts.Queue,
		lock:        opts.Lock,
		mover:       opts.Mover,
		ui:          opts.UI,
		hook:        opts.Hook,
		hookLabel:   strings.TrimSpace(opts.HookLabel),
		hookCommand: strings.TrimSpace(opts.HookCommand),
		onProgress:  opts.OnProgress,
	}
}

func (r *Runner) hookConfigured() bool {
	return r.hook != nil && r.hookLabel != "" && r.hookCommand != ""
}

// Start runs the queued batch.
//
// If a run lock already exists the user may leave it or stop it; nothing
// else is touched. Otherwise the user picks between confirming each
// conflict, confirming all, and (when a hook is configured) confirming all
// and running the hook afterwards.
func (r *Runner) Start(ctx context.Context) (Result, error) {
	if r.lock.IsHeld() {
		return r.resolveActive(), nil
	}

	entries := r.queue.Load()
	if len(entries) == 0 {
		r.ui.Notify("Batch", "Batch list is empty", prompt.SeverityInfo)
		return Result{Status: StatusEmpty}, nil
	}

	opts := []string{optionCancel, optionConfirm, optionConfirmAll}
	withHook := r.hookConfigured()
	if withHook {
		opts = append(opts, fmt.Sprintf("%s and %s", optionConfirmAll, r.hookLabel))
	}
	choice, ok := r.ui.SelectOne("Batch Process", opts)
	if !ok || choice == 0 {
		return Result{Status: StatusCancelled}, nil
	}

	mode := fileops.ModeAsk
	if choice >= 2 {
		mode = fileops.ModeConfirmAll
	}
	runHook := withHook && choice == 3

	return r.run(ctx, entries, mode, runHook)
}

// resolveActive handles Start while a lock exists.
func (r *Runner) resolveActive() Result {
	choice, ok := r.ui.SelectOne("Batch Process", []string{optionContinue, optionStop})
	if !ok || choice != 1 {
		return Result{Status: StatusActive}
	}
	if r.ConfirmStop() {
		return Result{Status: StatusStopped}
	}
	return Result{Status: StatusActive}
}

// ConfirmStop asks before clearing a held run lock and reports whether it
// was cleared. Without a lock it behaves like Stop.
func (r *Runner) ConfirmStop() bool {
	if r.lock.IsHeld() && !r.ui.Confirm(optionStop, "Are you sure you want to stop the batch process?") {
		return false
	}
	return r.Stop()
}

// Stop clears the run lock. The queue is left as is so it can be resumed.
// It reports whether a lock was cleared.
func (r *Runner) Stop() bool {
	if !r.lock.IsHeld() {
		r.ui.Notify("Batch", "No batch process running", prompt.SeverityInfo)
		return false
	}
	if err := r.lock.Release(); err != nil {
		logger.Error().Err(err).Str("path", r.lock.Path()).Msg("release run lock")
		r.ui.Notify("Batch", "Could not stop batch process", prompt.SeverityError)
		return false
	}
	logger.Info().Msg("batch process stopped")
	r.ui.Notify("Batch", "Batch process stopped", prompt.SeverityInfo)
	return true
}

func (r *Runner) run(ctx context.Context, entries []Entry, mode fileops.Mode, runHook bool) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := logger.Get().With().Str("run_id", res.RunID).Logger()

	locked := true
	if err := r.lock.Acquire(); err != nil {
		if errors.Is(err, ErrRunActive) {
			r.ui.Notify("Batch", "Batch process already running", prompt.SeverityWarning)
			res.Status = StatusActive
			return res, err
		}
		locked = false
		log.Warn().Err(err).Msg("could not create run lock, continuing")
	}

	plan := Expand(r.mover.Fs(), entries)
	res.Total = len(plan.Ops)
	remaining := append([]Operation(nil), plan.Ops...)

	log.Info().
		Int("entries", len(entries)).
		Int("operations", res.Total).
		Str("mode", mode.String()).
		Bool("hook", runHook).
		Msg("batch started")

	for i, op := range plan.Ops {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("remaining", len(remaining)).Msg("batch interrupted")
			res.Status = StatusInterrupted
			return res, err
		}
		if locked && !r.lock.IsHeld() {
			log.Warn().Int("remaining", len(remaining)).Msg("run lock cleared, halting")
			r.ui.Notify("Batch", "Batch process stopped", prompt.SeverityInfo)
			res.Status = StatusStopped
			return res, nil
		}

		name := filepath.Base(op.Path)
		r.ui.Notify("Batch Process", fmt.Sprintf("Processing %d/%d: %s", i+1, res.Total, name), prompt.SeverityInfo)
		if r.onProgress != nil {
			r.onProgress(Progress{Index: i + 1, Total: res.Total, Name: name, Op: op})
		}

		outcome, err := r.execute(op, mode)
		r.tally(&res, outcome)
		logOutcome(&log, op, outcome, err, i+1, res.Total)

		remaining = remaining[1:]
		_ = r.queue.Replace(Entries(remaining))
		r.ui.RefreshView()
	}

	for _, dir := range plan.Cleanup {
		if removed := fileops.PruneEmpty(r.mover.Fs(), dir); len(removed) > 0 {
			log.Debug().Strs("removed", removed).Msg("pruned empty directories")
		}
	}

	_ = r.queue.Replace(nil)
	r.ui.Notify("Batch", "Batch complete", prompt.SeverityInfo)
	if err := r.lock.Release(); err != nil {
		log.Warn().Err(err).Msg("release run lock")
	}

	log.Info().
		Int("done", res.Done).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("batch complete")

	if runHook {
		res.HookRan = true
		if err := r.hook.Run(ctx, r.hookCommand); err != nil {
			log.Warn().Err(err).Str("command", r.hookCommand).Msg("post-run hook failed")
		}
	}

	r.ui.RefreshView()
	res.Status = StatusCompleted
	return res, nil
}

func (r *Runner) execute(op Operation, mode fileops.Mode) (fileops.Outcome, error) {
	switch op.Kind {
	case OpMoveFile:
		return r.mover.Move(op.Path, fileops.KindFile, mode)
	case OpDeleteDir:
		return r.mover.Delete(op.Path, fileops.KindDir, mode)
	default:
		return r.mover.Delete(op.Path, fileops.KindFile, mode)
	}
}

func (r *Runner) tally(res *Result, outcome fileops.Outcome) {
	switch outcome {
	case fileops.OutcomeDone:
		res.Done++
	case fileops.OutcomeSkipped, fileops.OutcomeDisabled:
		res.Skipped++
	default:
		res.Failed++
	}
}

func logOutcome(log *zerolog.Logger, op Operation, outcome fileops.Outcome, err error, index, total int) {
	ev := log.Info()
	if outcome == fileops.OutcomeFailed {
		ev = log.Warn().Err(err)
	}
	ev.Str("path", op.Path).
		Str("kind", op.Kind.String()).
		Str("outcome", outcome.String()).
		Int("index", index).
		Int("total", total).
		Msg("batch item")
}
