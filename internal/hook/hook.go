// Package hook runs the operator-configured command after a batch, for
// example a media server library refresh.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/litescript/ls-media-shuttle/internal/logger"
)

// ErrNothingToExecute is returned for an empty command.
var ErrNothingToExecute = errors.New("nothing to execute")

// Executor runs hook commands through the system shell.
type Executor struct {
	timeout time.Duration

	// commandContext allows replacing os/exec in tests.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewExecutor creates an Executor. A zero timeout means no limit beyond ctx.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout, commandContext: exec.CommandContext}
}

// Run executes command and waits for it. Output is logged, not returned.
func (e *Executor) Run(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return ErrNothingToExecute
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := e.createCommand(ctx, command)
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Info().Str("command", command).Msg("running hook")
	start := time.Now()
	err := cmd.Run()

	if trimmed := strings.TrimSpace(out.String()); trimmed != "" {
		logger.Debug().Str("command", command).Str("output", trimmed).Msg("hook output")
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("hook %q: %w", command, ctxErr)
		}
		return fmt.Errorf("hook %q: %w", command, err)
	}

	logger.Info().Str("command", command).Dur("took", time.Since(start)).Msg("hook finished")
	return nil
}
