package execution

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"wct/internal/domain"
)

// Runner launches a single subprocess and reports how it ended.
// It never inspects the child's output; stdout and stderr go to the null device.
type Runner struct {
	dir     string
	timeout time.Duration
}

// NewRunner creates a Runner that starts children in dir and kills them after
// timeout. A zero timeout waits forever.
func NewRunner(dir string, timeout time.Duration) *Runner {
	return &Runner{dir: dir, timeout: timeout}
}

// Invoke runs `binary fixturePath flags...` in the runner's directory
func (r *Runner) Invoke(ctx context.Context, binary, fixturePath string, flags []string) domain.InvocationResult {
	args := make([]string, 0, len(flags)+1)
	args = append(args, fixturePath)
	args = append(args, flags...)
	return r.Exec(ctx, r.dir, binary, args...)
}

// Exec runs name with args in dir and waits for it to terminate.
// Launch, wait, signal and timeout problems all come back as execution failures.
func (r *Runner) Exec(ctx context.Context, dir, name string, args ...string) domain.InvocationResult {
	if err := ctx.Err(); err != nil {
		return domain.ExecutionFailure("cancelled before start")
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = dir
	killProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return domain.ExecutionFailure(fmt.Sprintf("launch %s: %v", name, err))
	}

	err := cmd.Wait()
	if err == nil {
		return domain.ExitedWith(0)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return domain.ExitedWith(exitErr.ExitCode())
	}

	// Killed or never reaped: work out who is responsible
	switch {
	case ctx.Err() != nil:
		return domain.ExecutionFailure("cancelled")
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return domain.ExecutionFailure(fmt.Sprintf("timeout after %s", r.timeout))
	case exitErr != nil:
		return domain.ExecutionFailure(exitErr.String())
	default:
		return domain.ExecutionFailure(fmt.Sprintf("wait: %v", err))
	}
}
