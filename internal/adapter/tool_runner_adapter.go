package adapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// DefaultToolTimeout bounds a single external tool invocation.
const DefaultToolTimeout = 2 * time.Minute

// killGracePeriod is how long a timed-out child gets between SIGTERM and a
// forced kill.
const killGracePeriod = 3 * time.Second

// ToolRunnerAdapter abstracts external tool execution so the diagnostics
// runner can be tested without spawning real compilers.
type ToolRunnerAdapter interface {
	// Which locates an executable on PATH.
	Which(name string) (string, bool)

	// Run executes launchPath with args in dir, captures stdout/stderr, and
	// enforces a wall-clock timeout. A timed-out run reports exit code 124.
	Run(ctx context.Context, launchPath string, args []string, dir string, timeout time.Duration) m.ToolResult
}

// LocalToolRunnerAdapter runs tools via os/exec.
type LocalToolRunnerAdapter struct{}

// NewLocalToolRunnerAdapter constructs a LocalToolRunnerAdapter.
func NewLocalToolRunnerAdapter() *LocalToolRunnerAdapter {
	return &LocalToolRunnerAdapter{}
}

// Which locates an executable on PATH.
func (a *LocalToolRunnerAdapter) Which(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil || p == "" {
		return "", false
	}

	return p, true
}

// Run executes the tool and drains both output streams concurrently so a
// chatty child cannot deadlock on a full pipe buffer. On timeout the child
// is asked to terminate and force-killed after a short grace period.
func (a *LocalToolRunnerAdapter) Run(ctx context.Context, launchPath string, args []string, dir string, timeout time.Duration) m.ToolResult {
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, launchPath, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	// Terminate first, kill after the grace period if the child ignores it.
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}

		return terminateProcess(cmd)
	}
	cmd.WaitDelay = killGracePeriod

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return startFailure(launchPath, err)
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return startFailure(launchPath, err)
	}

	if err := cmd.Start(); err != nil {
		return startFailure(launchPath, err)
	}

	var stdout, stderr bytes.Buffer

	var g errgroup.Group

	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)

		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)

		return err
	})

	_ = g.Wait()

	waitErr := cmd.Wait()
	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)

	return m.ToolResult{
		ExitCode: exitCode(cmd, waitErr, timedOut),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		TimedOut: timedOut,
	}
}

func startFailure(launchPath string, err error) m.ToolResult {
	return m.ToolResult{
		ExitCode: -1,
		Stderr:   "failed to start " + launchPath + ": " + err.Error(),
	}
}

func exitCode(cmd *exec.Cmd, waitErr error, timedOut bool) int {
	if timedOut {
		return m.TimeoutExitCode
	}

	if waitErr == nil {
		if cmd.ProcessState != nil {
			return cmd.ProcessState.ExitCode()
		}

		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}

	return 1
}

func terminateProcess(cmd *exec.Cmd) error {
	if runtime.GOOS == "windows" {
		return cmd.Process.Kill()
	}

	return cmd.Process.Signal(syscall.SIGTERM)
}
