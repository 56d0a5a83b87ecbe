package delegate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/vk/eaglsunpack/internal/ctxlog"
)

// StartExitCode is reported when the unpacker could not be started at all,
// following the shell convention for "command not found".
const StartExitCode = 127

// StartError reports that the unpacker process never ran.
type StartError struct {
	Unpacker string
	Err      error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start unpacker %q: %v", e.Unpacker, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// ExecRunner runs the unpacker as a direct child process. The child's
// standard streams are connected to the given readers and writers, so its
// own progress output reaches the user unchanged.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the unpacker, blocks until it exits and returns its exit status.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	logger := ctxlog.FromContext(ctx)

	argv := inv.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return StartExitCode, &StartError{Unpacker: inv.Unpacker, Err: err}
	}
	logger.Debug("Unpacker process started.", "pid", cmd.Process.Pid)

	err := cmd.Wait()
	if err == nil {
		logger.Debug("Unpacker process exited.", "exit_code", 0)
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("waiting for unpacker: %w", err)
	}

	code := exitErr.ExitCode()
	if code < 0 {
		// Terminated by a signal; there is no status to pass through.
		logger.Warn("Unpacker process was terminated.", "state", exitErr.String())
		code = 1
	}
	logger.Debug("Unpacker process exited.", "exit_code", code)
	return code, nil
}
