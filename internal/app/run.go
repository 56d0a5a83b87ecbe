package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/vk/eaglsunpack/internal/ctxlog"
)

// Run validates the archive, prepares the output directory and runs the
// unpacker once. The returned status is the unpacker's own exit status
// whenever it was started; errors are returned only for failures detected
// before or while starting it, together with the status to exit with.
func (a *App) Run(ctx context.Context) (int, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "archive", a.config.ArchivePath, "output", a.config.OutputDir, "decrypt", a.config.Decrypt)

	if _, err := os.Stat(a.config.ArchivePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return MissingInputExitCode, &MissingInputError{Path: a.config.ArchivePath}
		}
		return 1, fmt.Errorf("failed to access PAK file %s: %w", a.config.ArchivePath, err)
	}

	if err := os.MkdirAll(a.config.OutputDir, 0755); err != nil {
		return 1, fmt.Errorf("failed to create output directory %s: %w", a.config.OutputDir, err)
	}
	a.logger.Debug("Output directory ready.", "path", a.config.OutputDir)

	// Printed regardless of the log level.
	inv := a.config.Invocation()
	fmt.Fprintf(a.outW, "Executing command: %s\n", inv.String())

	code, err := a.runner.Run(ctx, inv)
	if err != nil {
		return code, fmt.Errorf("unpacker did not run: %w", err)
	}

	if code != 0 {
		a.logger.Warn("Unpacker exited with a failure status.", "exit_code", code)
	} else {
		a.logger.Info("🏁 Unpack finished.")
	}

	a.logger.Debug("App.Run method finished.")
	return code, nil
}
