package app

import (
	"io"
	"log/slog"

	"github.com/vk/eaglsunpack/internal/delegate"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	runner delegate.Runner
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. The runner is the
// collaborator that actually starts the unpacker.
func NewApp(outW io.Writer, cfg *Config, runner delegate.Runner) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		runner: runner,
	}
}
