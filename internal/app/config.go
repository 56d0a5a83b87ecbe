package app

import (
	"errors"
	"log/slog"

	"github.com/vk/eaglsunpack/internal/delegate"
)

const (
	DefaultOutputDir = "output"
	DefaultLogFormat = "text"

	// DefaultLogLevel is also the zero value of Config.LogLevel.
	DefaultLogLevel = slog.LevelInfo
)

// Config holds all the necessary configuration for an App instance to run.
// It is the Invocation Request plus the ambient settings around it.
type Config struct {
	ArchivePath string
	OutputDir   string
	Decrypt     bool
	Unpacker    string

	LogFormat string
	LogLevel  slog.Level
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ArchivePath == "" {
		return nil, errors.New("ArchivePath is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Unpacker == "" {
		cfg.Unpacker = delegate.DefaultUnpacker
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	return &cfg, nil
}

// Invocation builds the request handed to the unpacker.
func (c *Config) Invocation() delegate.Invocation {
	return delegate.Invocation{
		Unpacker:    c.Unpacker,
		ArchivePath: c.ArchivePath,
		OutputDir:   c.OutputDir,
		Decrypt:     c.Decrypt,
	}
}
