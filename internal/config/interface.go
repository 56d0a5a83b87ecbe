package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and translates it into the
	// format-agnostic model. env holds the variables that expressions in
	// the file may reference.
	Load(ctx context.Context, path string, env map[string]string) (*Model, error)
}

// Model is the result of loading a configuration file. Unset values are
// left at their zero value (nil for Decrypt) so callers can tell them apart
// from explicit settings.
type Model struct {
	Unpacker  string
	Output    string
	Decrypt   *bool
	LogLevel  string
	LogFormat string
}
