package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/eaglsunpack/internal/app"
	"github.com/vk/eaglsunpack/internal/config"
	"github.com/vk/eaglsunpack/internal/ctxlog"
	"github.com/vk/eaglsunpack/internal/delegate"
)

// UsageExitCode is returned for invalid command lines.
const UsageExitCode = 2

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Settings are resolved with explicit flags first, then the environment
// (unpacker location only), then the configuration file, then defaults.
func Parse(ctx context.Context, args []string, output io.Writer, loader config.Loader) (*app.Config, bool, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("eaglsunpack", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
eaglsunpack - Extract assets from EAGLS engine PAK archives.

Usage:
  eaglsunpack <pak_file> [--output|-o DIR] [--no-decrypt|-n] [options]

Arguments:
  pak_file
    Path to the PAK archive. The matching .idx file must sit next to it.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprintf(output, `
Environment:
  %s
    Location of the unpacker executable, used when -unpacker is not given.
    Also read from a %s file in the working directory.
`, config.UnpackerEnv, config.DotEnvFile)
	}

	var outputDir string
	var noDecrypt bool
	flagSet.StringVar(&outputDir, "output", app.DefaultOutputDir, "Output directory.")
	flagSet.StringVar(&outputDir, "o", app.DefaultOutputDir, "Output directory (shorthand).")
	flagSet.BoolVar(&noDecrypt, "no-decrypt", false, "Do not decrypt entry contents.")
	flagSet.BoolVar(&noDecrypt, "n", false, "Do not decrypt entry contents (shorthand).")
	unpackerFlag := flagSet.String("unpacker", "", "Path to the unpacker executable. (default \""+delegate.DefaultUnpacker+"\")")
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	logFormatFlag := flagSet.String("log-format", app.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", strings.ToLower(app.DefaultLogLevel.String()), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	positional, err := parseInterspersed(flagSet, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: UsageExitCode, Message: err.Error()}
	}
	logger.Debug("Arguments parsed successfully.", "positional", positional)

	switch len(positional) {
	case 0:
		flagSet.Usage()
		return nil, false, &ExitError{Code: UsageExitCode, Message: "missing required argument: pak_file"}
	case 1:
	default:
		return nil, false, &ExitError{Code: UsageExitCode, Message: fmt.Sprintf("unexpected argument: %s", positional[1])}
	}

	explicit := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	env, err := config.Environ(config.DotEnvFile)
	if err != nil {
		return nil, false, &ExitError{Code: UsageExitCode, Message: err.Error()}
	}

	file := &config.Model{}
	if *configFlag != "" {
		file, err = loader.Load(ctx, *configFlag, env)
		if err != nil {
			return nil, false, &ExitError{Code: UsageExitCode, Message: err.Error()}
		}
		logger.Debug("Configuration file loaded.", "path", *configFlag)
	}

	if !explicit["output"] && !explicit["o"] {
		outputDir = config.FirstNonEmpty(file.Output, app.DefaultOutputDir)
	}

	decrypt := true
	switch {
	case explicit["no-decrypt"] || explicit["n"]:
		decrypt = !noDecrypt
	case file.Decrypt != nil:
		decrypt = *file.Decrypt
	}

	logFormat := *logFormatFlag
	if !explicit["log-format"] {
		logFormat = config.FirstNonEmpty(file.LogFormat, app.DefaultLogFormat)
	}
	logFormat = strings.ToLower(logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: UsageExitCode, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	levelText := *logLevelFlag
	if !explicit["log-level"] && file.LogLevel != "" {
		levelText = file.LogLevel
	}
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(levelText)); err != nil {
		return nil, false, &ExitError{Code: UsageExitCode, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	logger.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		ArchivePath: positional[0],
		OutputDir:   outputDir,
		Decrypt:     decrypt,
		Unpacker:    config.FirstNonEmpty(*unpackerFlag, env[config.UnpackerEnv], file.Unpacker, delegate.DefaultUnpacker),
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: UsageExitCode, Message: err.Error()}
	}

	logger.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// parseInterspersed lets flags appear on either side of positional
// arguments. The flag package stops at the first non-flag argument, so
// parsing resumes after each one. Once a "--" terminator has been consumed
// everything after it is positional.
func parseInterspersed(flagSet *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := flagSet.Parse(args); err != nil {
			return nil, err
		}
		rest := flagSet.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
