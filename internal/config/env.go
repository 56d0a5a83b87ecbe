package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// UnpackerEnv names the variable that points at the unpacker executable.
	UnpackerEnv = "EAGLS_UNPACKER"

	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// Environ merges the variables of an optional dotenv file with the process
// environment. Variables already set in the process win over the file. A
// missing file is not an error.
func Environ(dotenvPath string) (map[string]string, error) {
	env := make(map[string]string)

	if dotenvPath != "" {
		fileEnv, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			for k, v := range fileEnv {
				env[k] = v
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env, nil
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
