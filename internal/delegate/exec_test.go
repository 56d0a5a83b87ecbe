package delegate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperExitEnv turns the test binary into a fake unpacker: it echoes its
// arguments and exits with the requested status.
const helperExitEnv = "EAGLSUNPACK_HELPER_EXIT"

func TestMain(m *testing.M) {
	if raw, ok := os.LookupEnv(helperExitEnv); ok {
		code, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad helper exit code:", raw)
			os.Exit(99)
		}
		fmt.Fprintln(os.Stdout, strings.Join(os.Args[1:], "|"))
		fmt.Fprintln(os.Stderr, "helper stderr")
		os.Exit(code)
	}
	os.Exit(m.Run())
}

func runHelper(t *testing.T, exitCode int, inv Invocation) (int, string, string, error) {
	t.Helper()
	t.Setenv(helperExitEnv, strconv.Itoa(exitCode))

	exe, err := os.Executable()
	require.NoError(t, err)
	inv.Unpacker = exe

	var stdout, stderr bytes.Buffer
	runner := &ExecRunner{Stdout: &stdout, Stderr: &stderr}
	code, runErr := runner.Run(context.Background(), inv)
	return code, stdout.String(), stderr.String(), runErr
}

func TestExecRunner_PassesArgumentsInOrder(t *testing.T) {
	inv := Invocation{ArchivePath: "my game/archive.pak", OutputDir: "out2", Decrypt: true}

	code, stdout, stderr, err := runHelper(t, 0, inv)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "my game/archive.pak|out2|1\n", stdout)
	assert.Equal(t, "helper stderr\n", stderr)
}

func TestExecRunner_NoDecryptFlag(t *testing.T) {
	inv := Invocation{ArchivePath: "archive.pak", OutputDir: "output", Decrypt: false}

	code, stdout, _, err := runHelper(t, 0, inv)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "archive.pak|output|0\n", stdout)
}

func TestExecRunner_PassesThroughExitStatus(t *testing.T) {
	for _, want := range []int{1, 2, 42} {
		t.Run(strconv.Itoa(want), func(t *testing.T) {
			code, _, _, err := runHelper(t, want, Invocation{ArchivePath: "a.pak", OutputDir: "o", Decrypt: true})

			require.NoError(t, err, "a failing child is not a runner error")
			assert.Equal(t, want, code)
		})
	}
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no_such_unpacker")
	runner := &ExecRunner{}

	code, err := runner.Run(context.Background(), Invocation{Unpacker: missing, ArchivePath: "a.pak", OutputDir: "o"})

	require.Error(t, err)
	assert.Equal(t, StartExitCode, code)

	var startErr *StartError
	require.True(t, errors.As(err, &startErr))
	assert.Equal(t, missing, startErr.Unpacker)
	assert.Contains(t, err.Error(), "no_such_unpacker")
}
