package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/vk/eaglsunpack/internal/app"
	"github.com/vk/eaglsunpack/internal/delegate"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// RecordingRunner is a delegate.Runner that records every invocation and
// answers with a fixed status instead of starting a process.
type RecordingRunner struct {
	ExitCode int
	Err      error

	// OnRun, if set, is called with each invocation before it is recorded.
	OnRun func(inv delegate.Invocation)

	mu    sync.Mutex
	calls []delegate.Invocation
}

// Run implements delegate.Runner.
func (r *RecordingRunner) Run(_ context.Context, inv delegate.Invocation) (int, error) {
	if r.OnRun != nil {
		r.OnRun(inv)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
	return r.ExitCode, r.Err
}

// Calls returns a copy of the recorded invocations.
func (r *RecordingRunner) Calls() []delegate.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delegate.Invocation(nil), r.calls...)
}

// SetupAppTest creates a new app instance with debug logging captured in a
// buffer. Set EAGLSUNPACK_TEST_LOGS=true to print the logs of every test.
func SetupAppTest(t *testing.T, cfg app.Config, runner delegate.Runner) (*app.App, *SafeBuffer) {
	t.Helper()

	cfg.LogLevel = slog.LevelDebug
	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, appConfig, runner)

	t.Cleanup(func() {
		if os.Getenv("EAGLSUNPACK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
