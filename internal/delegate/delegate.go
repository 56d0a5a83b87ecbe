// Package delegate builds and runs the external unpacker invocation. The
// unpacker is a black box: it takes an archive path, an output directory and
// a decrypt flag, and reports success or failure only through its exit
// status.
package delegate

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultUnpacker is looked up on PATH when no other location is configured.
	DefaultUnpacker = "pak_unpacker"

	FlagDecrypt   = "1"
	FlagNoDecrypt = "0"
)

// Invocation is a single request to the unpacker. It is built once from user
// input and consumed once.
type Invocation struct {
	Unpacker    string
	ArchivePath string
	OutputDir   string
	Decrypt     bool
}

// Flag returns the decrypt flag exactly as the unpacker expects it.
func (i Invocation) Flag() string {
	if i.Decrypt {
		return FlagDecrypt
	}
	return FlagNoDecrypt
}

// Argv returns the full argument vector, executable first.
func (i Invocation) Argv() []string {
	return []string{i.Unpacker, i.ArchivePath, i.OutputDir, i.Flag()}
}

// String renders the invocation as a command line, paths quoted and the
// flag bare. It is used for display only; the process is never started
// through a shell.
func (i Invocation) String() string {
	return fmt.Sprintf("%s %s %s %s", quote(i.Unpacker), quote(i.ArchivePath), quote(i.OutputDir), i.Flag())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Runner executes an Invocation and reports the exit status of the child.
// A non-nil error means the child could not be run at all; a child that ran
// and failed is reported only through a non-zero status.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}
