// Command pakunpack is a native unpacker for EAGLS PAK archives. It follows
// the unpacker contract expected by eaglsunpack:
//
//	pakunpack <pak_file> <output_dir> [decrypt=1] [entry...]
//	pakunpack -l <pak_file>
//
// Entry names after the decrypt flag limit extraction to those entries.
// With -l the index is printed instead of extracted.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/eaglsunpack/internal/ctxlog"
	"github.com/vk/eaglsunpack/internal/pak"
)

func main() {
	os.Exit(run(os.Stdout, os.Args[0], os.Args[1:]))
}

func run(outW io.Writer, prog string, args []string) int {
	logger := slog.New(slog.NewTextHandler(outW, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if len(args) == 2 && args[0] == "-l" {
		return list(outW, logger, args[1])
	}
	if len(args) < 2 {
		fmt.Fprintf(outW, "Usage: %s <pak_file> <output_dir> [decrypt=1] [entry...]\n", prog)
		fmt.Fprintf(outW, "       %s -l <pak_file>\n", prog)
		return 1
	}

	pakPath, outDir := args[0], args[1]
	decrypt := true
	var names []string
	if len(args) > 2 {
		decrypt = args[2] == "1"
		names = args[3:]
	}

	count, err := pak.Extract(ctx, pakPath, outDir, decrypt, names...)
	if err != nil {
		logger.Error("Unpack failed.", "pak", pakPath, "extracted", count, "error", err)
		return 1
	}
	return 0
}

// list prints one line per entry: name, kind, PAK position and size.
func list(outW io.Writer, logger *slog.Logger, pakPath string) int {
	entries, err := pak.List(pakPath)
	if err != nil {
		logger.Error("List failed.", "pak", pakPath, "error", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(outW, "%-24s %-5s %#10x %10d\n", e.Name, pak.KindOf(e.Name), e.Offset, e.Size)
	}
	return 0
}
