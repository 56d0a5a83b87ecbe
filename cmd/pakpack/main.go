// Command pakpack builds EAGLS PAK archives that pakunpack and the engine
// can read back:
//
//	pakpack [-a] [-n] <pak_file> <file>...
//
// Each file becomes an entry named after its base name. With -a the files
// are appended to an existing archive; -n stores .dat and .gr contents
// without scrambling them.
package main

import (
	"context"
	"errors"
	"flag"
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

	flagSet := flag.NewFlagSet(prog, flag.ContinueOnError)
	flagSet.SetOutput(outW)
	appendMode := flagSet.Bool("a", false, "append to an existing archive")
	noEncrypt := flagSet.Bool("n", false, "store .dat and .gr contents unencrypted")
	flagSet.Usage = func() {
		fmt.Fprintf(outW, "Usage: %s [-a] [-n] <pak_file> <file>...\n", prog)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flagSet.NArg() < 2 {
		flagSet.Usage()
		return 2
	}

	pakPath, files := flagSet.Arg(0), flagSet.Args()[1:]
	pack := pak.Create
	if *appendMode {
		pack = pak.Add
	}
	entries, err := pack(ctx, pakPath, files, !*noEncrypt)
	if err != nil {
		logger.Error("Pack failed.", "pak", pakPath, "error", err)
		return 1
	}
	logger.Info("Index written.", "path", pak.IndexPath(pakPath), "entries", len(entries))
	return 0
}
