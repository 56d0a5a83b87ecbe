package pak

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/eaglsunpack/internal/ctxlog"
)

// Extract writes the entries of the archive at pakPath into outDir, creating
// it if needed. With no names every entry is written; otherwise only the
// named ones, and a name missing from the index is an error. With decrypt
// set, .dat and .gr entries are decrypted on the way out. A failing entry
// does not stop the others; the returned count covers the entries that were
// written and the error joins all failures.
func Extract(ctx context.Context, pakPath, outDir string, decrypt bool, names ...string) (int, error) {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	idxPath := IndexPath(pakPath)
	entries, err := ReadIndex(idxPath)
	if err != nil {
		return 0, fmt.Errorf("cannot open index %s: %w", idxPath, err)
	}
	logger.Info("Index decrypted.", "path", idxPath, "entries", len(entries))

	entries, errs := selectEntries(entries, names)

	pakFile, err := os.Open(pakPath)
	if err != nil {
		return 0, fmt.Errorf("cannot open PAK file: %w", err)
	}
	defer pakFile.Close()
	info, err := pakFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("cannot stat PAK file: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		logger.Debug("Found entry.", "name", entry.Name, "offset", entry.Offset, "size", entry.Size)

		outPath, err := extractEntry(pakFile, info.Size(), entry, outDir, decrypt)
		if err != nil {
			logger.Error("Failed to extract entry.", "name", entry.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Info("Saved entry.", "path", outPath)
		count++
	}

	logger.Info("Unpack complete.", "extracted", count, "failed", len(errs))
	return count, errors.Join(errs...)
}

// selectEntries keeps the entries whose names are listed, in index order.
// Listed names that are not in the index come back as errors.
func selectEntries(entries []Entry, names []string) ([]Entry, []error) {
	if len(names) == 0 {
		return entries, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = false
	}
	var selected []Entry
	for _, entry := range entries {
		if _, ok := wanted[entry.Name]; ok {
			wanted[entry.Name] = true
			selected = append(selected, entry)
		}
	}
	var errs []error
	for _, name := range names {
		if !wanted[name] {
			errs = append(errs, fmt.Errorf("entry %s: %w", name, ErrEntryNotFound))
			wanted[name] = true
		}
	}
	return selected, errs
}

func extractEntry(pakFile *os.File, pakSize int64, entry Entry, outDir string, decrypt bool) (string, error) {
	if !filepath.IsLocal(entry.Name) {
		return "", fmt.Errorf("entry %q escapes the output directory", entry.Name)
	}

	off, err := entry.DataOffset()
	if err != nil {
		return "", err
	}

	if off+int64(entry.Size) > pakSize {
		return "", fmt.Errorf("entry %s: %d bytes at %#x run past the end of the PAK file (%d bytes)", entry.Name, entry.Size, off, pakSize)
	}

	data := make([]byte, entry.Size)
	if _, err := pakFile.ReadAt(data, off); err != nil {
		return "", fmt.Errorf("entry %s: failed to read %d bytes at %#x: %w", entry.Name, entry.Size, off, err)
	}

	if decrypt {
		CryptEntry(entry.Name, data)
	}

	outPath := filepath.Join(outDir, entry.Name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", fmt.Errorf("entry %s: %w", entry.Name, err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("entry %s: failed to write output file: %w", entry.Name, err)
	}
	return outPath, nil
}
