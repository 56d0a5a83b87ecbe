package pak

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/eaglsunpack/internal/ctxlog"
)

// PackSeed is the index seed the engine tool writes into new archives.
const PackSeed = 0x60

const pakLabel = "the archive"

// Create packs files into a new archive at pakPath and writes the matching
// IDX. Entries are named after the base name of each file and stored in name
// order. With encrypt set, .dat and .gr contents are scrambled the way the
// engine expects. An existing archive at pakPath is replaced.
func Create(ctx context.Context, pakPath string, files []string, encrypt bool) ([]Entry, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to pack")
	}
	if IndexPath(pakPath) == pakPath {
		return nil, fmt.Errorf("PAK path %s would collide with its own index", pakPath)
	}
	sources, err := packSources(nil, files)
	if err != nil {
		return nil, err
	}

	pakFile, err := os.Create(pakPath)
	if err != nil {
		return nil, fmt.Errorf("cannot create PAK file: %w", err)
	}
	entries, err := appendSources(ctx, pakFile, 0, sources, encrypt)
	if closeErr := pakFile.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = writeIndex(pakPath, entries)
	}
	if err != nil {
		os.Remove(pakPath)
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("Pack complete.", "pak", pakPath, "entries", len(entries))
	return entries, nil
}

// Add appends files to the existing archive at pakPath and rewrites its IDX.
// A name already present in the index is refused before anything is written.
func Add(ctx context.Context, pakPath string, files []string, encrypt bool) ([]Entry, error) {
	existing, err := List(pakPath)
	if err != nil {
		return nil, err
	}
	sources, err := packSources(existing, files)
	if err != nil {
		return nil, err
	}

	pakFile, err := os.OpenFile(pakPath, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open PAK file: %w", err)
	}
	info, err := pakFile.Stat()
	if err != nil {
		pakFile.Close()
		return nil, fmt.Errorf("cannot stat PAK file: %w", err)
	}
	added, err := appendSources(ctx, pakFile, info.Size(), sources, encrypt)
	if closeErr := pakFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Leave the archive as the old index describes it.
		os.Truncate(pakPath, info.Size())
		return nil, err
	}

	entries := append(existing, added...)
	sortEntries(entries)
	if err := writeIndex(pakPath, entries); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("Files added.", "pak", pakPath, "added", len(added), "entries", len(entries))
	return entries, nil
}

type packSource struct {
	name string
	path string
}

// packSources names each file after its base name and checks the names
// against each other, the existing entries and the index limits.
func packSources(existing []Entry, files []string) ([]packSource, error) {
	if len(existing)+len(files) > MaxEntries {
		return nil, fmt.Errorf("too many entries: %d, index holds at most %d", len(existing)+len(files), MaxEntries)
	}
	seen := make(map[string]string, len(existing)+len(files))
	for _, e := range existing {
		seen[e.Name] = pakLabel
	}
	sources := make([]packSource, 0, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		if len(name) > NameSize {
			return nil, fmt.Errorf("file name %q is longer than %d bytes", name, NameSize)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("entry %s from %s is already taken by %s", name, path, prev)
		}
		seen[name] = path
		sources = append(sources, packSource{name: name, path: path})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].name < sources[j].name })
	return sources, nil
}

// appendSources writes the sources to pakFile starting at position pos and
// returns their entries.
func appendSources(ctx context.Context, pakFile *os.File, pos int64, sources []packSource, encrypt bool) ([]Entry, error) {
	logger := ctxlog.FromContext(ctx)
	entries := make([]Entry, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(src.path)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", src.name, err)
		}
		if uint64(len(data)) > uint64(^uint32(0)) {
			return nil, fmt.Errorf("entry %s: %d bytes do not fit a 32-bit size", src.name, len(data))
		}
		if encrypt {
			CryptEntry(src.name, data)
		}
		if _, err := pakFile.Write(data); err != nil {
			return nil, fmt.Errorf("entry %s: failed to write PAK data: %w", src.name, err)
		}
		entry := Entry{Name: src.name, Offset: uint64(pos) + DataBase, Size: uint32(len(data))}
		logger.Debug("Packed entry.", "name", entry.Name, "offset", entry.Offset, "size", entry.Size, "kind", KindOf(entry.Name))
		entries = append(entries, entry)
		pos += int64(len(data))
	}
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}

func writeIndex(pakPath string, entries []Entry) error {
	idx, err := EncodeIndex(entries, PackSeed)
	if err != nil {
		return err
	}
	idxPath := IndexPath(pakPath)
	if err := os.WriteFile(idxPath, idx, 0644); err != nil {
		return fmt.Errorf("failed to write index %s: %w", idxPath, err)
	}
	return nil
}
