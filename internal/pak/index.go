package pak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	// NameSize is the fixed, NUL-padded width of an entry name.
	NameSize = 0x18
	// EntrySize is the width of one index record.
	EntrySize = 0x28
	// IndexSize is the size of the IDX files written by the engine.
	IndexSize = 0x61a84
	// DataBase is subtracted from recorded offsets to get the position in
	// the PAK file.
	DataBase = 0x174b

	// MaxEntries is the number of records an engine-sized index can hold.
	MaxEntries = (IndexSize - 4) / EntrySize
)

// ErrEntryNotFound reports a requested entry that the index does not hold.
var ErrEntryNotFound = errors.New("entry not found in index")

// Entry is one record of the index.
type Entry struct {
	Name     string
	Offset   uint64
	Size     uint32
	Reserved uint32
}

// DataOffset returns the position of the entry's data inside the PAK file.
func (e Entry) DataOffset() (int64, error) {
	if e.Offset < DataBase {
		return 0, fmt.Errorf("entry %s: offset %#x is below the data base %#x", e.Name, e.Offset, DataBase)
	}
	return int64(e.Offset - DataBase), nil
}

// IndexPath returns the IDX path belonging to a PAK path: the last three
// characters are replaced by "idx".
func IndexPath(pakPath string) string {
	if len(pakPath) < 3 {
		return pakPath + "idx"
	}
	return pakPath[:len(pakPath)-3] + "idx"
}

// ReadIndex loads and decrypts the IDX file at path.
func ReadIndex(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	return DecodeIndex(data)
}

// List returns the entries recorded in the index belonging to pakPath.
func List(pakPath string) ([]Entry, error) {
	idxPath := IndexPath(pakPath)
	entries, err := ReadIndex(idxPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open index %s: %w", idxPath, err)
	}
	return entries, nil
}

// DecodeIndex decrypts a raw IDX image and parses its records. Records with
// an empty name are skipped.
func DecodeIndex(data []byte) ([]Entry, error) {
	if len(data) < 4 {
		return nil, errors.New("index file is too short to hold a seed")
	}
	buf := append([]byte(nil), data...)
	CryptIndex(buf)
	return parseEntries(buf[:len(buf)-4]), nil
}

func parseEntries(table []byte) []Entry {
	var entries []Entry
	for off := 0; off+EntrySize <= len(table); off += EntrySize {
		rec := table[off : off+EntrySize]
		name := rec[:NameSize]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		if len(name) == 0 {
			continue
		}
		entries = append(entries, Entry{
			Name:     string(name),
			Offset:   binary.LittleEndian.Uint64(rec[NameSize:]),
			Size:     binary.LittleEndian.Uint32(rec[NameSize+8:]),
			Reserved: binary.LittleEndian.Uint32(rec[NameSize+12:]),
		})
	}
	return entries
}

// EncodeIndex builds an engine-sized, encrypted IDX image for the given
// entries using seed.
func EncodeIndex(entries []Entry, seed uint32) ([]byte, error) {
	if len(entries) > MaxEntries {
		return nil, fmt.Errorf("too many entries: %d, index holds at most %d", len(entries), MaxEntries)
	}
	data := make([]byte, IndexSize)
	for i, e := range entries {
		if len(e.Name) == 0 || len(e.Name) > NameSize {
			return nil, fmt.Errorf("entry name %q must be 1 to %d bytes long", e.Name, NameSize)
		}
		rec := data[i*EntrySize : (i+1)*EntrySize]
		copy(rec, e.Name)
		binary.LittleEndian.PutUint64(rec[NameSize:], e.Offset)
		binary.LittleEndian.PutUint32(rec[NameSize+8:], e.Size)
		binary.LittleEndian.PutUint32(rec[NameSize+12:], e.Reserved)
	}
	binary.LittleEndian.PutUint32(data[IndexSize-4:], seed)
	CryptIndex(data)
	return data, nil
}
