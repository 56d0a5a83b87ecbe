package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/eaglsunpack/internal/pak"
)

// writeFixture stores one encrypted script and one plain file.
func writeFixture(t *testing.T, dir string) (string, []byte) {
	t.Helper()

	script := bytes.Repeat([]byte("scenario "), 500)
	stored := append([]byte(nil), script...)
	pak.CryptEntry("00.dat", stored)
	plain := []byte("plain")

	pakPath := filepath.Join(dir, "script.pak")
	require.NoError(t, os.WriteFile(pakPath, append(stored, plain...), 0644))
	idx, err := pak.EncodeIndex([]pak.Entry{
		{Name: "00.dat", Offset: pak.DataBase, Size: uint32(len(stored))},
		{Name: "readme.txt", Offset: pak.DataBase + uint64(len(stored)), Size: uint32(len(plain))},
	}, 1234)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pak.IndexPath(pakPath), idx, 0644))
	return pakPath, script
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer

	code := run(&out, "pakunpack", []string{"only.pak"})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Usage: pakunpack <pak_file> <output_dir>")
}

func TestRun_DecryptsByDefault(t *testing.T) {
	dir := t.TempDir()
	pakPath, script := writeFixture(t, dir)
	outDir := filepath.Join(dir, "out")
	var out bytes.Buffer

	code := run(&out, "pakunpack", []string{pakPath, outDir})

	require.Equal(t, 0, code, out.String())
	got, err := os.ReadFile(filepath.Join(outDir, "00.dat"))
	require.NoError(t, err)
	assert.Equal(t, script, got)
	assert.Contains(t, out.String(), "Unpack complete.")
}

func TestRun_DecryptFlag(t *testing.T) {
	testCases := []struct {
		flag        string
		wantDecrypt bool
	}{
		{flag: "1", wantDecrypt: true},
		{flag: "0", wantDecrypt: false},
		{flag: "yes", wantDecrypt: false},
	}

	for _, tc := range testCases {
		t.Run(tc.flag, func(t *testing.T) {
			dir := t.TempDir()
			pakPath, script := writeFixture(t, dir)
			outDir := filepath.Join(dir, "out")

			code := run(&bytes.Buffer{}, "pakunpack", []string{pakPath, outDir, tc.flag})

			require.Equal(t, 0, code)
			got, err := os.ReadFile(filepath.Join(outDir, "00.dat"))
			require.NoError(t, err)
			assert.Equal(t, tc.wantDecrypt, bytes.Equal(script, got))

			plain, err := os.ReadFile(filepath.Join(outDir, "readme.txt"))
			require.NoError(t, err)
			assert.Equal(t, "plain", string(plain))
		})
	}
}

func TestRun_MissingIndexFails(t *testing.T) {
	dir := t.TempDir()
	pakPath := filepath.Join(dir, "script.pak")
	require.NoError(t, os.WriteFile(pakPath, []byte("data"), 0644))
	var out bytes.Buffer

	code := run(&out, "pakunpack", []string{pakPath, filepath.Join(dir, "out")})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Unpack failed.")
}

func TestRun_SelectedEntries(t *testing.T) {
	dir := t.TempDir()
	pakPath, _ := writeFixture(t, dir)
	outDir := filepath.Join(dir, "out")

	code := run(&bytes.Buffer{}, "pakunpack", []string{pakPath, outDir, "1", "readme.txt"})

	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(outDir, "readme.txt"))
	assert.NoFileExists(t, filepath.Join(outDir, "00.dat"))
}

func TestRun_UnknownEntryFails(t *testing.T) {
	dir := t.TempDir()
	pakPath, _ := writeFixture(t, dir)
	var out bytes.Buffer

	code := run(&out, "pakunpack", []string{pakPath, filepath.Join(dir, "out"), "1", "ghost.txt"})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "ghost.txt")
}

func TestRun_List(t *testing.T) {
	dir := t.TempDir()
	pakPath, script := writeFixture(t, dir)
	var out bytes.Buffer

	code := run(&out, "pakunpack", []string{"-l", pakPath})

	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"00.dat", "dat", "0x174b", strconv.Itoa(len(script))}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"readme.txt", "plain", fmt.Sprintf("%#x", pak.DataBase+len(script)), "5"}, strings.Fields(lines[1]))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestRun_ListMissingIndex(t *testing.T) {
	var out bytes.Buffer

	code := run(&out, "pakunpack", []string{"-l", filepath.Join(t.TempDir(), "none.pak")})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "List failed.")
}
