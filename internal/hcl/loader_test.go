package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eaglsunpack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AllAttributes(t *testing.T) {
	path := writeConfig(t, `
		unpacker = "/opt/eagls/pak_unpacker"
		output   = "extracted"
		decrypt  = false

		log {
			level  = "debug"
			format = "json"
		}
	`)

	model, err := NewLoader().Load(context.Background(), path, nil)

	require.NoError(t, err)
	assert.Equal(t, "/opt/eagls/pak_unpacker", model.Unpacker)
	assert.Equal(t, "extracted", model.Output)
	require.NotNil(t, model.Decrypt)
	assert.False(t, *model.Decrypt)
	assert.Equal(t, "debug", model.LogLevel)
	assert.Equal(t, "json", model.LogFormat)
}

func TestLoad_EmptyFileLeavesEverythingUnset(t *testing.T) {
	path := writeConfig(t, "")

	model, err := NewLoader().Load(context.Background(), path, nil)

	require.NoError(t, err)
	assert.Empty(t, model.Unpacker)
	assert.Empty(t, model.Output)
	assert.Nil(t, model.Decrypt)
	assert.Empty(t, model.LogLevel)
	assert.Empty(t, model.LogFormat)
}

func TestLoad_InterpolatesEnvironment(t *testing.T) {
	path := writeConfig(t, `unpacker = "${env.TOOLS_DIR}/pak_unpacker"`)
	env := map[string]string{"TOOLS_DIR": "/home/user/tools"}

	model, err := NewLoader().Load(context.Background(), path, env)

	require.NoError(t, err)
	assert.Equal(t, "/home/user/tools/pak_unpacker", model.Unpacker)
}

func TestLoad_UnknownEnvironmentVariableFails(t *testing.T) {
	path := writeConfig(t, `unpacker = "${env.NOT_SET}/pak_unpacker"`)

	_, err := NewLoader().Load(context.Background(), path, map[string]string{"OTHER": "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL file")
}

func TestLoad_UnknownAttributeFails(t *testing.T) {
	path := writeConfig(t, `workers = 4`)

	_, err := NewLoader().Load(context.Background(), path, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL file")
}

func TestLoad_InvalidSyntaxFails(t *testing.T) {
	path := writeConfig(t, `unpacker = "unterminated`)

	_, err := NewLoader().Load(context.Background(), path, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestLoad_MissingFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.hcl")

	_, err := NewLoader().Load(context.Background(), path, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
