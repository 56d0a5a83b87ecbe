package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/eaglsunpack/internal/config"
	"github.com/vk/eaglsunpack/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the schema of a configuration file. Every attribute is
// optional; unknown attributes and blocks are rejected.
type fileRoot struct {
	Unpacker *string   `hcl:"unpacker,optional"`
	Output   *string   `hcl:"output,optional"`
	Decrypt  *bool     `hcl:"decrypt,optional"`
	Log      *logBlock `hcl:"log,block"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load parses and decodes a single HCL file into the config model.
func (l *Loader) Load(ctx context.Context, path string, env map[string]string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("error accessing config file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, newEvalContext(env), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := translate(&root)
	logger.Debug("HCL loading complete.", "unpacker", model.Unpacker, "output", model.Output, "decrypt_set", model.Decrypt != nil)
	return model, nil
}

// newEvalContext exposes the environment to expressions as the `env` object,
// e.g. unpacker = "${env.HOME}/bin/pak_unpacker".
func newEvalContext(env map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(vals) > 0 {
		envVal = cty.ObjectVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
	}
}

func translate(root *fileRoot) *config.Model {
	model := &config.Model{Decrypt: root.Decrypt}
	if root.Unpacker != nil {
		model.Unpacker = *root.Unpacker
	}
	if root.Output != nil {
		model.Output = *root.Output
	}
	if root.Log != nil {
		if root.Log.Level != nil {
			model.LogLevel = *root.Log.Level
		}
		if root.Log.Format != nil {
			model.LogFormat = *root.Log.Format
		}
	}
	return model
}
