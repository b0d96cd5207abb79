package hcladapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/fsutil"
	"github.com/vk/gridflow/internal/model"
)

// Extension is the file extension of definition files.
const Extension = ".hcl"

// Loader reads HCL definition files into a model.Grid.
type Loader struct {
	// Env is exposed to expressions as `env`. Nil means the process environment.
	Env map[string]string
}

// NewLoader creates a new HCL loader reading the process environment.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every definition file found under paths. Directories are
// walked recursively; files are taken as given regardless of extension.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Grid, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	env := l.Env
	if env == nil {
		env = processEnv()
	}
	ectx := evalContext(env)

	parser := hclparse.NewParser()
	grid := model.NewGrid()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		fileGrid, diags := decodeFile(hclFile.Body, file, ectx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		grid.Append(fileGrid)
	}

	logger.Debug("HCL loading complete.",
		"steps", len(grid.Steps),
		"outputs", len(grid.Outputs),
		"executions", len(grid.Executions),
	)
	return grid, nil
}

func decodeFile(body hcl.Body, path string, ectx *hcl.EvalContext) (*model.Grid, hcl.Diagnostics) {
	var root fileRoot
	diags := gohcl.DecodeBody(body, nil, &root)
	if diags.HasErrors() {
		return nil, diags
	}

	grid := model.NewGrid()
	for _, s := range root.Steps {
		step, stepDiags := decodeStep(s, path, ectx)
		diags = append(diags, stepDiags...)
		if step != nil {
			grid.Steps = append(grid.Steps, step)
		}
	}
	for _, o := range root.Outputs {
		grid.Outputs = append(grid.Outputs, decodeOutput(o, path))
	}
	for _, e := range root.Executions {
		exec, execDiags := decodeExecution(e, path, ectx)
		diags = append(diags, execDiags...)
		grid.Executions = append(grid.Executions, exec)
	}
	return grid, diags
}
