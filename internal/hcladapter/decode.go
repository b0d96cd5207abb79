package hcladapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/gridflow/internal/model"
	"github.com/vk/gridflow/internal/task"
)

// fileRoot decodes the top-level blocks of a definition file.
type fileRoot struct {
	Steps      []*hclStep      `hcl:"step,block"`
	Outputs    []*hclOutput    `hcl:"output,block"`
	Executions []*hclExecution `hcl:"execution,block"`
}

type hclStep struct {
	Type      string    `hcl:"type,label"`
	Name      string    `hcl:"name,label"`
	Body      hcl.Body  `hcl:",remain"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type hclOutput struct {
	Name      string    `hcl:"name,label"`
	Step      string    `hcl:"step"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type hclExecution struct {
	Name      string              `hcl:"name,label"`
	Arguments []*hclExecutionArgs `hcl:"arguments,block"`
	DeclRange hcl.Range           `hcl:",def_range"`
}

type hclExecutionArgs struct {
	Step string   `hcl:"step,label"`
	Body hcl.Body `hcl:",remain"`
}

var stepBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "depends_on"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arguments"},
	},
}

func decodeStep(s *hclStep, path string, ectx *hcl.EvalContext) (*model.Step, hcl.Diagnostics) {
	content, diags := s.Body.Content(stepBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &model.Step{
		Type:          s.Type,
		Name:          s.Name,
		Arguments:     task.Args{},
		FSInformation: model.NewFSInfo(path, s.DeclRange.Start.Line),
	}

	if attr, ok := content.Attributes["depends_on"]; ok {
		deps, depDiags := parseDependsOn(attr.Expr, ectx)
		diags = append(diags, depDiags...)
		step.DependsOn = deps
	}

	argsBlock, blockDiags := findUniqueBlock(content.Blocks, "arguments")
	diags = append(diags, blockDiags...)
	if argsBlock != nil {
		args, argDiags := attributesToArgs(argsBlock.Body, ectx)
		diags = append(diags, argDiags...)
		step.Arguments = args
	}

	return step, diags
}

// parseDependsOn reads a list literal whose elements are step names, either
// as strings or as bare references such as print.hello.
func parseDependsOn(expr hcl.Expression, ectx *hcl.EvalContext) ([]string, hcl.Diagnostics) {
	tuple, ok := expr.(*hclsyntax.TupleConsExpr)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid depends_on value",
			Detail:   "The 'depends_on' attribute must be a list of step references.",
			Subject:  expr.Range().Ptr(),
		}}
	}

	var diags hcl.Diagnostics
	deps := make([]string, 0, len(tuple.Exprs))
	for _, elem := range tuple.Exprs {
		if traversal, travDiags := hcl.AbsTraversalForExpr(elem); !travDiags.HasErrors() {
			deps = append(deps, traversalString(traversal))
			continue
		}
		var name string
		diags = append(diags, gohcl.DecodeExpression(elem, ectx, &name)...)
		deps = append(deps, name)
	}
	return deps, diags
}

// traversalString renders a reference like print.hello as written.
func traversalString(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// findUniqueBlock returns the block of the given type, reporting every
// repetition. It returns nil when there is none.
func findUniqueBlock(blocks hcl.Blocks, typeName string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics
	for _, block := range blocks {
		if block.Type != typeName {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Duplicate %q block", typeName),
				Detail:   fmt.Sprintf("A step may have at most one %q block.", typeName),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		found = block
	}
	return found, diags
}

func decodeOutput(o *hclOutput, path string) *model.Output {
	return &model.Output{
		Name:          o.Name,
		Step:          o.Step,
		FSInformation: model.NewFSInfo(path, o.DeclRange.Start.Line),
	}
}

func decodeExecution(e *hclExecution, path string, ectx *hcl.EvalContext) (*model.Execution, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	exec := &model.Execution{
		Name:          e.Name,
		Arguments:     make(map[string]task.Args, len(e.Arguments)),
		FSInformation: model.NewFSInfo(path, e.DeclRange.Start.Line),
	}
	for _, block := range e.Arguments {
		args, argDiags := attributesToArgs(block.Body, ectx)
		diags = append(diags, argDiags...)
		// Several blocks for the same step are merged, later keys win.
		exec.Arguments[block.Step] = exec.Arguments[block.Step].Merge(args)
	}
	return exec, diags
}
