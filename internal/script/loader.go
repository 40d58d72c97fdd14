// Package script is the scripting frontend: it parses an HCL noise script
// and drives the construction API to build an expression graph.
//
// A script holds zero or more named algo blocks and exactly one result
// block. Each algo block binds algo.<name> for the expressions after it,
// so one sub-expression can feed several parents (the graph is a DAG, not
// a tree):
//
//	algo "base" {
//	  expr = octaves(simplex(42), 5, 0.5, 2.0)
//	}
//
//	result {
//	  expr = clamp(mul(algo.base, 1.25), -1, 1)
//	}
package script

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/noisebench/internal/ctxlog"
	"github.com/vk/noisebench/internal/noise"
)

// Loader builds noise graphs from HCL script files.
type Loader struct{}

// NewLoader creates a new script loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of one script file.
type fileRoot struct {
	Algos  []*algoBlock `hcl:"algo,block"`
	Result *resultBlock `hcl:"result,block"`
}

type algoBlock struct {
	Name string         `hcl:"name,label"`
	Expr hcl.Expression `hcl:"expr"`
}

type resultBlock struct {
	Expr hcl.Expression `hcl:"expr"`
}

// Load runs one full build pass over the script at path and returns the
// finished graph. Any rejection leaves no observable state behind: the
// generation built here is orphaned and discarded by the caller.
func (l *Loader) Load(ctx context.Context, path string) (*noise.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Script load started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse noise script %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode noise script %s: %w", path, diags)
	}

	f := &frontend{builder: noise.NewBuilder()}
	evalCtx := &hcl.EvalContext{
		Functions: f.functions(),
	}
	return l.build(ctx, path, &root, f, evalCtx)
}

// build evaluates the decoded blocks against the construction functions.
func (l *Loader) build(ctx context.Context, path string, root *fileRoot, f *frontend, evalCtx *hcl.EvalContext) (*noise.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	named := make(map[string]cty.Value)
	for _, blk := range root.Algos {
		if _, dup := named[blk.Name]; dup {
			return nil, &noise.BuildError{
				Kind:   noise.TypeMismatch,
				Detail: fmt.Sprintf("algo %q defined more than once", blk.Name),
			}
		}
		h, err := l.evalExpr(f, evalCtx, named, blk.Expr, "algo "+blk.Name)
		if err != nil {
			return nil, err
		}
		named[blk.Name] = wrapHandle(h)
		logger.Debug("Algo block bound.", "name", blk.Name, "handle", h)
	}

	if root.Result == nil {
		return nil, &noise.BuildError{
			Kind:   noise.MissingResult,
			Detail: fmt.Sprintf("script %s never designates a result", path),
		}
	}

	rootHandle, err := l.evalExpr(f, evalCtx, named, root.Result.Expr, "result")
	if err != nil {
		return nil, err
	}

	g, err := f.builder.Finish(rootHandle)
	if err != nil {
		return nil, err
	}
	logger.Debug("Script build finished.", "path", path, "nodes", g.NodeCount(), "root", g.Root())
	return g, nil
}

// evalExpr evaluates one expr attribute with the algo.<name> bindings seen
// so far. A bare numeric expression is auto-wrapped as a Const node; any
// other non-algo value is a type mismatch.
func (l *Loader) evalExpr(f *frontend, evalCtx *hcl.EvalContext, named map[string]cty.Value, expr hcl.Expression, what string) (noise.Handle, error) {
	childCtx := evalCtx.NewChild()
	childCtx.Variables = map[string]cty.Value{
		"algo": cty.ObjectVal(named),
	}

	v, diags := expr.Value(childCtx)
	if f.err != nil {
		// A construction function rejected the build; its BuildError
		// carries the exact kind, unlike the flattened diagnostic.
		err := f.err
		f.err = nil
		return 0, err
	}
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to evaluate %s expression: %w", what, diags)
	}
	return f.operand(what, v)
}
