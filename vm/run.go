package vm

import (
	"context"

	"github.com/deepnoodle-ai/bfc/ast"
)

// Run executes prog in a new Virtual Machine.
func Run(ctx context.Context, prog *ast.Program, options ...Option) error {
	return New(prog, options...).Run(ctx)
}
