// Package parser turns source text into an ast.Program: the source is
// normalized to the eight program symbols and every loop is matched before
// either backend sees it.
package parser

import (
	"context"
	"errors"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
)

// Option is a configuration function for Parse.
type Option func(*config)

type config struct {
	filename string
}

// WithFilename sets the file name reported in error locations.
func WithFilename(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

// Parse normalizes source and resolves its brackets. Structural errors carry
// the offending token index and its line and column in source.
func Parse(ctx context.Context, source string, options ...Option) (*ast.Program, error) {
	var cfg config
	for _, opt := range options {
		opt(&cfg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens, offsets := Tokenize(source)
	prog := ast.NewProgram(tokens, offsets, nil, source, cfg.filename)
	brackets, err := ResolveBrackets(tokens)
	if err != nil {
		var se *errz.StructuredError
		if errors.As(err, &se) {
			return nil, prog.Locate(se)
		}
		return nil, err
	}
	return ast.NewProgram(tokens, offsets, brackets, source, cfg.filename), nil
}
