// Package bfc translates programs written in the eight-symbol tape language.
// A program can be compiled to x86-64 assembly text or run directly by the
// tape interpreter; both paths share the same parser and bracket map.
package bfc

import (
	"context"
	"io"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/compiler"
	"github.com/deepnoodle-ai/bfc/parser"
	"github.com/deepnoodle-ai/bfc/vm"
)

// Option configures a compilation or an evaluation.
type Option func(*options)

type options struct {
	cells    int
	filename string
	comments bool
	input    io.Reader
	output   io.Writer
	observer vm.Observer
}

func collectOptions(opts ...Option) *options {
	o := &options{cells: ast.MinCells}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) compilerOpts() []compiler.Option {
	opts := []compiler.Option{
		compiler.WithCells(o.cells),
		compiler.WithComments(o.comments),
	}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithCells(o.cells)}
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithCells sets the tape length. Values below ast.MinCells are rejected
// when the program is compiled or run.
func WithCells(cells int) Option {
	return func(o *options) {
		o.cells = cells
	}
}

// WithFilename sets the file name used in error locations and in the header
// of generated assembly.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithComments annotates generated assembly with the source of each group.
func WithComments(enabled bool) Option {
	return func(o *options) {
		o.comments = enabled
	}
}

// WithInput sets the reader the interpreter takes input characters from.
// Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the writer the interpreter sends output bytes to.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithObserver attaches an observer to the interpreter.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Parse normalizes source and resolves its brackets.
func Parse(source string, opts ...Option) (*ast.Program, error) {
	o := collectOptions(opts...)
	return parser.Parse(context.Background(), source, o.parserOpts()...)
}

// Check reports whether source is structurally valid. The returned error,
// if any, has kind errz.ErrStructural.
func Check(source string) error {
	_, err := Parse(source)
	return err
}

// Compile parses source and returns the assembly text of an equivalent
// standalone executable.
func Compile(source string, opts ...Option) (string, error) {
	o := collectOptions(opts...)
	prog, err := parser.Parse(context.Background(), source, o.parserOpts()...)
	if err != nil {
		return "", err
	}
	return compiler.Compile(prog, o.compilerOpts()...)
}

// Run interprets an already parsed program. Each call starts from a fresh
// zeroed tape.
func Run(ctx context.Context, prog *ast.Program, opts ...Option) error {
	o := collectOptions(opts...)
	return vm.Run(ctx, prog, o.vmOpts()...)
}

// Eval parses and interprets source. It is equivalent to Parse followed by
// Run.
func Eval(ctx context.Context, source string, opts ...Option) error {
	o := collectOptions(opts...)
	prog, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return err
	}
	return vm.Run(ctx, prog, o.vmOpts()...)
}
