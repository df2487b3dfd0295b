// Package compiler translates an ast.Program into x86-64 assembly text for
// an external assembler and linker.
//
// # Code Shape
//
// The output is a fixed preamble (tape storage, a pointer cell and the I/O,
// cleanup and abort routines) followed by one instruction group per program
// element, and a final call to cleanup.
//
// Runs of pointer moves and runs of cell mutations are folded by Fold into a
// single signed quantity. A run that nets to zero emits nothing.
//
// # Labels
//
// Every loop token gets the label .Lloop_<index>, derived from its token
// index, so no symbol table is needed. A loop-start jumps to its loop-end's
// label when the current cell is zero; a loop-end jumps back to its
// loop-start's label when the cell is nonzero.
//
// # Bounds
//
// After each folded move the pointer is compared with -1 and the program
// aborts on equality. Only that lower sentinel is checked: a move that skips
// past -1 in one folded step, or that runs off the end of the tape, is not
// detected and its behavior is undefined. The interpreter in package vm checks
// both bounds on every step; the two backends intentionally differ here.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/op"
	"github.com/deepnoodle-ai/bfc/parser"
)

const (
	// MinCells is the smallest tape the language allows.
	MinCells = ast.MinCells

	// MaxChunkSize caps the default drain read size.
	MaxChunkSize = 1024
)

// Compiler generates assembly text for a Program.
type Compiler struct {
	cells     int
	chunkSize int
	comments  bool
	filename  string

	out strings.Builder
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithCells sets the number of tape cells reserved by the generated program.
func WithCells(cells int) Option {
	return func(c *Compiler) {
		c.cells = cells
	}
}

// WithChunkSize sets the read size used when draining input at exit. The
// default is the smaller of the cell count and MaxChunkSize.
func WithChunkSize(size int) Option {
	return func(c *Compiler) {
		c.chunkSize = size
	}
}

// WithComments annotates each instruction group with the source it came from.
func WithComments(enabled bool) Option {
	return func(c *Compiler) {
		c.comments = enabled
	}
}

// WithFilename sets the file name mentioned in the generated header.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{cells: MinCells}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Compile generates assembly for prog using a new Compiler.
func Compile(prog *ast.Program, options ...Option) (string, error) {
	return New(options...).Compile(prog)
}

// Cells returns the configured tape size.
func (c *Compiler) Cells() int {
	return c.cells
}

// ChunkSize returns the drain read size in effect.
func (c *Compiler) ChunkSize() int {
	if c.chunkSize > 0 {
		return c.chunkSize
	}
	return min(c.cells, MaxChunkSize)
}

func (c *Compiler) validate() error {
	if c.cells < MinCells {
		return errz.New(errz.ErrConfig, errz.E2001,
			"a target machine size of %d is below the minimum of %d cells", c.cells, MinCells)
	}
	if c.chunkSize < 0 {
		return errz.New(errz.ErrConfig, errz.E2001, "invalid chunk size %d", c.chunkSize)
	}
	return nil
}

// Compile returns the assembly text for prog. Nothing is returned unless
// the whole program compiles.
func (c *Compiler) Compile(prog *ast.Program) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	brackets := prog.Brackets()
	if len(brackets) != prog.Len() {
		var err error
		if brackets, err = parser.ResolveBrackets(prog.Tokens()); err != nil {
			var se *errz.StructuredError
			if errors.As(err, &se) {
				return "", prog.Locate(se)
			}
			return "", err
		}
	}

	c.out.Reset()
	if c.filename != "" {
		c.line("# source: %s", c.filename)
	}
	writePreamble(&c.out, c.cells, c.ChunkSize())

	tokens := prog.Tokens()
	pos := 0
	for pos < len(tokens) {
		tok := tokens[pos]
		if tok.Class().Foldable() {
			next, net := Fold(tokens, pos)
			c.comment(tokens, pos, next)
			if tok.Class() == op.ClassMove {
				c.compileMove(net)
			} else {
				c.compileMutate(net)
			}
			pos = next
			continue
		}
		c.comment(tokens, pos, pos+1)
		switch tok {
		case op.LoopStart:
			c.label(pos)
			c.loadCell()
			c.instr("cmpb $0, (%%rcx,%%rax)")
			c.instr("je %s", Label(brackets[pos]))
		case op.LoopEnd:
			c.label(pos)
			c.loadCell()
			c.instr("cmpb $0, (%%rcx,%%rax)")
			c.instr("jne %s", Label(brackets[pos]))
		case op.Output:
			c.instr("call write_byte")
		case op.Input:
			c.instr("call read_byte")
		}
		pos++
	}
	c.out.WriteString(epilogue)
	return c.out.String(), nil
}

func (c *Compiler) compileMove(net int) {
	switch {
	case net > 0:
		c.instr("addl $%d, pointer(%%rip)", net)
	case net < 0:
		c.instr("subl $%d, pointer(%%rip)", -net)
	default:
		return
	}
	c.instr("cmpl $-1, pointer(%%rip)")
	c.instr("je abort")
}

func (c *Compiler) compileMutate(net int) {
	if net == 0 {
		return
	}
	c.loadCell()
	if net > 0 {
		c.instr("addb $%d, (%%rcx,%%rax)", net%256)
	} else {
		c.instr("subb $%d, (%%rcx,%%rax)", (-net)%256)
	}
}

// loadCell leaves the pointer in %rax and the region base in %rcx.
func (c *Compiler) loadCell() {
	c.instr("movslq pointer(%%rip), %%rax")
	c.instr("leaq region(%%rip), %%rcx")
}

func (c *Compiler) label(pos int) {
	c.line("%s:", Label(pos))
}

func (c *Compiler) instr(format string, args ...any) {
	c.line("\t"+format, args...)
}

func (c *Compiler) line(format string, args ...any) {
	fmt.Fprintf(&c.out, format+"\n", args...)
}

func (c *Compiler) comment(tokens []op.Code, from, to int) {
	if !c.comments {
		return
	}
	var b strings.Builder
	for _, t := range tokens[from:to] {
		b.WriteByte(t.Symbol())
	}
	src := b.String()
	if len(src) > 16 {
		src = fmt.Sprintf("%s... (%d)", src[:16], len(src))
	}
	c.line("\t# %d: %s", from, src)
}

// Label returns the assembler label for the loop token at index pos.
func Label(pos int) string {
	return fmt.Sprintf(".Lloop_%d", pos)
}
