// Package ast defines the Program produced by the parser: the normalized
// token sequence together with its bracket map and the source it came from.
package ast

import (
	"strings"

	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/op"
)

// MinCells is the smallest tape the language allows.
const MinCells = 30000

// BracketMap maps the index of every loop token to the index of its matching
// partner. Entries for non-loop tokens are -1.
type BracketMap []int

// Match returns the partner of the loop token at i.
func (m BracketMap) Match(i int) (int, bool) {
	if i < 0 || i >= len(m) || m[i] < 0 {
		return 0, false
	}
	return m[i], true
}

// Pairs returns the number of matched loop-start/loop-end pairs.
func (m BracketMap) Pairs() int {
	n := 0
	for i, j := range m {
		if j > i {
			n++
		}
	}
	return n
}

// Program is an immutable, normalized token sequence. It is built once by the
// parser and is read-only afterwards; backends must not modify the slices it
// returns.
type Program struct {
	tokens   []op.Code
	offsets  []int
	brackets BracketMap
	source   string
	filename string
}

// NewProgram assembles a Program. offsets holds the byte offset of each token
// in source and may be nil when the tokens were not read from text.
func NewProgram(tokens []op.Code, offsets []int, brackets BracketMap, source, filename string) *Program {
	return &Program{
		tokens:   tokens,
		offsets:  offsets,
		brackets: brackets,
		source:   source,
		filename: filename,
	}
}

// Len returns the number of tokens.
func (p *Program) Len() int {
	return len(p.tokens)
}

// At returns the token at index i.
func (p *Program) At(i int) op.Code {
	return p.tokens[i]
}

// Tokens returns the token sequence.
func (p *Program) Tokens() []op.Code {
	return p.tokens
}

// Brackets returns the bracket map.
func (p *Program) Brackets() BracketMap {
	return p.brackets
}

// Match returns the partner of the loop token at i.
func (p *Program) Match(i int) (int, bool) {
	return p.brackets.Match(i)
}

// Source returns the original, un-normalized source text.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// String returns the normalized program text.
func (p *Program) String() string {
	var b strings.Builder
	b.Grow(len(p.tokens))
	for _, t := range p.tokens {
		b.WriteByte(t.Symbol())
	}
	return b.String()
}

// Location returns the position in the original source of the token at pos.
// The zero location is returned when offsets are unknown.
func (p *Program) Location(pos int) errz.SourceLocation {
	if pos < 0 || pos >= len(p.offsets) {
		return errz.SourceLocation{Filename: p.filename}
	}
	offset := p.offsets[pos]
	lineStart := strings.LastIndexByte(p.source[:offset], '\n') + 1
	lineEnd := strings.IndexByte(p.source[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(p.source)
	} else {
		lineEnd += offset
	}
	return errz.SourceLocation{
		Filename: p.filename,
		Line:     strings.Count(p.source[:lineStart], "\n") + 1,
		Column:   offset - lineStart + 1,
		Source:   strings.TrimRight(p.source[lineStart:lineEnd], "\r"),
	}
}

// Locate attaches the source location of the error's token, if it has one,
// and returns the error.
func (p *Program) Locate(err *errz.StructuredError) *errz.StructuredError {
	if err.Position >= 0 && err.Location.IsZero() {
		err.Location = p.Location(err.Position)
	}
	return err
}
