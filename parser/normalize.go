package parser

import (
	"strings"

	"github.com/deepnoodle-ai/bfc/op"
)

// Normalize returns the maximal subsequence of source made only of the eight
// program symbols, in their original order. Every other character is a
// comment. Normalize is idempotent.
func Normalize(source string) string {
	var b strings.Builder
	b.Grow(len(source))
	for i := 0; i < len(source); i++ {
		if _, ok := op.FromByte(source[i]); ok {
			b.WriteByte(source[i])
		}
	}
	return b.String()
}

// Tokenize converts source into its token sequence together with the byte
// offset of each token in source.
func Tokenize(source string) ([]op.Code, []int) {
	tokens := make([]op.Code, 0, len(source))
	offsets := make([]int, 0, len(source))
	for i := 0; i < len(source); i++ {
		if c, ok := op.FromByte(source[i]); ok {
			tokens = append(tokens, c)
			offsets = append(offsets, i)
		}
	}
	return tokens, offsets
}
