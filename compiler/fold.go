package compiler

import "github.com/deepnoodle-ai/bfc/op"

// Fold consumes the maximal run of tokens that share the class of
// tokens[pos] and returns the index just past the run together with the sum
// of their unit effects. The run must start on a move or mutation token;
// for any other token Fold consumes nothing and returns (pos, 0).
//
// A net of zero means the whole run cancels out and must produce no code.
func Fold(tokens []op.Code, pos int) (next int, net int) {
	if pos < 0 || pos >= len(tokens) {
		return pos, 0
	}
	class := tokens[pos].Class()
	if !class.Foldable() {
		return pos, 0
	}
	next = pos
	for next < len(tokens) && tokens[next].Class() == class {
		net += tokens[next].Delta()
		next++
	}
	return next, net
}
