package parser

import (
	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/op"
)

// ResolveBrackets matches every loop-start with its loop-end in a single
// forward pass over tokens, using a stack of open positions.
//
// A loop-end with no open loop-start fails at its own index. When the end of
// the program is reached with loops still open, the innermost open loop-start
// is reported.
func ResolveBrackets(tokens []op.Code) (ast.BracketMap, error) {
	m := make(ast.BracketMap, len(tokens))
	var open []int
	for i, t := range tokens {
		m[i] = -1
		switch t {
		case op.LoopStart:
			open = append(open, i)
		case op.LoopEnd:
			if len(open) == 0 {
				return nil, errz.Structural(i, false)
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			m[start] = i
			m[i] = start
		}
	}
	if len(open) > 0 {
		return nil, errz.Structural(open[len(open)-1], true)
	}
	return m, nil
}
