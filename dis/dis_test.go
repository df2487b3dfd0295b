package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/op"
	"github.com/deepnoodle-ai/bfc/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	prog, err := parser.Parse(context.Background(), "+++[->>+<<]><.,")
	require.Nil(t, err)
	instructions, err := Disassemble(prog)
	require.Nil(t, err)
	require.Equal(t, []Instruction{
		{Offset: 0, Length: 3, Name: "ADD", Operand: 3, Operands: true},
		{Offset: 3, Length: 1, Name: "JUMP_IF_ZERO", Operand: 10, Operands: true, Info: ".Lloop_10"},
		{Offset: 4, Length: 1, Name: "ADD", Operand: -1, Operands: true},
		{Offset: 5, Length: 2, Name: "MOVE", Operand: 2, Operands: true},
		{Offset: 7, Length: 1, Name: "ADD", Operand: 1, Operands: true},
		{Offset: 8, Length: 2, Name: "MOVE", Operand: -2, Operands: true},
		{Offset: 10, Length: 1, Name: "JUMP_IF_NOT_ZERO", Operand: 3, Operands: true, Info: ".Lloop_3"},
		{Offset: 13, Length: 1, Name: "OUTPUT"},
		{Offset: 14, Length: 1, Name: "INPUT"},
	}, instructions)
}

func TestDisassembleWithoutBrackets(t *testing.T) {
	prog := ast.NewProgram([]op.Code{op.LoopStart}, nil, nil, "[", "")
	_, err := Disassemble(prog)
	require.NotNil(t, err)
}

func TestPrint(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	prog, err := parser.Parse(context.Background(), "++[>.<-]")
	require.Nil(t, err)
	instructions, err := Disassemble(prog)
	require.Nil(t, err)

	var buf bytes.Buffer
	Print(instructions, &buf)
	expected := strings.TrimSpace(`
+--------+------------------+----------+----------+
| OFFSET |      OPCODE      | OPERANDS |   INFO   |
+--------+------------------+----------+----------+
|      0 | ADD              |        2 |          |
|      2 | JUMP_IF_ZERO     |        7 | .Lloop_7 |
|      3 | MOVE             |        1 |          |
|      4 | OUTPUT           |          |          |
|      5 | MOVE             |       -1 |          |
|      6 | ADD              |       -1 |          |
|      7 | JUMP_IF_NOT_ZERO |        2 | .Lloop_2 |
+--------+------------------+----------+----------+
`)
	require.Equal(t, expected+"\n", buf.String())
}
