// Package dis lists the folded operation stream of a program: what each
// backend effectively executes after run-length folding.
package dis

import (
	"io"
	"strconv"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/compiler"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/internal/table"
	"github.com/deepnoodle-ai/bfc/op"
	"github.com/fatih/color"
)

// Instruction is one folded operation.
type Instruction struct {
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Name     string `json:"name"`
	Operand  int    `json:"operand"`
	Operands bool   `json:"-"`
	Info     string `json:"info,omitempty"`
}

// Disassemble returns the folded operations of prog. Runs whose net effect
// is zero do not appear, matching what the compiler emits.
func Disassemble(prog *ast.Program) ([]Instruction, error) {
	tokens := prog.Tokens()
	brackets := prog.Brackets()
	if len(brackets) != len(tokens) {
		return nil, errz.New(errz.ErrConfig, errz.E2001, "program has no bracket map")
	}
	var result []Instruction
	pos := 0
	for pos < len(tokens) {
		tok := tokens[pos]
		if tok.Class().Foldable() {
			next, net := compiler.Fold(tokens, pos)
			if net != 0 {
				result = append(result, Instruction{
					Offset:   pos,
					Length:   next - pos,
					Name:     tok.Class().String(),
					Operand:  net,
					Operands: true,
				})
			}
			pos = next
			continue
		}
		instr := Instruction{Offset: pos, Length: 1, Name: tok.String()}
		switch tok {
		case op.LoopStart:
			instr.Name = "JUMP_IF_ZERO"
			instr.Operand, instr.Operands = brackets[pos], true
			instr.Info = compiler.Label(brackets[pos])
		case op.LoopEnd:
			instr.Name = "JUMP_IF_NOT_ZERO"
			instr.Operand, instr.Operands = brackets[pos], true
			instr.Info = compiler.Label(brackets[pos])
		}
		result = append(result, instr)
		pos++
	}
	return result, nil
}

// Print writes instructions to w as a table.
func Print(instructions []Instruction, w io.Writer) {
	bold := color.New(color.Bold)
	headers := []string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}
	for i, h := range headers {
		headers[i] = bold.Sprint(h)
	}
	t := table.NewTable(w)
	t.WithHeader(headers)
	t.WithHeaderAlignment([]table.Alignment{table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter})
	t.WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft})
	for _, instr := range instructions {
		operand := ""
		if instr.Operands {
			operand = strconv.Itoa(instr.Operand)
		}
		t.Append([]string{strconv.Itoa(instr.Offset), instr.Name, operand, instr.Info})
	}
	t.Render()
}
