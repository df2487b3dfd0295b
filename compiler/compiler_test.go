package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/op"
	"github.com/deepnoodle-ai/bfc/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	return prog
}

// body returns the generated code that follows the preamble.
func body(t *testing.T, asm string) string {
	t.Helper()
	idx := strings.Index(asm, "_start:\n")
	require.GreaterOrEqual(t, idx, 0)
	rest := asm[idx+len("_start:\n"):]
	end := strings.Index(rest, "\t.section .note.GNU-stack")
	require.GreaterOrEqual(t, end, 0)
	return strings.TrimRight(rest[:end], "\n")
}

func TestEmptyProgram(t *testing.T) {
	asm, err := Compile(parse(t, "only prose, nothing else"))
	require.Nil(t, err)
	require.Equal(t, "\tcall cleanup", body(t, asm))
	require.Contains(t, asm, "region:\n\t.skip 30000\n")
	require.Contains(t, asm, "movl $1024, %edx")
	require.Contains(t, asm, "write_byte:\n")
	require.Contains(t, asm, "read_byte:\n")
	require.Contains(t, asm, "cleanup:\n")
	require.Contains(t, asm, "abort:\n")
	require.Contains(t, asm, `.ascii "abort: pointer out of range\n"`)
}

func TestLoopAndIO(t *testing.T) {
	asm, err := Compile(parse(t, "+[>.]"))
	require.Nil(t, err)
	expected := strings.Join([]string{
		"\tmovslq pointer(%rip), %rax",
		"\tleaq region(%rip), %rcx",
		"\taddb $1, (%rcx,%rax)",
		".Lloop_1:",
		"\tmovslq pointer(%rip), %rax",
		"\tleaq region(%rip), %rcx",
		"\tcmpb $0, (%rcx,%rax)",
		"\tje .Lloop_4",
		"\taddl $1, pointer(%rip)",
		"\tcmpl $-1, pointer(%rip)",
		"\tje abort",
		"\tcall write_byte",
		".Lloop_4:",
		"\tmovslq pointer(%rip), %rax",
		"\tleaq region(%rip), %rcx",
		"\tcmpb $0, (%rcx,%rax)",
		"\tjne .Lloop_1",
		"\tcall cleanup",
	}, "\n")
	require.Equal(t, expected, body(t, asm))
}

func TestFoldedMoves(t *testing.T) {
	asm, err := Compile(parse(t, ">>>><<,<<<<<"))
	require.Nil(t, err)
	expected := strings.Join([]string{
		"\taddl $2, pointer(%rip)",
		"\tcmpl $-1, pointer(%rip)",
		"\tje abort",
		"\tcall read_byte",
		"\tsubl $5, pointer(%rip)",
		"\tcmpl $-1, pointer(%rip)",
		"\tje abort",
		"\tcall cleanup",
	}, "\n")
	require.Equal(t, expected, body(t, asm))
}

func TestFoldedMutations(t *testing.T) {
	asm, err := Compile(parse(t, "+++-.---"+strings.Repeat("-", 300)))
	require.Nil(t, err)
	expected := strings.Join([]string{
		"\tmovslq pointer(%rip), %rax",
		"\tleaq region(%rip), %rcx",
		"\taddb $2, (%rcx,%rax)",
		"\tcall write_byte",
		"\tmovslq pointer(%rip), %rax",
		"\tleaq region(%rip), %rcx",
		"\tsubb $47, (%rcx,%rax)",
		"\tcall cleanup",
	}, "\n")
	require.Equal(t, expected, body(t, asm))
}

func TestZeroNetRunsEmitNothing(t *testing.T) {
	src := strings.Repeat(">", 1000) + strings.Repeat("<", 1000) + "+-+-" + "><"
	asm, err := Compile(parse(t, src))
	require.Nil(t, err)
	require.Equal(t, "\tcall cleanup", body(t, asm))
	require.NotContains(t, body(t, asm), "abort")
}

func TestLabelsDerivedFromIndex(t *testing.T) {
	asm, err := Compile(parse(t, "[[]]"))
	require.Nil(t, err)
	b := body(t, asm)
	for _, want := range []string{".Lloop_0:", ".Lloop_1:", ".Lloop_2:", ".Lloop_3:",
		"je .Lloop_3", "je .Lloop_2", "jne .Lloop_1", "jne .Lloop_0"} {
		require.Contains(t, b, want)
	}
	require.Equal(t, ".Lloop_42", Label(42))
}

func TestStructuralErrorProducesNoOutput(t *testing.T) {
	tokens := []op.Code{op.Increment, op.LoopStart}
	prog := ast.NewProgram(tokens, nil, nil, "", "")
	asm, err := Compile(prog)
	require.Equal(t, "", asm)
	require.True(t, errz.Is(err, errz.ErrStructural))
}

func TestCellsAndChunkSize(t *testing.T) {
	c := New(WithCells(50000))
	require.Equal(t, 50000, c.Cells())
	require.Equal(t, 1024, c.ChunkSize())
	asm, err := c.Compile(parse(t, ""))
	require.Nil(t, err)
	require.Contains(t, asm, "\t.skip 50000\n")
	require.Contains(t, asm, "# generated by bfc: 50000 cells")

	c = New(WithChunkSize(64))
	require.Equal(t, 64, c.ChunkSize())
	asm, err = c.Compile(parse(t, ","))
	require.Nil(t, err)
	require.Contains(t, asm, "cmpq $64, %rax")
}

func TestTapeTooSmall(t *testing.T) {
	_, err := Compile(parse(t, "+"), WithCells(29999))
	require.NotNil(t, err)
	require.True(t, errz.Is(err, errz.ErrConfig))
	require.Contains(t, err.Error(), "minimum of 30000 cells")
}

func TestComments(t *testing.T) {
	asm, err := Compile(parse(t, "++>."), WithComments(true), WithFilename("x.bf"))
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(asm, "# source: x.bf\n"))
	b := body(t, asm)
	require.Contains(t, b, "\t# 0: ++\n")
	require.Contains(t, b, "\t# 2: >\n")
	require.Contains(t, b, "\t# 3: .\n")
}

func TestCompilerReusable(t *testing.T) {
	c := New()
	first, err := c.Compile(parse(t, "+."))
	require.Nil(t, err)
	second, err := c.Compile(parse(t, "+."))
	require.Nil(t, err)
	require.Equal(t, first, second)
}
