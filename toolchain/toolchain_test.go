package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const fakeAssembler = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2;;
    *) shift;;
  esac
done
cat > "$out"
`

const fakeLinker = `#!/bin/sh
cp "$1" "$3"
`

const failingTool = `#!/bin/sh
echo "bad instruction on line 3" >&2
exit 1
`

func script(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestBuild(t *testing.T) {
	tmp := t.TempDir()
	as := script(t, "as", fakeAssembler)
	ld := script(t, "ld", fakeLinker)
	tc, err := Find(
		WithAssembler(as),
		WithLinker(ld),
		WithTempDir(tmp),
		WithLogger(zerolog.Nop()),
	)
	require.Nil(t, err)
	require.Equal(t, as, tc.Assembler())
	require.Equal(t, ld, tc.Linker())

	output := filepath.Join(t.TempDir(), "a.out")
	require.Nil(t, tc.Build(context.Background(), "\tcall cleanup\n", output))
	data, err := os.ReadFile(output)
	require.Nil(t, err)
	require.Equal(t, "\tcall cleanup\n", string(data))

	entries, err := os.ReadDir(tmp)
	require.Nil(t, err)
	require.Empty(t, entries)
}

func TestAssemblerFailure(t *testing.T) {
	tc, err := Find(
		WithAssembler(script(t, "as", failingTool)),
		WithLinker(script(t, "ld", fakeLinker)),
		WithLogger(zerolog.Nop()),
	)
	require.Nil(t, err)
	err = tc.Build(context.Background(), "garbage", filepath.Join(t.TempDir(), "a.out"))
	require.True(t, errz.Is(err, errz.ErrToolchain))
	require.Contains(t, err.Error(), "assembler failed")
	require.Contains(t, err.Error(), "bad instruction on line 3")
}

func TestLinkerFailure(t *testing.T) {
	tc, err := Find(
		WithAssembler(script(t, "as", fakeAssembler)),
		WithLinker(script(t, "ld", failingTool)),
		WithLogger(zerolog.Nop()),
	)
	require.Nil(t, err)
	output := filepath.Join(t.TempDir(), "a.out")
	err = tc.Build(context.Background(), "x", output)
	require.True(t, errz.Is(err, errz.ErrToolchain))
	require.Contains(t, err.Error(), "linker failed")
	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr))
}

func TestMissingTool(t *testing.T) {
	_, err := Find(WithAssembler("no-such-assembler-for-bfc-tests"), WithLogger(zerolog.Nop()))
	require.True(t, errz.Is(err, errz.ErrToolchain))
	require.Contains(t, err.Error(), "could not find assembler 'no-such-assembler-for-bfc-tests'")

	_, err = Find(
		WithAssembler(script(t, "as", fakeAssembler)),
		WithLinker("no-such-linker-for-bfc-tests"),
		WithLogger(zerolog.Nop()),
	)
	require.Contains(t, err.Error(), "could not find linker")
}
