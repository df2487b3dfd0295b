// Package toolchain drives the external assembler and linker that turn
// generated assembly text into an executable.
package toolchain

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAssembler = "as"
	DefaultLinker    = "ld"
)

// Toolchain holds the resolved paths of the assembler and the linker.
type Toolchain struct {
	assembler string
	linker    string
	tempDir   string
	logger    zerolog.Logger
}

// Option is a configuration function for Find.
type Option func(*Toolchain)

// WithAssembler overrides the assembler name or path.
func WithAssembler(name string) Option {
	return func(t *Toolchain) {
		t.assembler = name
	}
}

// WithLinker overrides the linker name or path.
func WithLinker(name string) Option {
	return func(t *Toolchain) {
		t.linker = name
	}
}

// WithTempDir sets the directory for the intermediate object file.
func WithTempDir(dir string) Option {
	return func(t *Toolchain) {
		t.tempDir = dir
	}
}

// WithLogger sets the logger used for build steps. The global zerolog
// logger is used by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Toolchain) {
		t.logger = logger
	}
}

// Find locates the assembler and the linker in PATH. A missing tool is a
// toolchain error.
func Find(options ...Option) (*Toolchain, error) {
	t := &Toolchain{
		assembler: DefaultAssembler,
		linker:    DefaultLinker,
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(t)
	}
	var err error
	if t.assembler, err = lookPath("assembler", t.assembler); err != nil {
		return nil, err
	}
	if t.linker, err = lookPath("linker", t.linker); err != nil {
		return nil, err
	}
	t.logger.Debug().Str("assembler", t.assembler).Str("linker", t.linker).Msg("toolchain found")
	return t, nil
}

func lookPath(role, name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errz.New(errz.ErrToolchain, errz.E2002, "could not find %s '%s'", role, name).WithCause(err)
	}
	return path, nil
}

// Assembler returns the resolved assembler path.
func (t *Toolchain) Assembler() string {
	return t.assembler
}

// Linker returns the resolved linker path.
func (t *Toolchain) Linker() string {
	return t.linker
}

// Build assembles asm and links the result into an executable at output.
// The assembly is passed to the assembler on standard input. Either tool
// exiting nonzero fails the build with the tool's diagnostics; nothing is
// retried. The intermediate object file is always removed.
func (t *Toolchain) Build(ctx context.Context, asm string, output string) (err error) {
	dir, err := os.MkdirTemp(t.tempDir, "bfc-")
	if err != nil {
		return errz.New(errz.ErrIO, errz.E2003, "creating temporary directory: %v", err).WithCause(err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			err = multierror.Append(err, rmErr).ErrorOrNil()
		}
	}()

	obj := filepath.Join(dir, "program.o")
	if err := t.run(ctx, "assembler", strings.NewReader(asm), t.assembler, "-o", obj, "--"); err != nil {
		return err
	}
	return t.run(ctx, "linker", nil, t.linker, obj, "-o", output)
}

func (t *Toolchain) run(ctx context.Context, role string, stdin *strings.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	t.logger.Debug().Str("tool", name).Strs("args", args).Msgf("running %s", role)
	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		t.logger.Debug().Err(err).Str("tool", name).Msgf("%s failed", role)
		e := errz.New(errz.ErrToolchain, errz.E2002, "%s failed", role).WithCause(err)
		if diag != "" {
			e.Message += "\n" + diag
		}
		return e
	}
	return nil
}
