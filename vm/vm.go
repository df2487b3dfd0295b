// Package vm provides a VirtualMachine that interprets a Program directly
// against a byte tape.
//
// Unlike the compiled form produced by package compiler, the interpreter
// checks both ends of the tape on every move: moving right from the last cell
// or left from the first cell fails immediately with a pointer error.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/op"
)

const (
	// MinCells is the smallest tape the language allows.
	MinCells = ast.MinCells

	// DefaultContextCheckInterval is the number of steps between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

type VirtualMachine struct {
	prog     *ast.Program
	tokens   []op.Code
	brackets ast.BracketMap

	ip      int // cursor into tokens
	pointer int
	tape    []byte
	cells   int
	steps   int64
	halt    int32

	input  *Input
	stdout io.Writer
	output *bufio.Writer

	running   bool
	runMutex  sync.Mutex
	stopWatch func() bool

	// contextCheckInterval is the number of steps between deterministic
	// checks of ctx.Done(). A value of 0 disables deterministic checking,
	// relying only on the background goroutine.
	contextCheckInterval int

	// observer receives a callback before each step, according to its
	// configured StepMode. If nil, no callbacks are made.
	observer    Observer
	observerCfg ObserverConfig
}

// New creates a new Virtual Machine for prog. Input defaults to os.Stdin and
// output to os.Stdout.
func New(prog *ast.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		prog:                 prog,
		tokens:               prog.Tokens(),
		brackets:             prog.Brackets(),
		cells:                MinCells,
		stdout:               os.Stdout,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.input == nil {
		vm.input = NewInput(os.Stdin)
	}
	if vm.observer != nil {
		vm.observerCfg = NormalizeConfig(vm.observer.Config())
	}
	return vm
}

// Run executes the program on a fresh, zeroed tape with the pointer and the
// cursor at 0. Execution ends when the cursor passes the last token or on the
// first error. Output written before an error is flushed.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if err := vm.start(ctx); err != nil {
		return err
	}
	defer vm.stop()

	if vm.cells < MinCells {
		return errz.New(errz.ErrConfig, errz.E2001,
			"a target machine size of %d is below the minimum of %d cells", vm.cells, MinCells)
	}
	if len(vm.brackets) != len(vm.tokens) {
		return errz.New(errz.ErrConfig, errz.E2001, "program has no bracket map")
	}

	vm.tape = make([]byte, vm.cells)
	vm.pointer = 0
	vm.ip = 0
	vm.steps = 0
	vm.output = bufio.NewWriter(vm.stdout)
	defer func() {
		if flushErr := vm.output.Flush(); flushErr != nil && err == nil {
			err = errz.New(errz.ErrIO, errz.E2003, "writing output: %v", flushErr).WithCause(flushErr)
		}
	}()
	return vm.eval(ctx)
}

func (vm *VirtualMachine) start(ctx context.Context) error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	// Halt execution when the context is cancelled
	atomic.StoreInt32(&vm.halt, 0)
	vm.stopWatch = context.AfterFunc(ctx, func() {
		atomic.StoreInt32(&vm.halt, 1)
	})
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
	if vm.stopWatch != nil {
		vm.stopWatch()
		vm.stopWatch = nil
	}
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	var stepCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	tokens := vm.tokens

	for vm.ip < len(tokens) {

		if atomic.LoadInt32(&vm.halt) == 1 {
			return vm.halted(ctx.Err())
		}

		// Deterministic check of ctx.Done() every N steps.
		if checkInterval > 0 && doneChan != nil {
			stepCount++
			if stepCount >= checkInterval {
				stepCount = 0
				select {
				case <-doneChan:
					atomic.StoreInt32(&vm.halt, 1)
					return vm.halted(ctx.Err())
				default:
				}
			}
		}

		tok := tokens[vm.ip]

		if vm.observer != nil && vm.shouldObserve() {
			event := StepEvent{
				IP:         vm.ip,
				Opcode:     tok,
				OpcodeName: tok.String(),
				Pointer:    vm.pointer,
				Cell:       vm.tape[vm.pointer],
				Step:       vm.steps,
			}
			if !vm.observer.OnStep(event) {
				return vm.halted(errors.New("execution halted by observer"))
			}
		}

		switch tok {
		case op.MoveRight:
			vm.pointer++
			if vm.pointer == len(vm.tape) {
				return vm.pointerError(len(vm.tape))
			}
		case op.MoveLeft:
			vm.pointer--
			if vm.pointer < 0 {
				return vm.pointerError(-1)
			}
		case op.Increment:
			vm.tape[vm.pointer]++
		case op.Decrement:
			vm.tape[vm.pointer]--
		case op.LoopStart:
			if vm.tape[vm.pointer] == 0 {
				vm.ip = vm.brackets[vm.ip]
			}
		case op.LoopEnd:
			if vm.tape[vm.pointer] != 0 {
				vm.ip = vm.brackets[vm.ip]
			}
		case op.Output:
			if err := vm.output.WriteByte(vm.tape[vm.pointer]); err != nil {
				return vm.fail(errz.NewAt(errz.ErrIO, errz.E2003, vm.ip, "writing output: %v", err).WithCause(err))
			}
		case op.Input:
			if err := vm.read(); err != nil {
				return err
			}
		}
		vm.ip++
		vm.steps++
	}
	return nil
}

func (vm *VirtualMachine) read() error {
	// Anything the program printed so far is visible before it blocks.
	if err := vm.output.Flush(); err != nil {
		return vm.fail(errz.NewAt(errz.ErrIO, errz.E2003, vm.ip, "writing output: %v", err).WithCause(err))
	}
	b, err := vm.input.ReadByte()
	switch {
	case err == nil:
		vm.tape[vm.pointer] = b
		return nil
	case errors.Is(err, io.EOF):
		return vm.fail(errz.EndOfInput(vm.ip))
	case errors.Is(err, ErrMultibyte):
		return vm.fail(errz.MultibyteInput(vm.ip))
	default:
		return vm.fail(errz.NewAt(errz.ErrIO, errz.E2003, vm.ip, "reading input: %v", err).WithCause(err))
	}
}

func (vm *VirtualMachine) shouldObserve() bool {
	switch vm.observerCfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return vm.steps%int64(vm.observerCfg.SampleInterval) == 0
	default:
		return false
	}
}

func (vm *VirtualMachine) pointerError(bound int) error {
	e := &errz.PointerOutOfRange{Bound: bound, Position: vm.ip}
	return vm.fail(e.Structured())
}

func (vm *VirtualMachine) halted(cause error) error {
	msg := "execution halted"
	if cause != nil {
		msg = cause.Error()
	}
	return vm.fail(errz.NewAt(errz.ErrHalted, errz.E3004, vm.ip, "%s", msg).WithCause(cause))
}

func (vm *VirtualMachine) fail(err *errz.StructuredError) error {
	return vm.prog.Locate(err)
}

// Pointer returns the pointer position after the last run.
func (vm *VirtualMachine) Pointer() int {
	return vm.pointer
}

// Cell returns the value of cell i after the last run, or 0 if i is outside
// the tape.
func (vm *VirtualMachine) Cell(i int) byte {
	if i < 0 || i >= len(vm.tape) {
		return 0
	}
	return vm.tape[i]
}

// Steps returns the number of tokens executed by the last run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}

// IP returns the cursor position after the last run. On failure it is the
// index of the token that failed.
func (vm *VirtualMachine) IP() int {
	return vm.ip
}
