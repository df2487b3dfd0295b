package vm

import "io"

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithCells sets the tape length. It must be at least MinCells.
func WithCells(cells int) Option {
	return func(vm *VirtualMachine) {
		vm.cells = cells
	}
}

// WithInput sets the reader that input tokens consume.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = NewInput(r)
	}
}

// WithOutput sets the writer that output tokens write to.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.stdout = w
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of steps. A value of 0
// disables deterministic checking, relying only on the background goroutine
// that monitors the context.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false from OnStep halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
