package vm

import (
	"github.com/deepnoodle-ai/bfc/op"
	"github.com/rs/zerolog"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every token executed.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N steps.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of steps between OnStep calls when
	// StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NewObserverConfig creates a config with safe defaults.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives execution events. It can be used for tracing, step
// counting or breakpoints without modifying the VM.
type Observer interface {
	// Config returns the observer's configuration. Called once when the VM
	// is created.
	Config() ObserverConfig

	// OnStep is called before a token executes, according to the StepMode.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool
}

// StepEvent describes the machine state just before a token executes.
type StepEvent struct {
	// IP is the index of the token about to execute.
	IP int

	// Opcode is the token about to execute.
	Opcode op.Code

	// OpcodeName is the human-readable name of the token.
	OpcodeName string

	// Pointer is the current tape position.
	Pointer int

	// Cell is the value of the cell under the pointer.
	Cell byte

	// Step is the number of tokens executed so far.
	Step int64
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// TraceObserver logs execution steps to a zerolog logger at debug level and
// optionally stops the program after a step limit.
type TraceObserver struct {
	Logger zerolog.Logger
	Mode   ObserverConfig
	// MaxSteps halts execution once this many steps have run. 0 means no
	// limit.
	MaxSteps int64
}

// NewTraceObserver returns a TraceObserver that logs every step.
func NewTraceObserver(logger zerolog.Logger) *TraceObserver {
	return &TraceObserver{Logger: logger, Mode: NewObserverConfig(StepAll)}
}

func (o *TraceObserver) Config() ObserverConfig {
	return o.Mode
}

func (o *TraceObserver) OnStep(e StepEvent) bool {
	if o.MaxSteps > 0 && e.Step >= o.MaxSteps {
		o.Logger.Warn().Int64("steps", e.Step).Msg("step limit reached")
		return false
	}
	o.Logger.Debug().
		Int64("step", e.Step).
		Int("ip", e.IP).
		Str("op", e.OpcodeName).
		Int("ptr", e.Pointer).
		Uint8("cell", e.Cell).
		Msg("step")
	return true
}
