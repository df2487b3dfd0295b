// Package errz defines the error taxonomy shared by the parser, both backends
// and the toolchain driver.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrUnknown is reported by KindOf for errors that are not structured.
	ErrUnknown ErrorKind = iota
	// ErrStructural indicates an unmatched loop-start or loop-end.
	ErrStructural
	// ErrPointerRange indicates the pointer left the tape.
	ErrPointerRange
	// ErrEndOfInput indicates an input token found the input channel empty.
	ErrEndOfInput
	// ErrMultibyteInput indicates an input character wider than one byte.
	ErrMultibyteInput
	// ErrToolchain indicates a missing or failing assembler or linker.
	ErrToolchain
	// ErrConfig indicates an invalid setting, such as a tape that is too small.
	ErrConfig
	// ErrIO indicates a failure reading source or writing program output.
	ErrIO
	// ErrHalted indicates execution was stopped by an observer or a context.
	ErrHalted
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrStructural:
		return "structural error"
	case ErrPointerRange:
		return "pointer error"
	case ErrEndOfInput, ErrMultibyteInput:
		return "input error"
	case ErrToolchain:
		return "toolchain error"
	case ErrConfig:
		return "config error"
	case ErrIO:
		return "i/o error"
	case ErrHalted:
		return "halted"
	default:
		return "error"
	}
}

// StructuredError carries the error kind, the token position it refers to
// (or -1) and, when known, the location in the original source.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Code     ErrorCode
	Position int
	Location SourceLocation
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Location.String())
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns the message followed by the offending source
// line and a caret under the token, when a location is available.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("%s: %s", e.Kind.String(), e.Error()))
	msg.WriteString("\n")
	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString("^\n")
		}
	}
	return msg.String()
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithLocation attaches a source location to the error.
func (e *StructuredError) WithLocation(loc SourceLocation) *StructuredError {
	e.Location = loc
	return e
}

// New creates a StructuredError of the given kind that is not tied to a token.
func New(kind ErrorKind, code ErrorCode, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Code:     code,
		Position: -1,
	}
}

// NewAt creates a StructuredError that refers to the token at pos.
func NewAt(kind ErrorKind, code ErrorCode, pos int, format string, args ...any) *StructuredError {
	e := New(kind, code, format, args...)
	e.Position = pos
	return e
}

// KindOf returns the kind of the first StructuredError in err's chain, or
// ErrUnknown.
func KindOf(err error) ErrorKind {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind
	}
	var pe *PointerOutOfRange
	if errors.As(err, &pe) {
		return ErrPointerRange
	}
	return ErrUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Structural returns the error for an unmatched bracket at pos. open reports
// whether the bracket is a loop-start.
func Structural(pos int, open bool) *StructuredError {
	if open {
		return NewAt(ErrStructural, E1001, pos, "mismatched bracket at index %d: loop-start is never closed", pos)
	}
	return NewAt(ErrStructural, E1002, pos, "mismatched bracket at index %d: loop-end has no loop-start", pos)
}

// PointerOutOfRange is raised by the interpreter when a move leaves the tape.
// Bound is the offending pointer value: the tape length or -1.
type PointerOutOfRange struct {
	Bound    int
	Position int
}

func (e *PointerOutOfRange) Error() string {
	return fmt.Sprintf("pointer out of range (%d)", e.Bound)
}

// Structured converts the error into a StructuredError for uniform reporting.
func (e *PointerOutOfRange) Structured() *StructuredError {
	s := NewAt(ErrPointerRange, E3001, e.Position, "%s", e.Error())
	s.Cause = e
	return s
}

// EndOfInput returns the error raised when an input token finds no data.
func EndOfInput(pos int) *StructuredError {
	return NewAt(ErrEndOfInput, E3002, pos, "reached eof when scanning for input")
}

// MultibyteInput returns the error raised when one input character is
// encoded in more than one byte.
func MultibyteInput(pos int) *StructuredError {
	return NewAt(ErrMultibyteInput, E3003, pos, "interpreter does not accept multibyte characters")
}
