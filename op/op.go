// Package op defines the eight token codes shared by the parser, the compiler
// and the virtual machine.
package op

// Code is an integer code that identifies one of the eight program tokens.
type Code uint8

const (
	Invalid Code = 0

	// Pointer movement
	MoveRight Code = 1
	MoveLeft  Code = 2

	// Cell mutation
	Increment Code = 10
	Decrement Code = 11

	// I/O
	Output Code = 20
	Input  Code = 21

	// Loops
	LoopStart Code = 30
	LoopEnd   Code = 31
)

// Class groups codes whose effects may be combined or that share handling.
type Class uint8

const (
	ClassNone Class = iota
	ClassMove
	ClassMutate
	ClassIO
	ClassLoop
)

// String returns the name used for folded operations of this class in
// listings, for example "MOVE" for ClassMove.
func (c Class) String() string {
	switch c {
	case ClassMove:
		return "MOVE"
	case ClassMutate:
		return "ADD"
	case ClassIO:
		return "IO"
	case ClassLoop:
		return "LOOP"
	default:
		return "NONE"
	}
}

// Foldable reports whether runs of this class collapse into one operation.
func (c Class) Foldable() bool {
	return c == ClassMove || c == ClassMutate
}

// Info contains information about a code.
type Info struct {
	Code   Code
	Name   string
	Symbol byte
	Class  Class
	Delta  int
}

var (
	infos   = make([]Info, 256)
	symbols = make([]Code, 256)
)

func init() {
	ops := []Info{
		{MoveRight, "MOVE_RIGHT", '>', ClassMove, 1},
		{MoveLeft, "MOVE_LEFT", '<', ClassMove, -1},
		{Increment, "INCREMENT", '+', ClassMutate, 1},
		{Decrement, "DECREMENT", '-', ClassMutate, -1},
		{Output, "OUTPUT", '.', ClassIO, 0},
		{Input, "INPUT", ',', ClassIO, 0},
		{LoopStart, "LOOP_START", '[', ClassLoop, 0},
		{LoopEnd, "LOOP_END", ']', ClassLoop, 0},
	}
	for _, o := range ops {
		infos[o.Code] = o
		symbols[o.Symbol] = o.Code
	}
}

// GetInfo returns information about the given code.
func GetInfo(c Code) Info {
	return infos[c]
}

// All returns every valid code in declaration order.
func All() []Code {
	return []Code{MoveRight, MoveLeft, Increment, Decrement, Output, Input, LoopStart, LoopEnd}
}

// FromByte returns the code for a source symbol. The boolean is false for
// any byte that is not one of the eight recognized symbols.
func FromByte(b byte) (Code, bool) {
	c := symbols[b]
	return c, c != Invalid
}

func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}

// Symbol returns the source character for the code, or 0 if invalid.
func (c Code) Symbol() byte {
	return infos[c].Symbol
}

func (c Code) Class() Class {
	return infos[c].Class
}

// Delta is the signed unit effect of the code: +1 for a right move or an
// increment, -1 for a left move or a decrement and 0 for everything else.
func (c Code) Delta() int {
	return infos[c].Delta
}
