package vm

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrMultibyte is returned by Input.ReadByte when the next character is
// encoded in more than one byte.
var ErrMultibyte = errors.New("multibyte character")

// Input is the program's input channel. It wraps a buffered reader owned by
// the caller, so bytes the caller has already buffered (for example, input
// that followed the program text on stdin) are delivered to the program.
type Input struct {
	r *bufio.Reader
}

// NewInput returns an Input reading from r. If r is already a *bufio.Reader
// it is used as is.
func NewInput(r io.Reader) *Input {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Input{r: br}
}

// ReadByte reads one character. It returns io.EOF when the channel is
// exhausted and ErrMultibyte when the character needs more than one byte.
// Bytes that are not valid UTF-8 are delivered unchanged.
func (in *Input) ReadByte() (byte, error) {
	r, size, err := in.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if r == utf8.RuneError && size == 1 {
		if err := in.r.UnreadRune(); err != nil {
			return 0, err
		}
		return in.r.ReadByte()
	}
	if size > 1 {
		return 0, ErrMultibyte
	}
	return byte(r), nil
}
