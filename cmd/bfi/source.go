package main

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// sourceTerminator ends a program read from standard input.
const sourceTerminator = '!'

// readSource reads program text from r up to the first '!', which is
// consumed and not part of the program. Bytes after it stay buffered in r for
// the program to read. If r ends first, everything read is the program.
func readSource(r *bufio.Reader) (string, error) {
	text, err := r.ReadString(sourceTerminator)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return text, nil
		}
		return "", err
	}
	return strings.TrimSuffix(text, string(sourceTerminator)), nil
}
