package vm

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInputReadByte(t *testing.T) {
	in := NewInput(strings.NewReader("a\xffé"))
	b, err := in.ReadByte()
	require.Nil(t, err)
	require.Equal(t, byte('a'), b)

	b, err = in.ReadByte()
	require.Nil(t, err)
	require.Equal(t, byte(0xff), b)

	_, err = in.ReadByte()
	require.ErrorIs(t, err, ErrMultibyte)

	_, err = in.ReadByte()
	require.ErrorIs(t, err, io.EOF)
}

func TestInputSharesCallerBuffer(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("+++!xy"))
	src, err := br.ReadString('!')
	require.Nil(t, err)
	require.Equal(t, "+++!", src)

	in := NewInput(br)
	b, err := in.ReadByte()
	require.Nil(t, err)
	require.Equal(t, byte('x'), b)
}
