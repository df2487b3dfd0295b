package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(LoopStart)
	require.Equal(t, "LOOP_START", info.Name)
	require.Equal(t, byte('['), info.Symbol)
	require.Equal(t, ClassLoop, info.Class)
	require.Equal(t, LoopStart, info.Code)
}

func TestGetInfoAllCodes(t *testing.T) {
	tests := []struct {
		code   Code
		name   string
		symbol byte
		class  Class
		delta  int
	}{
		{MoveRight, "MOVE_RIGHT", '>', ClassMove, 1},
		{MoveLeft, "MOVE_LEFT", '<', ClassMove, -1},
		{Increment, "INCREMENT", '+', ClassMutate, 1},
		{Decrement, "DECREMENT", '-', ClassMutate, -1},
		{Output, "OUTPUT", '.', ClassIO, 0},
		{Input, "INPUT", ',', ClassIO, 0},
		{LoopStart, "LOOP_START", '[', ClassLoop, 0},
		{LoopEnd, "LOOP_END", ']', ClassLoop, 0},
	}
	require.Len(t, All(), len(tests))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.code.String())
			require.Equal(t, tt.symbol, tt.code.Symbol())
			require.Equal(t, tt.class, tt.code.Class())
			require.Equal(t, tt.delta, tt.code.Delta())
			c, ok := FromByte(tt.symbol)
			require.True(t, ok)
			require.Equal(t, tt.code, c)
		})
	}
}

func TestFromByteRejectsOtherCharacters(t *testing.T) {
	for _, b := range []byte("abc !#\n\t0{}()") {
		_, ok := FromByte(b)
		require.False(t, ok, "byte %q", b)
	}
	require.Equal(t, "INVALID", Invalid.String())
	require.Equal(t, byte(0), Invalid.Symbol())
}

func TestClassFoldable(t *testing.T) {
	require.True(t, ClassMove.Foldable())
	require.True(t, ClassMutate.Foldable())
	require.False(t, ClassIO.Foldable())
	require.False(t, ClassLoop.Foldable())
	require.Equal(t, "MOVE", ClassMove.String())
	require.Equal(t, "ADD", ClassMutate.String())
}
