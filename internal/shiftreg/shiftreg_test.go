package shiftreg_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/shiftreg"
	"github.com/stretchr/testify/require"
)

func TestPushAndMatch(t *testing.T) {
	r := shiftreg.New(8)
	for _, b := range []byte{0, 1, 1, 1, 1, 1, 1, 0} {
		r.Push(b)
	}
	require.Equal(t, uint64(0x7E), r.Value())
	require.True(t, r.Matches(0x7E, 0))
}

func TestMatchesThreshold(t *testing.T) {
	r := shiftreg.New(8)
	r.Push(1)
	for i := 0; i < 7; i++ {
		r.Push(1)
	}
	// value is 0xFF: one bit away from 0xFE, three bits away from 0x7C
	require.True(t, r.Matches(0xFE, 1))
	require.False(t, r.Matches(0x7C, 0))
	require.True(t, r.Matches(0x7C, 3))
}

func TestXorAndCountOnes(t *testing.T) {
	a := shiftreg.New(8)
	b := shiftreg.New(8)
	for _, bit := range []byte{1, 1, 1, 1, 0, 0, 0, 0} {
		a.Push(bit)
	}
	for _, bit := range []byte{1, 1, 0, 0, 0, 0, 1, 1} {
		b.Push(bit)
	}
	x := a.Xor(b)
	require.Equal(t, 4, x.CountOnes())
}

func TestReset(t *testing.T) {
	r := shiftreg.New(4)
	r.Push(1)
	r.Push(1)
	r.Reset()
	require.Equal(t, uint64(0), r.Value())
}
