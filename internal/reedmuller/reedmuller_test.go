package reedmuller_test

import (
	"math/bits"
	"testing"

	"github.com/librespace/gsat-codec/internal/reedmuller"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeNoError(t *testing.T) {
	for x := 0; x < 128; x++ {
		cw := reedmuller.Encode(uint8(x))
		require.Equal(t, uint8(x), reedmuller.Decode(cw))
	}
}

func TestDecodeCorrectsUpToFifteenErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := uint8(rapid.IntRange(0, 127).Draw(t, "x"))
		cw := reedmuller.Encode(x)
		n := rapid.IntRange(0, 15).Draw(t, "n")
		e := errorPattern(t, n)
		require.Equal(t, x, reedmuller.Decode(cw^e))
	})
}

func errorPattern(t *rapid.T, weight int) uint64 {
	var e uint64
	for bits.OnesCount64(e) < weight {
		pos := rapid.IntRange(0, 63).Draw(t, "pos")
		e |= 1 << uint(pos)
	}
	return e
}
