package scramble_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/scramble"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func randomBits(t *rapid.T, label string) []byte {
	ints := rapid.SliceOfN(rapid.IntRange(0, 1), 0, 256).Draw(t, label)
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	return out
}

func TestCCSDSRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := randomBits(t, "bits")
		enc := scramble.CCSDS(true)
		dec := scramble.CCSDS(true)
		ct := enc.Scramble(bits)
		pt := dec.Descramble(ct)
		require.Equal(t, bits, pt)
	})
}

func TestG3RUHRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := randomBits(t, "bits")
		enc := scramble.G3RUH(true)
		dec := scramble.G3RUH(true)
		ct := enc.Scramble(bits)
		pt := dec.Descramble(ct)
		require.Equal(t, bits, pt)
	})
}

func TestG3RUHLSBOrientation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := randomBits(t, "bits")
		enc := scramble.G3RUH(false)
		dec := scramble.G3RUH(false)
		ct := enc.Scramble(bits)
		pt := dec.Descramble(ct)
		require.Equal(t, bits, pt)
	})
}

func TestReset(t *testing.T) {
	s := scramble.CCSDS(true)
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0}
	a := s.Scramble(bits)
	s.Reset()
	b := s.Scramble(bits)
	require.Equal(t, a, b)
}

func TestScrambleBytesRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		enc := scramble.CCSDS(true)
		dec := scramble.CCSDS(true)
		ct := enc.ScrambleBytes(data)
		pt := dec.DescrambleBytes(ct)
		require.Equal(t, data, pt)
	})
}
