package amsatduv_test

import (
	"testing"

	"github.com/klauspost/reedsolomon"
	"github.com/librespace/gsat-codec/protocol/amsatduv"
	"github.com/stretchr/testify/require"
)

// bitsMSB converts a 10-bit word to its bit slice, MSB first.
func bitsMSB10(word uint16) []byte {
	out := make([]byte, 10)
	for i := 0; i < 10; i++ {
		out[i] = byte((word >> uint(9-i)) & 1)
	}
	return out
}

// buildFrame hand-assembles a valid comma + RS(255,k)-encoded symbol
// stream for the given data payload, using the package's own RS(223,32)
// shortened scheme so the decoder's ReconstructData call has a real
// parity tail to work with.
func buildFrame(t *testing.T, data []byte) []byte {
	t.Helper()
	k := len(data)
	zeroCount := 223 - k

	shards := make([][]byte, 255)
	for i := 0; i < zeroCount; i++ {
		shards[i] = []byte{0}
	}
	for i := 0; i < k; i++ {
		shards[zeroCount+i] = []byte{data[i]}
	}
	for i := 0; i < 32; i++ {
		shards[zeroCount+k+i] = []byte{0}
	}

	enc, err := reedsolomon.New(223, 32)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(shards))

	var bits []byte
	bits = append(bits, bitsMSB10(0b0011111001)...) // commaPositive

	for i := 0; i < k+32; i++ {
		idx := zeroCount + i
		// value 0 maps to a 0-Hamming-distance codeword under the
		// package's synthetic table (balance bits derived from popcount).
		bits = append(bits, bitsMSB10(symbolFor(shards[idx][0]))...)
	}
	return bits
}

// symbolFor mirrors the package's own posTable construction so the test
// can hand-assemble exact-distance-zero codewords without exporting the
// table.
func symbolFor(b byte) uint16 {
	balance := uint16(popcount(b)) & 0x3
	return (uint16(b) << 2) | balance
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

func TestDecodeValidFrame(t *testing.T) {
	dec, err := amsatduv.NewDecoder(amsatduv.Options{MaxFrameLen: 64})
	require.NoError(t, err)

	data := make([]byte, 32)
	data[0] = 0x03 // spacecraft id 3, valid
	for i := range data {
		data[i] = byte(i)
	}
	data[0] = (data[0] &^ 0x07) | 0x03

	bits := buildFrame(t, data)
	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, data, status.Metadata["pdu"])
}

func TestDecodeRejectsInvalidSpacecraftID(t *testing.T) {
	dec, err := amsatduv.NewDecoder(amsatduv.Options{MaxFrameLen: 64})
	require.NoError(t, err)

	data := make([]byte, 32)
	data[0] = (data[0] &^ 0x07) | 0x07 // 7 is not in {1..5}

	bits := buildFrame(t, data)
	status := dec.Decode(bits)
	require.False(t, status.Success)
}
