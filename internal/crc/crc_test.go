package crc_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCCITTCheckValue(t *testing.T) {
	// CRC16-CCITT("123456789") == 0x29B1.
	require.Equal(t, uint32(0x29B1), crc.Compute(crc.CCITT, []byte("123456789")))
}

func TestAppendCheckRoundTrip(t *testing.T) {
	kinds := []crc.Kind{crc.CCITT, crc.AugCCITT, crc.CCITTReversed, crc.AX25, crc.IBM, crc.CRC32C}
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		for _, k := range kinds {
			framed := crc.Append(k, data, true)
			require.True(t, crc.Check(k, framed, true), "kind %v", k)
		}
	})
}

func TestFlippedBitFailsCheck(t *testing.T) {
	kinds := []crc.Kind{crc.CCITT, crc.AugCCITT, crc.CCITTReversed, crc.AX25, crc.IBM, crc.CRC32C}
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "data")
		idx := rapid.IntRange(0, len(data)-1).Draw(t, "idx")
		bit := rapid.IntRange(0, 7).Draw(t, "bit")
		for _, k := range kinds {
			framed := crc.Append(k, data, true)
			framed[idx] ^= 1 << uint(bit)
			require.False(t, crc.Check(k, framed, true), "kind %v", k)
		}
	})
}

func TestSize(t *testing.T) {
	require.Equal(t, 2, crc.Size(crc.CCITT))
	require.Equal(t, 4, crc.Size(crc.CRC32C))
}
