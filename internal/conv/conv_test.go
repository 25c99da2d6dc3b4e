package conv_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/conv"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var rates = []string{"1/2", "2/3", "3/4", "5/6", "7/8"}

func hardToSoft(bits []byte) []int8 {
	out := make([]int8, len(bits))
	for i, b := range bits {
		if b == 1 {
			out[i] = 127
		} else {
			out[i] = -128
		}
	}
	return out
}

func randomDataBits(t *rapid.T, n int) []byte {
	raw := rapid.SliceOfN(rapid.IntRange(0, 1), n, n).Draw(t, "databits")
	out := make([]byte, n)
	for i, v := range raw {
		out[i] = byte(v)
	}
	return out
}

func decodeAll(rate string, punctured []int8, numDataBits int) []byte {
	soft := conv.Depuncture(punctured, rate, numDataBits)
	dec := conv.NewDecoder(rate)
	depth := conv.TruncationDepth(rate)
	chunk := depth * 2
	var out []byte
	for i := 0; i < len(soft); i += chunk {
		end := i + chunk
		if end > len(soft) {
			end = len(soft)
		}
		out = append(out, dec.DecodeChunk(soft[i:end])...)
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, rate := range rates {
		rate := rate
		t.Run(rate, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				n := rapid.IntRange(1, 64).Draw(t, "n")
				data := randomDataBits(t, n)
				padded := make([]byte, n+conv.ConstraintLength-1)
				copy(padded, data)

				punctured := conv.Encode(padded, rate)
				soft := hardToSoft(punctured)
				decoded := decodeAll(rate, soft, len(padded))

				require.GreaterOrEqual(t, len(decoded), n)
				require.Equal(t, padded, decoded[:len(padded)])
			})
		})
	}
}

// Convolutional rate 3/4 round trip over a random 128-byte payload,
// expressed here as 128*8 data bits with zero-tail finalization.
func TestRate3_4_128ByteScenario(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 128, 128).Draw(t, "payload")
		bits := make([]byte, 0, len(payload)*8)
		for _, b := range payload {
			for i := 7; i >= 0; i-- {
				bits = append(bits, (b>>uint(i))&1)
			}
		}
		padded := make([]byte, len(bits)+conv.ConstraintLength-1)
		copy(padded, bits)

		punctured := conv.Encode(padded, "3/4")
		soft := hardToSoft(punctured)
		decoded := decodeAll("3/4", soft, len(padded))

		require.Equal(t, padded, decoded[:len(padded)])

		out := make([]byte, len(payload))
		for i := range out {
			var v byte
			for b := 0; b < 8; b++ {
				v = (v << 1) | decoded[i*8+b]
			}
			out[i] = v
		}
		require.Equal(t, payload, out)
	})
}

func TestTruncationDepthMultipleOfPuncturePeriod(t *testing.T) {
	for _, rate := range rates {
		period := len(conv.Puncture[rate]) / 2
		depth := conv.TruncationDepth(rate)
		require.Zero(t, depth%period)
		require.Greater(t, depth, 0)
	}
}
