// Package conv implements the K=7 rate-1/2 convolutional code
// (polynomials 0171/0133 octal) with puncturing to 2/3, 3/4, 5/6 and
// 7/8, and a truncation-depth Viterbi decoder over soft symbols.
//
// Grounded on gr-satnogs conv_encoder.h/conv_decoder.h (the USP payload
// FEC stage); direwolf has no convolutional coding stage.
package conv

const (
	// ConstraintLength is K.
	ConstraintLength = 7
	poly1            = 0171 // octal, generator polynomial G1
	poly2            = 0133 // octal, generator polynomial G2
	numStates        = 1 << (ConstraintLength - 1)
)

// parity returns the GF(2) parity (XOR of all set bits) of v.
func parity(v uint32) byte {
	v ^= v >> 16
	v ^= v >> 8
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return byte(v & 1)
}

// outputs returns the two encoder output bits for the given 6-bit shift
// register state and incoming data bit. The second output bit is
// inverted, a convention required by matching peers.
func outputs(state uint8, bit byte) (o1, o2 byte) {
	reg := (uint32(bit) << (ConstraintLength - 1)) | uint32(state)
	o1 = parity(reg & poly1)
	o2 = parity(reg&poly2) ^ 1
	return
}

// Puncture maps a named code rate to the puncturing pattern applied to
// the rate-1/2 mother code's output pairs: true means "transmit this
// output bit", false means "drop it". Patterns repeat every len(pattern)
// output bits (pattern length is 2*period for a rate period/(period+k)
// code).
var Puncture = map[string][]bool{
	"1/2": {true, true},
	"2/3": {true, true, false, true},
	"3/4": {true, true, false, true, true, false},
	"5/6": {true, true, false, true, true, false, false, true, true, false},
	"7/8": {true, true, false, true, true, false, false, true, true, false, false, true, true, false},
}

// Encode runs the rate-1/2 mother code over the data bits (one bit per
// byte) starting from the zero state, then applies the named puncture
// pattern. The returned bits are one-bit-per-byte, output-bit-interleaved
// (o1,o2,o1,o2,...) before puncturing.
func Encode(data []byte, rate string) []byte {
	return encodeState(data, rate, 0)
}

// encodeState runs the encoder starting from an explicit initial 6-bit
// shift register state, returning the punctured output bits and leaving
// the final state recoverable by re-deriving it from the last 6 input
// bits (the encoder is otherwise stateless between calls, per 
// init_viterbi(state) block model).
func encodeState(data []byte, rate string, state uint8) []byte {
	pattern := Puncture[rate]
	if pattern == nil {
		panic("conv: unknown rate " + rate)
	}
	mother := make([]byte, 0, len(data)*2)
	st := state
	for _, bit := range data {
		o1, o2 := outputs(st, bit&1)
		mother = append(mother, o1, o2)
		st = ((st << 1) | (bit & 1)) & (numStates - 1)
	}
	return puncture(mother, pattern)
}

// Finalize pads data with 6 zero tail bits (encoder warm-down) and
// encodes it, matching encoder.finalize behavior.
func Finalize(data []byte, rate string) []byte {
	padded := make([]byte, len(data)+ConstraintLength-1)
	copy(padded, data)
	return Encode(padded, rate)
}

func puncture(mother []byte, pattern []bool) []byte {
	out := make([]byte, 0, len(mother))
	for i, b := range mother {
		if pattern[i%len(pattern)] {
			out = append(out, b)
		}
	}
	return out
}

// Depuncture inserts neutral soft symbols (0, meaning erasure/no
// decision) at the positions the named rate's pattern dropped, restoring
// a rate-1/2 soft-symbol stream of length 2*numDataBits for Viterbi
// decoding ("depuncturing inserts neutral soft symbols").
func Depuncture(punctured []int8, rate string, numDataBits int) []int8 {
	pattern := Puncture[rate]
	out := make([]int8, numDataBits*2)
	pi := 0
	for i := range out {
		if pattern[i%len(pattern)] {
			if pi < len(punctured) {
				out[i] = punctured[pi]
			}
			pi++
		} else {
			out[i] = 0
		}
	}
	return out
}

// TruncationDepth returns the Viterbi decoding block depth for a rate
// expressed as numerator/denominator (e.g. "3/4"):
// round_up_to_rate(3*K/(1-R)) plus ~25% slack.
func TruncationDepth(rate string) int {
	num, den := rateFraction(rate)
	r := float64(num) / float64(den)
	base := 3.0 * float64(ConstraintLength) / (1 - r)
	depth := int(base*1.25 + 0.999999)
	// Round up to a multiple of the output period so block boundaries
	// align with the puncture pattern.
	period := len(Puncture[rate]) / 2
	if period == 0 {
		period = 1
	}
	if depth%period != 0 {
		depth += period - depth%period
	}
	return depth
}

func rateFraction(rate string) (num, den int) {
	switch rate {
	case "1/2":
		return 1, 2
	case "2/3":
		return 2, 3
	case "3/4":
		return 3, 4
	case "5/6":
		return 5, 6
	case "7/8":
		return 7, 8
	default:
		panic("conv: unknown rate " + rate)
	}
}
