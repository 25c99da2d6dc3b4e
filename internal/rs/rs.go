// Package rs implements the CCSDS Reed-Solomon RS(255,223) wrapper used
// throughout the protocol decoders: a byte-wise code over GF(256)
// correcting up to 16 byte errors per 255-byte block, with virtual zero
// padding so a shorter payload can still use the fixed (255,223) code
// (the "shortened code" construction).
//
// Grounded on gr-satnogs's rs_encoder.h (CCSDS RS(255,223) with virtual
// zero padding); the core GF(256) encode/decode pipeline here is the
// classic Berlekamp-Massey + Chien search + Forney algorithm decoder,
// since correcting byte errors (not just erasures) needs an explicit
// error locator. klauspost/reedsolomon (used by xtaci/kcptun's FEC
// layer) is an erasure-coding library rather than a general
// error-correcting decoder, so it is wired instead at the one call site
// that only ever needs erasure correction: protocol/amsatduv's Fox-DUV
// decoder, which already knows its erasure positions from 8b/10b
// nearest-symbol lookup.
package rs

import "fmt"

const (
	// N is the RS(255,223) block length.
	N = 255
	// K is the RS(255,223) message length.
	K = 223
	// NParity is the number of parity bytes (N-K).
	NParity = N - K
)

var generator = buildGenerator(NParity)

// buildGenerator returns g(x) = prod_{i=0}^{nsym-1} (x - alpha^i), stored
// highest-degree-first (same convention as gf256.go's polyMul helpers).
func buildGenerator(nsym int) []byte {
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		g = polyMul(g, []byte{1, gfPow(2, i)})
	}
	return g
}

// EncodeShortened computes the 32 parity bytes for data (len(data) <=
// K), treating the missing bytes up to K as virtual leading zeros (the
// "223-length virtual zero pad" shortened-code construction). The
// returned parity is always NParity bytes; it is appended to data (not
// the virtual padding) to form the transmitted frame.
func EncodeShortened(data []byte) ([]byte, error) {
	if len(data) > K {
		return nil, fmt.Errorf("rs: data length %d exceeds %d", len(data), K)
	}
	padded := make([]byte, K+NParity)
	copy(padded[K-len(data):K], data)

	remainder := make([]byte, len(padded))
	copy(remainder, padded)
	for i := 0; i < K; i++ {
		coef := remainder[i]
		if coef == 0 {
			continue
		}
		for j, g := range generator {
			remainder[i+j] ^= gfMul(g, coef)
		}
	}
	return remainder[K:], nil
}

// Result reports the outcome of a shortened RS decode.
type Result struct {
	Data      []byte
	Corrected int
	OK        bool
}

// DecodeShortened validates and corrects a received (data||parity) pair,
// where len(data) <= K and len(parity) == NParity, against the same
// virtual-zero-padded (255,223) code EncodeShortened uses. It corrects
// up to 16 byte errors anywhere in the logical 255-byte block, including
// in the virtual padding (which is assumed zero but may itself be
// reported as corrected if that assumption somehow doesn't hold).
func DecodeShortened(data, parity []byte) Result {
	if len(data) > K || len(parity) != NParity {
		return Result{OK: false}
	}
	block := make([]byte, N)
	copy(block[K-len(data):K], data)
	copy(block[K:], parity)

	corrected, ok := decodeBlock(block)
	if !ok {
		return Result{OK: false}
	}
	return Result{Data: block[K-len(data) : K], Corrected: corrected, OK: true}
}

// decodeBlock corrects up to 16 byte errors in a full 255-byte RS
// codeword (block, highest-degree-first i.e. transmission order) in
// place, returning the number of bytes corrected.
func decodeBlock(block []byte) (corrected int, ok bool) {
	synd := syndromes(block, NParity)
	allZero := true
	for _, s := range synd {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return 0, true
	}

	locator := berlekampMassey(synd)
	t := len(locator) - 1
	if t <= 0 || 2*t > NParity {
		return 0, false
	}

	positions, xs := chienSearch(locator, len(block))
	if len(positions) != t {
		return 0, false
	}

	omega := errorEvaluator(synd, locator, NParity)
	sigmaPrime := formalDerivative(locator)

	for k, pos := range positions {
		xinv := gfInv(xs[k])
		num := evalLH(omega, xinv)
		den := evalLH(sigmaPrime, xinv)
		if den == 0 {
			return 0, false
		}
		// With the first consecutive root at alpha^0, Forney's
		// magnitude carries an extra X_k factor.
		mag := gfMul(xs[k], gfDiv(num, den))
		block[pos] ^= mag
	}

	verify := syndromes(block, NParity)
	for _, s := range verify {
		if s != 0 {
			return 0, false
		}
	}
	return t, true
}

// syndromes computes S_j = block(alpha^j) for j = 0..nsym-1, using
// Horner's method over block in highest-degree-first order.
func syndromes(block []byte, nsym int) []byte {
	s := make([]byte, nsym)
	for j := 0; j < nsym; j++ {
		s[j] = polyEval(block, gfPow(2, j))
	}
	return s
}

// berlekampMassey runs the classic Massey shift-register synthesis over
// GF(256) to find the error locator polynomial C(x) (low-degree-first,
// C[0]=1) from the syndrome sequence.
func berlekampMassey(synd []byte) []byte {
	c := []byte{1}
	b := []byte{1}
	l := 0
	m := 1
	bCoef := byte(1)

	for n := 0; n < len(synd); n++ {
		delta := synd[n]
		for i := 1; i <= l; i++ {
			if i < len(c) {
				delta ^= gfMul(c[i], synd[n-i])
			}
		}
		if delta == 0 {
			m++
			continue
		}
		t := make([]byte, len(c))
		copy(t, c)

		coef := gfDiv(delta, bCoef)
		shifted := make([]byte, len(b)+m)
		for i, bv := range b {
			shifted[i+m] = gfMul(bv, coef)
		}
		c = lhAdd(c, shifted)

		if 2*l <= n {
			l = n + 1 - l
			b = t
			bCoef = delta
			m = 1
		} else {
			m++
		}
	}
	return c
}

// chienSearch finds the roots of locator over GF(256) among candidate
// error positions 0..n-1 in the block (highest-degree-first array of
// length n), returning each root's block index and its error-location
// value X_k = alpha^(n-1-index).
func chienSearch(locator []byte, n int) (positions []int, xs []byte) {
	for idx := 0; idx < n; idx++ {
		j := n - 1 - idx
		x := gfPow(2, j)
		xinv := gfInv(x)
		if evalLH(locator, xinv) == 0 {
			positions = append(positions, idx)
			xs = append(xs, x)
		}
	}
	return positions, xs
}

// errorEvaluator computes Omega(x) = (S(x) * C(x)) mod x^nsym, both
// polynomials low-degree-first.
func errorEvaluator(synd, locator []byte, nsym int) []byte {
	prod := lhMul(synd, locator)
	if len(prod) > nsym {
		prod = prod[:nsym]
	}
	return prod
}

// formalDerivative returns the GF(2)-formal derivative of a low-degree-
// first polynomial: only odd-power terms survive, shifted down one
// degree.
func formalDerivative(p []byte) []byte {
	if len(p) <= 1 {
		return []byte{0}
	}
	out := make([]byte, len(p)-1)
	for i := 1; i < len(p); i += 2 {
		out[i-1] = p[i]
	}
	return out
}

// --- low-degree-first polynomial helpers (index i = coefficient of x^i) ---

func lhAdd(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out, a)
	for i, v := range b {
		out[i] ^= v
	}
	return out
}

func lhMul(a, b []byte) []byte {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]byte, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] ^= gfMul(av, bv)
		}
	}
	return out
}

// evalLH evaluates a low-degree-first polynomial at x.
func evalLH(p []byte, x byte) byte {
	var y byte
	var xp byte = 1
	for _, c := range p {
		y ^= gfMul(c, xp)
		xp = gfMul(xp, x)
	}
	return y
}
