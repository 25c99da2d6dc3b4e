package rs

// GF(256) arithmetic with primitive polynomial x^8+x^4+x^3+x^2+1 (0x11D),
// the conventional field used by CCITT/CCSDS Reed-Solomon codes.

const primPoly = 0x11D

// The tables are filled by a package-level initializer (not init) so they
// are ready before rs.go's generator polynomial is computed from them.
var expTable, logTable = buildTables()

func buildTables() (exp [512]byte, log [256]byte) {
	x := 1
	for i := 0; i < 255; i++ {
		exp[i] = byte(x)
		log[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= primPoly
		}
	}
	for i := 255; i < 512; i++ {
		exp[i] = exp[i-255]
	}
	return exp, log
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	if b == 0 {
		panic("rs: division by zero in GF(256)")
	}
	return expTable[(int(logTable[a])-int(logTable[b])+255)%255]
}

func gfPow(a byte, n int) byte {
	if a == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	e := (int(logTable[a]) * n) % 255
	if e < 0 {
		e += 255
	}
	return expTable[e]
}

func gfInv(a byte) byte {
	return expTable[255-int(logTable[a])]
}

// polyEval evaluates polynomial p (coefficients highest-degree first) at x.
func polyEval(p []byte, x byte) byte {
	y := p[0]
	for i := 1; i < len(p); i++ {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

// polyMul multiplies two polynomials (highest-degree-first coefficients).
func polyMul(a, b []byte) []byte {
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

// polyScale multiplies every coefficient of p by a scalar.
func polyScale(p []byte, scalar byte) []byte {
	out := make([]byte, len(p))
	for i, v := range p {
		out[i] = gfMul(v, scalar)
	}
	return out
}

// polyAdd adds (XORs) two polynomials, aligning by lowest-degree term.
func polyAdd(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out[n-len(a):], a)
	for i, v := range b {
		out[n-len(b)+i] ^= v
	}
	return out
}
