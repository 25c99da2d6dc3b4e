// Package crc implements the CRC family used across the protocol
// decoders: CCITT, AUG-CCITT, CCITT-reversed, AX.25, IBM and CRC32C, with
// a uniform append/check interface keyed by table.
package crc

import "encoding/binary"

// Kind identifies one of the six supported CRC algorithms.
type Kind int

const (
	CCITT Kind = iota
	AugCCITT
	CCITTReversed
	AX25
	IBM
	CRC32C
)

var reflectedTable = buildReflectedTable(0x8408)
var forwardTable = buildForwardTable(0x1021)
var ibmTable = buildReflectedTable(0xA001)
var crc32cTable = buildReflectedTable32(0x82F63B78)

func buildForwardTable(poly uint16) [256]uint16 {
	var t [256]uint16
	for i := 0; i < 256; i++ {
		c := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if c&0x8000 != 0 {
				c = (c << 1) ^ poly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}

func buildReflectedTable(poly uint16) [256]uint16 {
	var t [256]uint16
	for i := 0; i < 256; i++ {
		c := uint16(i)
		for b := 0; b < 8; b++ {
			if c&1 != 0 {
				c = (c >> 1) ^ poly
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

func buildReflectedTable32(poly uint32) [256]uint32 {
	var t [256]uint32
	for i := 0; i < 256; i++ {
		c := uint32(i)
		for b := 0; b < 8; b++ {
			if c&1 != 0 {
				c = (c >> 1) ^ poly
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

func ccitt(data []byte, init uint16) uint16 {
	c := init
	for _, b := range data {
		c = (c << 8) ^ forwardTable[byte(c>>8)^b]
	}
	return c
}

func ccittReversed(data []byte, init uint16) uint16 {
	c := init
	for _, b := range data {
		c = (c >> 8) ^ reflectedTable[byte(c)^b]
	}
	return c
}

func ibm(data []byte, init uint16) uint16 {
	c := init
	for _, b := range data {
		c = (c >> 8) ^ ibmTable[byte(c)^b]
	}
	return c
}

func crc32c(data []byte, init uint32) uint32 {
	c := init
	for _, b := range data {
		c = (c >> 8) ^ crc32cTable[byte(c)^b]
	}
	return c
}

// Compute returns the CRC value for data using the given algorithm,
// following polynomial/init/xorOut table exactly.
func Compute(kind Kind, data []byte) uint32 {
	switch kind {
	case CCITT:
		return uint32(ccitt(data, 0xFFFF))
	case AugCCITT:
		return uint32(ccitt(data, 0x1D0F))
	case CCITTReversed:
		return uint32(ccittReversed(data, 0xFFFF))
	case AX25:
		return uint32(ccittReversed(data, 0xFFFF) ^ 0xFFFF)
	case IBM:
		return uint32(ibm(data, 0))
	case CRC32C:
		return crc32c(data, 0xFFFFFFFF) ^ 0xFFFFFFFF
	default:
		panic("crc: unknown kind")
	}
}

// Size returns the number of trailing bytes the CRC occupies: 0 for an
// unrecognized/absent CRC, 2 for the 16-bit kinds, 4 for CRC32C.
func Size(kind Kind) int {
	switch kind {
	case CRC32C:
		return 4
	case CCITT, AugCCITT, CCITTReversed, AX25, IBM:
		return 2
	default:
		return 0
	}
}

// Append computes the CRC over data and returns data with the CRC bytes
// appended. When nbo is true the CRC is written network byte order
// (big-endian); AX.25 frames conventionally use little-endian (nbo=false).
func Append(kind Kind, data []byte, nbo bool) []byte {
	v := Compute(kind, data)
	out := make([]byte, len(data), len(data)+Size(kind))
	copy(out, data)
	if kind == CRC32C {
		var b [4]byte
		if nbo {
			binary.BigEndian.PutUint32(b[:], v)
		} else {
			binary.LittleEndian.PutUint32(b[:], v)
		}
		return append(out, b[:]...)
	}
	var b [2]byte
	if nbo {
		binary.BigEndian.PutUint16(b[:], uint16(v))
	} else {
		binary.LittleEndian.PutUint16(b[:], uint16(v))
	}
	return append(out, b[:]...)
}

// Check validates that the trailing CRC bytes of buf match the CRC of
// everything preceding them.
func Check(kind Kind, buf []byte, nbo bool) bool {
	n := Size(kind)
	if len(buf) < n {
		return false
	}
	body := buf[:len(buf)-n]
	trailer := buf[len(buf)-n:]
	want := Compute(kind, body)
	var got uint32
	if kind == CRC32C {
		if nbo {
			got = binary.BigEndian.Uint32(trailer)
		} else {
			got = binary.LittleEndian.Uint32(trailer)
		}
	} else {
		if nbo {
			got = uint32(binary.BigEndian.Uint16(trailer))
		} else {
			got = uint32(binary.LittleEndian.Uint16(trailer))
		}
	}
	return got == want
}
