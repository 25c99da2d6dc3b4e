// Package ax100mode5 implements the AX.100 Mode 5 decoder and encoder:
// configurable preamble/sync with Hamming thresholds, a Golay-coded
// 24-bit length field, optional RS(255,223), optional CCSDS descramble,
// and configurable CRC.
//
// Grounded on gr-satnogs ax100_mode5.cc/ax100_mode5_encoder.cc.
package ax100mode5

import (
	"fmt"

	"github.com/librespace/gsat-codec/internal/crc"
)

// Options configures both Decoder and Encoder.
type Options struct {
	Preamble          []byte
	Sync              []byte
	PreambleThreshold int
	SyncThreshold     int
	RS                bool
	Scramble          bool // CCSDS additive
	CRCEnabled        bool
	CRCKind           crc.Kind
	MaxFrameLen       int
}

func (o Options) validate() error {
	if len(o.Sync)*8 < 8 {
		return fmt.Errorf("ax100mode5: sync length must be >= 8 bits")
	}
	if o.PreambleThreshold > len(o.Preamble)*8/2 {
		return fmt.Errorf("ax100mode5: preamble threshold too permissive")
	}
	if o.SyncThreshold > len(o.Sync)*8/2 {
		return fmt.Errorf("ax100mode5: sync threshold too permissive")
	}
	if o.MaxFrameLen <= 0 || o.MaxFrameLen > 255 {
		return fmt.Errorf("ax100mode5: max_frame_len out of range")
	}
	return nil
}

func bitsToUint(bits []byte) uint32 {
	var v uint32
	for _, b := range bits {
		v = (v << 1) | uint32(b&1)
	}
	return v
}

func uintToBits(v uint32, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = byte((v >> uint(i)) & 1)
	}
	return out
}

func bytesToValue(data []byte) uint64 {
	var v uint64
	for _, b := range data {
		v = (v << 8) | uint64(b)
	}
	return v
}
