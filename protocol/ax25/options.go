// Package ax25 implements the legacy AX.25 HDLC decoder and encoder.
//
// Grounded on direwolf's ax25_pad.go (addressing, SSID byte layout) and
// hdlc_rec.go/hdlc_rec2.go (bit-stuffing, flag hunt, 1-bit fixup), cross
// checked against gr-satnogs ax25_decoder.cc/ax25_encoder.cc for the
// decode-state-machine and CRC/promiscuous-filter semantics.
package ax25

import "fmt"

const flag = 0x7E

// DecoderOptions configures a Decoder
type DecoderOptions struct {
	Address         string
	SSID            byte
	Promiscuous     bool
	Descramble      bool // G3RUH self-synchronizing descramble
	NRZI            bool // NRZI-decode the line before framing
	CRCCheck        bool
	MaxFrameLen     int
	ErrorCorrection bool // brute-force single-bit fixup on CRC failure
}

func (o DecoderOptions) validate() error {
	if o.MaxFrameLen < 18 {
		return fmt.Errorf("ax25: max_frame_len must be >= 18 (16-byte header + 2-byte FCS), got %d", o.MaxFrameLen)
	}
	if !o.Promiscuous && (len(o.Address) < 1 || len(o.Address) > 6) {
		return fmt.Errorf("ax25: callsign length out of range: %q", o.Address)
	}
	return nil
}

// EncoderOptions configures an Encoder
type EncoderOptions struct {
	Dest, Src         string
	DestSSID, SrcSSID byte
	PreambleLen       int
	PostambleLen      int
	Scramble          bool // G3RUH
	NRZI              bool
	MaxFrameLen       int
}

func (o EncoderOptions) validate() error {
	if len(o.Dest) < 1 || len(o.Dest) > 6 {
		return fmt.Errorf("ax25: dest callsign length out of range: %q", o.Dest)
	}
	if len(o.Src) < 1 || len(o.Src) > 6 {
		return fmt.Errorf("ax25: src callsign length out of range: %q", o.Src)
	}
	if o.MaxFrameLen < 18 {
		return fmt.Errorf("ax25: max_frame_len must be >= 18 (16-byte header + 2-byte FCS), got %d", o.MaxFrameLen)
	}
	return nil
}

// reservedSSID is the fixed reserved-bits pattern for the SSID byte,
// per the resolution recorded in DESIGN.md.
const reservedSSID = 0x60

func callsignField(call string, ssid byte, last bool) []byte {
	padded := []byte("      ")
	copy(padded, call)
	for i := range padded {
		if padded[i] >= 'a' && padded[i] <= 'z' {
			padded[i] -= 'a' - 'A'
		}
		padded[i] <<= 1
	}
	out := make([]byte, 7)
	copy(out, padded)
	b := reservedSSID | (ssid << 1)
	if last {
		b |= 0x01
	}
	out[6] = b
	return out
}
