// Package usp implements the USP (SPUTNIX) encoder: a Reed-Muller-
// encoded, fixed-scrambled Physical Layer Signalling word
// appended to a preamble+sync prelude, followed by an RS(255,223) +
// optional-additive-scramble + rate-1/2 convolutional payload path.
//
// Grounded on gr-satnogs usp_encoder.h; no teacher equivalent exists
// (direwolf has no PLS/convolutional stage), so the PLS and payload
// pipelines are built directly from internal/reedmuller, internal/rs,
// internal/scramble and internal/conv.
package usp

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/bitops"
	"github.com/librespace/gsat-codec/internal/conv"
	"github.com/librespace/gsat-codec/internal/reedmuller"
	"github.com/librespace/gsat-codec/internal/rs"
	"github.com/librespace/gsat-codec/internal/scramble"
)

// plsScrambleConst is the fixed 64-bit constant the PLS codeword is
// XOR-scrambled against before transmission. A fixed constant is
// required but none is named anywhere in the reference material; this
// is a resolved open question (see DESIGN.md), kept stable so any peer
// built against this module can hardcode the same value.
const plsScrambleConst uint64 = 0x0F1E2D3C4B5A6978

const tailBits = 4

// Options configures the Encoder.
type Options struct {
	Preamble []byte
	Sync     []byte
	// PLSCode is the 7-bit Physical Layer Signalling value (mode/rate
	// indication); bit 6 is the RM(1,6) overall parity bit, bits 5..0
	// the Walsh-Hadamard coefficients, per internal/reedmuller.
	PLSCode byte
	// Scramble additive-scrambles the RS-coded payload before
	// convolutional encoding "optional" step.
	Scramble    bool
	MaxFrameLen int
}

func (o Options) validate() error {
	if len(o.Preamble) == 0 {
		return fmt.Errorf("usp: preamble must be non-empty")
	}
	if len(o.Sync) == 0 {
		return fmt.Errorf("usp: sync must be non-empty")
	}
	if o.PLSCode > 0x7F {
		return fmt.Errorf("usp: pls_code must fit in 7 bits")
	}
	if o.MaxFrameLen <= 0 {
		return fmt.Errorf("usp: max_frame_len must be positive")
	}
	return nil
}

// Encoder builds a USP (SPUTNIX) frame: preamble, sync, scrambled
// RM(1,6) PLS word, then the RS/scramble/convolutional payload path.
type Encoder struct {
	opts Options
	id   codec.Identity
}

// NewEncoder validates opts and returns an Encoder.
func NewEncoder(opts Options) (*Encoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts, id: codec.NewIdentity("usp", "1.0.0")}, nil
}

func (e *Encoder) Identity() codec.Identity { return e.id }

// Encode runs the full USP pipeline and returns a one-bit-per-byte
// (MSB-first) bit stream ready for modulation.
func (e *Encoder) Encode(pdu []byte) ([]byte, error) {
	if len(pdu) > rs.K {
		return nil, fmt.Errorf("usp: pdu length %d exceeds %d", len(pdu), rs.K)
	}
	if len(pdu)+rs.NParity > e.opts.MaxFrameLen {
		return nil, fmt.Errorf("usp: encoded frame exceeds max_frame_len")
	}

	parity, err := rs.EncodeShortened(pdu)
	if err != nil {
		return nil, err
	}
	body := append(append([]byte{}, pdu...), parity...)

	if e.opts.Scramble {
		body = scramble.CCSDS(true).ScrambleBytes(body)
	}

	dataBits := bitops.BytesToBits(body)
	padded := make([]byte, len(dataBits)+tailBits)
	copy(padded, dataBits)
	codedBits := conv.Encode(padded, "1/2")
	codedBytes := bitops.PackMSB(codedBits)

	plsWord := reedmuller.Encode(e.opts.PLSCode) ^ plsScrambleConst
	plsBytes := make([]byte, 8)
	for i := 0; i < 8; i++ {
		plsBytes[i] = byte(plsWord >> uint(56-8*i))
	}

	frame := make([]byte, 0, len(e.opts.Preamble)+len(e.opts.Sync)+len(plsBytes)+len(codedBytes))
	frame = append(frame, e.opts.Preamble...)
	frame = append(frame, e.opts.Sync...)
	frame = append(frame, plsBytes...)
	frame = append(frame, codedBytes...)

	return bitops.BytesToBits(frame), nil
}
