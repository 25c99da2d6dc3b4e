package ieee802154

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/bitops"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/rs"
	"github.com/librespace/gsat-codec/internal/scramble"
)

// Encoder builds 802.15.4-variant frames: preamble byte repeated, sync
// word, optional 1-byte length, payload, CRC, then optional scramble
// over payload+CRC and optional RS(255,223) over the scrambled result,
// matching the decode order's reverse
type Encoder struct {
	opts Options
	id   codec.Identity
}

// NewEncoder validates opts and returns an Encoder.
func NewEncoder(opts Options) (*Encoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts, id: codec.NewIdentity("ieee802154", "1.0.0")}, nil
}

func (e *Encoder) Identity() codec.Identity { return e.id }

func (e *Encoder) Encode(pdu []byte) ([]byte, error) {
	body := append([]byte{}, pdu...)
	if e.opts.CRCEnabled {
		body = crc.Append(e.opts.CRCKind, body, true)
	}
	if e.opts.Descramble {
		scr := scramble.CCSDS(true)
		body = scr.ScrambleBytes(body)
	}
	if e.opts.RS {
		parity, err := rs.EncodeShortened(body)
		if err != nil {
			return nil, err
		}
		body = append(body, parity...)
	}
	if len(body) > e.opts.MaxFrameLen {
		return nil, fmt.Errorf("ieee802154: encoded frame exceeds max_frame_len")
	}

	var bits []byte
	bits = append(bits, bitops.BytesToBits(e.opts.Preamble)...)
	bits = append(bits, bitops.BytesToBits(e.opts.Sync)...)
	if e.opts.VariableLength {
		bits = append(bits, bitops.BytesToBits([]byte{byte(len(body))})...)
	}
	bits = append(bits, bitops.BytesToBits(body)...)
	return bits, nil
}
