package ax100mode5

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/bitops"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/golay"
	"github.com/librespace/gsat-codec/internal/rs"
	"github.com/librespace/gsat-codec/internal/scramble"
)

// Encoder builds AX.100 Mode 5 frames: preamble, sync, Golay-coded
// length, optional RS, payload, configurable CRC
type Encoder struct {
	opts Options
	id   codec.Identity
}

// NewEncoder validates opts and returns an Encoder.
func NewEncoder(opts Options) (*Encoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts, id: codec.NewIdentity("ax100mode5", "1.0.0")}, nil
}

func (e *Encoder) Identity() codec.Identity { return e.id }

func (e *Encoder) Encode(pdu []byte) ([]byte, error) {
	body := append([]byte{}, pdu...)
	if e.opts.CRCEnabled {
		body = crc.Append(e.opts.CRCKind, body, true)
	}
	if e.opts.RS {
		parity, err := rs.EncodeShortened(body)
		if err != nil {
			return nil, err
		}
		body = append(body, parity...)
	}
	if len(body) > e.opts.MaxFrameLen {
		return nil, fmt.Errorf("ax100mode5: encoded frame exceeds max_frame_len")
	}

	codeword := golay.EncodeMSB(uint16(len(body)))
	lenBits := uintToBits(codeword, 24)

	if e.opts.Scramble {
		scr := scramble.CCSDS(true)
		body = scr.ScrambleBytes(body)
	}

	var bits []byte
	bits = append(bits, bitops.BytesToBits(e.opts.Preamble)...)
	bits = append(bits, bitops.BytesToBits(e.opts.Sync)...)
	bits = append(bits, lenBits...)
	bits = append(bits, bitops.BytesToBits(body)...)
	return bits, nil
}
