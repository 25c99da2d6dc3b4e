package ax25

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/nrzi"
	"github.com/librespace/gsat-codec/internal/scramble"
)

// Encoder builds AX.25 UI frames: header, control/PID, payload, FCS,
// bit-stuffing, flag sandwiching, optional G3RUH scramble and NRZI.
type Encoder struct {
	opts EncoderOptions
	id   codec.Identity
}

// NewEncoder validates opts and returns an Encoder.
func NewEncoder(opts EncoderOptions) (*Encoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts, id: codec.NewIdentity("ax25", "1.0.0")}, nil
}

func (e *Encoder) Identity() codec.Identity { return e.id }

// Encode builds the complete bit-stream blob (one bit per byte, LSB
// significant) for pdu AX.25 encoder specifics.
func (e *Encoder) Encode(pdu []byte) ([]byte, error) {
	header := append(callsignField(e.opts.Dest, e.opts.DestSSID, false), callsignField(e.opts.Src, e.opts.SrcSSID, true)...)
	frame := append(header, 0x00, 0xF0) // control=UI, PID=no layer 3
	frame = append(frame, pdu...)

	if len(frame)+2 > e.opts.MaxFrameLen {
		return nil, fmt.Errorf("ax25: encoded frame exceeds max_frame_len")
	}
	frame = crc.Append(crc.AX25, frame, false)

	dataBits := bitsFromBytesLSBFirst(frame)
	stuffed := stuffBits(dataBits)

	var bits []byte
	flagBits := bitsFromBytesLSBFirst([]byte{flag})
	for i := 0; i < e.opts.PreambleLen; i++ {
		bits = append(bits, flagBits...)
	}
	bits = append(bits, stuffed...)
	for i := 0; i < e.opts.PostambleLen; i++ {
		bits = append(bits, flagBits...)
	}

	if e.opts.Scramble {
		scr := scramble.G3RUH(true)
		bits = scr.Scramble(bits)
	}
	if e.opts.NRZI {
		bits = nrzi.Encode(bits, 0)
	}
	return bits, nil
}

func bitsFromBytesLSBFirst(data []byte) []byte {
	out := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			out = append(out, (b>>uint(i))&1)
		}
	}
	return out
}

// stuffBits inserts a 0 after every five consecutive 1 bits.
func stuffBits(bits []byte) []byte {
	out := make([]byte, 0, len(bits)+len(bits)/5+1)
	ones := 0
	for _, b := range bits {
		out = append(out, b)
		if b == 1 {
			ones++
			if ones == 5 {
				out = append(out, 0)
				ones = 0
			}
		} else {
			ones = 0
		}
	}
	return out
}
