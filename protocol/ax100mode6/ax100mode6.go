// Package ax100mode6 implements the AX.100 Mode 6 decoder and encoder:
// an RS(255,223) + CRC32C + CCSDS-scrambled payload carried inside an
// AX.25 UI frame whose own FCS is ignored.
//
// Grounded on gr-satnogs ax100_mode6.cc/ax100_mode6_encoder.cc; wraps
// protocol/ax25 for the outer HDLC shell (NRZI + G3RUH descramble +
// bit-stuffed framing), with the header passed through verbatim.
package ax100mode6

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/rs"
	"github.com/librespace/gsat-codec/internal/scramble"
	"github.com/librespace/gsat-codec/metadata"
	"github.com/librespace/gsat-codec/protocol/ax25"
)

const minOverhead = 14 + 1 + 1 + 2 + rs.NParity

// Options configures Decoder and Encoder.
type Options struct {
	MaxFrameLen int
	CRCEnabled  bool
}

// Decoder wraps protocol/ax25's HDLC engine and layers CCSDS descramble
// + RS(255,223) + CRC32C validation onto the inner UI frame's payload.
type Decoder struct {
	opts  Options
	id    codec.Identity
	inner *ax25.Decoder
}

// NewDecoder returns a Decoder.
func NewDecoder(opts Options) (*Decoder, error) {
	if opts.MaxFrameLen < minOverhead {
		return nil, fmt.Errorf("ax100mode6: max_frame_len below minimum overhead")
	}
	inner, err := ax25.NewDecoder(ax25.DecoderOptions{
		Address: "GND", Promiscuous: true, Descramble: true, NRZI: true,
		CRCCheck: false, MaxFrameLen: opts.MaxFrameLen,
	})
	if err != nil {
		return nil, err
	}
	return &Decoder{opts: opts, id: codec.NewIdentity("ax100mode6", "1.0.0"), inner: inner}, nil
}

func (d *Decoder) Identity() codec.Identity { return d.id }
func (d *Decoder) InputMultiple() int       { return 1 }
func (d *Decoder) Reset()                   { d.inner.Reset() }

// Decode delegates to the AX.25 engine to recover the UI payload, then
// CCSDS-descrambles and RS/CRC32C-validates it.
func (d *Decoder) Decode(chunk []byte) codec.Status {
	status := d.inner.Decode(chunk)
	if !status.Success {
		return codec.Status{Consumed: status.Consumed}
	}
	payload, ok := status.Metadata[metadata.PDU].([]byte)
	if !ok || len(payload) < rs.NParity {
		return codec.Status{Consumed: status.Consumed}
	}

	scr := scramble.CCSDS(true)
	descrambled := scr.DescrambleBytes(payload)

	data := descrambled[:len(descrambled)-rs.NParity]
	parity := descrambled[len(descrambled)-rs.NParity:]
	res := rs.DecodeShortened(data, parity)
	if !res.OK {
		return codec.Status{Consumed: status.Consumed}
	}

	out := res.Data
	crcValid := true
	if d.opts.CRCEnabled {
		crcValid = crc.Check(crc.CRC32C, out, true)
		out = out[:len(out)-crc.Size(crc.CRC32C)]
	}

	meta := metadata.M{
		metadata.PDU:                  append([]byte{}, out...),
		metadata.DecoderCRCValid:      crcValid,
		metadata.DecoderCorrectedBits: uint64(res.Corrected),
		metadata.DecoderName:          d.id.Name,
		metadata.DecoderVersion:       d.id.Version,
	}
	if v, ok := status.Metadata[metadata.SampleStart]; ok {
		meta[metadata.SampleStart] = v
	}
	if v, ok := status.Metadata[metadata.SampleCnt]; ok {
		meta[metadata.SampleCnt] = v
	}
	return codec.Status{Consumed: status.Consumed, Success: true, Metadata: meta}
}

// Encoder builds payload = data | CRC32C | RS parity, CCSDS-scrambles
// it, then wraps it in an AX.25 UI frame addressed "GND"->"GND".
type Encoder struct {
	opts  Options
	id    codec.Identity
	inner *ax25.Encoder
}

// NewEncoder returns an Encoder.
func NewEncoder(opts Options) (*Encoder, error) {
	inner, err := ax25.NewEncoder(ax25.EncoderOptions{
		Dest: "GND", Src: "GND", PreambleLen: 8, PostambleLen: 2,
		Scramble: true, NRZI: true, MaxFrameLen: opts.MaxFrameLen,
	})
	if err != nil {
		return nil, err
	}
	return &Encoder{opts: opts, id: codec.NewIdentity("ax100mode6", "1.0.0"), inner: inner}, nil
}

func (e *Encoder) Identity() codec.Identity { return e.id }

func (e *Encoder) Encode(pdu []byte) ([]byte, error) {
	body := append([]byte{}, pdu...)
	if e.opts.CRCEnabled {
		body = crc.Append(crc.CRC32C, body, true)
	}
	parity, err := rs.EncodeShortened(body)
	if err != nil {
		return nil, err
	}
	body = append(body, parity...)

	scr := scramble.CCSDS(true)
	body = scr.ScrambleBytes(body)

	return e.inner.Encode(body)
}
