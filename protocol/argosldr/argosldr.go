// Package argosldr implements the ARGOS LDR decoder: the same HDLC
// framing shape as AX.25 but transmitted MSB-first, with a 24-bit triple
// flag (0x7E 0x7E 0x7E) opening sync pattern, non-reversed CRC16-CCITT,
// no NRZI and no scrambler.
//
// Grounded on gr-satnogs argos_ldr_decoder.cc.
package argosldr

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/metadata"
)

const flagByte = 0x7E

// Options configures the Decoder.
type Options struct {
	MaxFrameLen int
}

func (o Options) validate() error {
	if o.MaxFrameLen < 3 {
		return fmt.Errorf("argosldr: max_frame_len too small")
	}
	return nil
}

// Decoder hunts for the triple-flag opening pattern, de-stuffs and
// reassembles MSB-first HDLC frames, validates non-reversed CRC16-CCITT,
// and rejects all-zero payloads (a CCITT false-positive guard).
type Decoder struct {
	opts Options
	id   codec.Identity

	bits        []byte
	bufStartAbs uint64
	sampleCount uint64
}

// NewDecoder validates opts and returns a Decoder.
func NewDecoder(opts Options) (*Decoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Decoder{opts: opts, id: codec.NewIdentity("argosldr", "1.0.0")}, nil
}

func (d *Decoder) Identity() codec.Identity { return d.id }
func (d *Decoder) InputMultiple() int       { return 1 }

func (d *Decoder) Reset() {
	d.bits = nil
	d.bufStartAbs = d.sampleCount
}

func (d *Decoder) Decode(chunk []byte) codec.Status {
	for _, item := range chunk {
		d.bits = append(d.bits, item&1)
		d.sampleCount++
	}
	consumed := len(chunk)

	tripleStart := findTripleFlag(d.bits, 0)
	if tripleStart < 0 {
		if len(d.bits) > 23 {
			drop := len(d.bits) - 23
			d.bits = d.bits[drop:]
			d.bufStartAbs += uint64(drop)
		}
		return codec.Status{Consumed: consumed}
	}
	dataBegin := tripleStart + 24

	end := findFlag(d.bits, dataBegin)
	if end < 0 {
		if len(d.bits)-dataBegin > d.opts.MaxFrameLen*9 {
			d.bits = d.bits[dataBegin:]
			d.bufStartAbs += uint64(dataBegin)
		}
		return codec.Status{Consumed: consumed}
	}

	frameStartAbs := d.bufStartAbs + uint64(tripleStart)
	rawBits := append([]byte{}, d.bits[dataBegin:end]...)
	d.bits = append([]byte{}, d.bits[end:]...)
	d.bufStartAbs += uint64(end)

	destuffed, aborted := destuff(rawBits)
	if aborted || len(destuffed)%8 != 0 {
		return codec.Status{Consumed: consumed}
	}
	frame := packMSBFirst(destuffed)
	if len(frame) < 3 || len(frame) > d.opts.MaxFrameLen {
		return codec.Status{Consumed: consumed}
	}

	if !crc.Check(crc.CCITT, frame, true) {
		return codec.Status{Consumed: consumed}
	}
	payload := frame[:len(frame)-crc.Size(crc.CCITT)]
	if allZero(payload) {
		return codec.Status{Consumed: consumed}
	}

	meta := metadata.M{
		metadata.PDU:             append([]byte{}, payload...),
		metadata.DecoderCRCValid: true,
		metadata.DecoderName:     d.id.Name,
		metadata.DecoderVersion:  d.id.Version,
		metadata.SampleStart:     frameStartAbs,
		metadata.SampleCnt:       uint64(end - tripleStart),
	}
	return codec.Status{Consumed: consumed, Success: true, Metadata: meta}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func flagAt(bits []byte, i int) bool {
	var v byte
	for j := 0; j < 8; j++ {
		v = (v << 1) | bits[i+j]
	}
	return v == flagByte
}

func findFlag(bits []byte, from int) int {
	for i := from; i+8 <= len(bits); i++ {
		if flagAt(bits, i) {
			return i
		}
	}
	return -1
}

func findTripleFlag(bits []byte, from int) int {
	for i := from; i+24 <= len(bits); i++ {
		if flagAt(bits, i) && flagAt(bits, i+8) && flagAt(bits, i+16) {
			return i
		}
	}
	return -1
}

func destuff(bits []byte) (out []byte, aborted bool) {
	ones := 0
	for _, b := range bits {
		if ones >= 5 {
			if b == 0 {
				ones = 0
				continue
			}
			ones++
			if ones >= 7 {
				return out, true
			}
			out = append(out, b)
			continue
		}
		if b == 1 {
			ones++
		} else {
			ones = 0
		}
		out = append(out, b)
	}
	return out, false
}

func packMSBFirst(bits []byte) []byte {
	n := len(bits) / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var v byte
		for j := 0; j < 8; j++ {
			v = (v << 1) | bits[i*8+j]
		}
		out[i] = v
	}
	return out
}
