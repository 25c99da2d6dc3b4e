package ax25

import (
	"strings"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/nrzi"
	"github.com/librespace/gsat-codec/internal/scramble"
	"github.com/librespace/gsat-codec/metadata"
)

// Decoder hunts for HDLC flags in a bit stream, de-stuffs and reassembles
// AX.25 frames, validates the FCS, and optionally filters by destination
// callsign
type Decoder struct {
	opts DecoderOptions
	id   codec.Identity

	bits        []byte
	bufStartAbs uint64
	sampleCount uint64
	nrziPrev    byte
	descr       *scramble.LFSR
}

// NewDecoder validates opts and returns a Decoder.
func NewDecoder(opts DecoderOptions) (*Decoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	d := &Decoder{opts: opts, id: codec.NewIdentity("ax25", "1.0.0")}
	if opts.Descramble {
		d.descr = scramble.G3RUH(true)
	}
	return d, nil
}

func (d *Decoder) Identity() codec.Identity { return d.id }
func (d *Decoder) InputMultiple() int       { return 1 }

func (d *Decoder) Reset() {
	d.bits = nil
	d.bufStartAbs = d.sampleCount
	d.nrziPrev = 0
	if d.descr != nil {
		d.descr.Reset()
	}
}

// Decode consumes chunk, one bit per item (LSB)
func (d *Decoder) Decode(chunk []byte) codec.Status {
	for _, item := range chunk {
		bit := item & 1
		if d.opts.NRZI {
			bit = nrzi.Decode([]byte{bit}, d.nrziPrev)[0]
			d.nrziPrev = item & 1
		}
		if d.descr != nil {
			bit = d.descr.Descramble([]byte{bit})[0]
		}
		d.bits = append(d.bits, bit)
		d.sampleCount++
	}
	consumed := len(chunk)

	start := findFlag(d.bits, 0)
	if start < 0 {
		if len(d.bits) > 7 {
			drop := len(d.bits) - 7
			d.bits = d.bits[drop:]
			d.bufStartAbs += uint64(drop)
		}
		return codec.Status{Consumed: consumed}
	}
	for {
		next := start + 8
		if next+8 <= len(d.bits) && flagAt(d.bits, next) {
			start = next
			continue
		}
		break
	}
	dataBegin := start + 8

	end := findFlag(d.bits, dataBegin)
	if end < 0 {
		if len(d.bits)-dataBegin > d.opts.MaxFrameLen*9 {
			d.bits = d.bits[dataBegin:]
			d.bufStartAbs += uint64(dataBegin)
		}
		return codec.Status{Consumed: consumed}
	}

	frameStartAbs := d.bufStartAbs + uint64(start)
	rawBits := append([]byte{}, d.bits[dataBegin:end]...)
	d.bits = append([]byte{}, d.bits[end:]...)
	d.bufStartAbs += uint64(end)

	destuffed, aborted := destuff(rawBits)
	if aborted || len(destuffed)%8 != 0 {
		return codec.Status{Consumed: consumed}
	}
	frame := packLSBFirst(destuffed)
	if len(frame) < 18 || len(frame) > d.opts.MaxFrameLen {
		return codec.Status{Consumed: consumed}
	}

	valid := crc.Check(crc.AX25, frame, false)
	correctedBits := 0
	if !valid && d.opts.ErrorCorrection {
		if fixed, ok := bruteForceFixup(frame); ok {
			frame = fixed
			valid = true
			correctedBits = 1
		}
	}
	if !valid && d.opts.CRCCheck {
		return codec.Status{Consumed: consumed}
	}

	if !d.opts.Promiscuous {
		destCall, destSSID := parseCallsign(frame[0:7])
		if !strings.EqualFold(destCall, strings.TrimSpace(d.opts.Address)) || destSSID != d.opts.SSID {
			return codec.Status{Consumed: consumed}
		}
	}

	body := frame[:len(frame)-2]
	pdu := append([]byte{}, body[16:]...)

	meta := metadata.M{
		metadata.PDU:                  pdu,
		metadata.DecoderCRCValid:      valid,
		metadata.DecoderName:          d.id.Name,
		metadata.DecoderVersion:       d.id.Version,
		metadata.SampleStart:          frameStartAbs,
		metadata.SampleCnt:            uint64(end - start),
		metadata.DecoderCorrectedBits: uint64(correctedBits),
	}
	return codec.Status{Consumed: consumed, Success: true, Metadata: meta}
}

func flagAt(bits []byte, i int) bool {
	var v byte
	for j := 0; j < 8; j++ {
		v = (v << 1) | bits[i+j]
	}
	return v == flag
}

func findFlag(bits []byte, from int) int {
	for i := from; i+8 <= len(bits); i++ {
		if flagAt(bits, i) {
			return i
		}
	}
	return -1
}

// destuff removes the 0 bit inserted after every five consecutive 1s and
// reports abort=true on seven or more consecutive 1s (the illegal
// pattern calls out), per the bit-stuffing convention recorded
// in DESIGN.md.
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

func packLSBFirst(bits []byte) []byte {
	n := len(bits) / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var v byte
		for j := 0; j < 8; j++ {
			v |= bits[i*8+j] << uint(j)
		}
		out[i] = v
	}
	return out
}

func parseCallsign(field []byte) (string, byte) {
	var sb strings.Builder
	for _, b := range field[:6] {
		sb.WriteByte(b >> 1)
	}
	ssid := (field[6] >> 1) & 0x0F
	return strings.TrimRight(sb.String(), " "), ssid
}

func bruteForceFixup(frame []byte) ([]byte, bool) {
	candidate := append([]byte{}, frame...)
	for byteIdx := range candidate {
		for bit := 0; bit < 8; bit++ {
			candidate[byteIdx] ^= 1 << uint(bit)
			if crc.Check(crc.AX25, candidate, false) {
				return candidate, true
			}
			candidate[byteIdx] ^= 1 << uint(bit)
		}
	}
	return nil, false
}
