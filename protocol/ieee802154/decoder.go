package ieee802154

import (
	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/bitops"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/rs"
	"github.com/librespace/gsat-codec/internal/scramble"
	"github.com/librespace/gsat-codec/internal/shiftreg"
	"github.com/librespace/gsat-codec/metadata"
)

type state int

const (
	searching state = iota
	searchingSync
	decodingLen
	decodingPayload
)

// Decoder implements the 802.15.4-variant preamble/sync/length/payload
// state machine. Requires InputMultiple()==8.
type Decoder struct {
	opts Options
	id   codec.Identity

	st           state
	preambleReg  *shiftreg.Register
	syncReg      *shiftreg.Register
	preambleVal  uint64
	syncVal      uint64
	syncHuntBits int
	lenBits      []byte
	payloadBits  []byte
	payloadLen   int
	sampleCount  uint64
	frameStart   uint64
	descr        *scramble.LFSR
}

// NewDecoder validates opts and returns a Decoder.
func NewDecoder(opts Options) (*Decoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	d := &Decoder{
		opts:        opts,
		id:          codec.NewIdentity("ieee802154", "1.0.0"),
		preambleReg: shiftreg.New(len(opts.Preamble) * 8),
		syncReg:     shiftreg.New(len(opts.Sync) * 8),
		preambleVal: bytesToValue(opts.Preamble),
		syncVal:     bytesToValue(opts.Sync),
	}
	if opts.Descramble {
		d.descr = scramble.CCSDS(true)
	}
	return d, nil
}

func (d *Decoder) Identity() codec.Identity { return d.id }
func (d *Decoder) InputMultiple() int       { return 8 }

func (d *Decoder) Reset() {
	d.st = searching
	d.preambleReg.Reset()
	d.syncReg.Reset()
	d.lenBits = d.lenBits[:0]
	d.payloadBits = d.payloadBits[:0]
	if d.descr != nil {
		d.descr.Reset()
	}
}

func (d *Decoder) resetToSearching() {
	d.st = searching
	d.syncReg.Reset()
	d.lenBits = d.lenBits[:0]
	d.payloadBits = d.payloadBits[:0]
}

func (d *Decoder) Decode(chunk []byte) codec.Status {
	var status codec.Status
	for _, item := range chunk {
		bit := item & 1
		d.sampleCount++

		switch d.st {
		case searching:
			d.preambleReg.Push(bit)
			if d.preambleReg.Matches(d.preambleVal, d.opts.PreambleThreshold) {
				d.st = searchingSync
				d.syncReg.Reset()
				d.syncHuntBits = 0
				d.frameStart = d.sampleCount - uint64(len(d.opts.Preamble)*8)
			}
		case searchingSync:
			d.syncReg.Push(bit)
			d.syncHuntBits++
			if d.syncReg.Matches(d.syncVal, d.opts.SyncThreshold) {
				if d.opts.VariableLength {
					d.st = decodingLen
					d.lenBits = d.lenBits[:0]
				} else {
					d.payloadLen = d.opts.FixedLength
					d.payloadBits = d.payloadBits[:0]
					d.st = decodingPayload
				}
			} else if d.syncHuntBits >= 2*len(d.opts.Preamble)*8+len(d.opts.Sync)*8 {
				d.resetToSearching()
			}
		case decodingLen:
			d.lenBits = append(d.lenBits, bit)
			if len(d.lenBits) == 8 {
				lenByte := bitops.PackMSB(d.lenBits)[0]
				if int(lenByte) > d.opts.MaxFrameLen {
					d.resetToSearching()
					break
				}
				d.payloadLen = int(lenByte)
				d.payloadBits = d.payloadBits[:0]
				d.st = decodingPayload
			}
		case decodingPayload:
			d.payloadBits = append(d.payloadBits, bit)
			if len(d.payloadBits) == d.payloadLen*8 {
				if s, ok := d.emit(); ok {
					status = s
				}
				d.resetToSearching()
			}
		}
	}
	status.Consumed = len(chunk)
	return status
}

func (d *Decoder) emit() (codec.Status, bool) {
	frame := bitops.PackMSB(d.payloadBits)

	corrected := 0
	if d.opts.RS {
		if len(frame) < rs.NParity {
			return codec.Status{}, false
		}
		payload := frame[:len(frame)-rs.NParity]
		parity := frame[len(frame)-rs.NParity:]
		res := rs.DecodeShortened(payload, parity)
		if !res.OK {
			return codec.Status{}, false
		}
		frame = res.Data
		corrected = res.Corrected
	}
	if d.descr != nil {
		d.descr.Reset()
		frame = d.descr.DescrambleBytes(frame)
	}

	crcValid := true
	data := frame
	if d.opts.CRCEnabled {
		if len(frame) < crc.Size(d.opts.CRCKind) {
			return codec.Status{}, false
		}
		crcValid = crc.Check(d.opts.CRCKind, frame, true)
		data = frame[:len(frame)-crc.Size(d.opts.CRCKind)]
		if !crcValid && d.opts.DropInvalid {
			return codec.Status{}, false
		}
	}

	meta := metadata.M{
		metadata.PDU:                  append([]byte{}, data...),
		metadata.DecoderCRCValid:      crcValid,
		metadata.DecoderCorrectedBits: uint64(corrected),
		metadata.DecoderName:          d.id.Name,
		metadata.DecoderVersion:       d.id.Version,
		metadata.SampleStart:          d.frameStart,
		metadata.SampleCnt:            d.sampleCount - d.frameStart,
	}
	return codec.Status{Success: true, Metadata: meta}, true
}
