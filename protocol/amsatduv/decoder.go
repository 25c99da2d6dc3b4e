package amsatduv

import (
	"fmt"

	"github.com/klauspost/reedsolomon"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/shiftreg"
	"github.com/librespace/gsat-codec/metadata"
)

const nsym = 32

// validSpacecraftIDs is the closed set of low-3-bit Fox spacecraft
// identifiers accepted after RS recovery
var validSpacecraftIDs = map[byte]bool{1: true, 2: true, 3: true, 4: true, 5: true}

// Options configures the Decoder.
type Options struct {
	// MaxFrameLen is the total number of 10-bit symbols (data + RS
	// parity bytes) accumulated per frame, after the comma.
	MaxFrameLen int
}

func (o Options) validate() error {
	if o.MaxFrameLen <= nsym || o.MaxFrameLen > 255 {
		return fmt.Errorf("amsatduv: max_frame_len must be in (%d, 255]", nsym)
	}
	return nil
}

type state int

const (
	searchSync state = iota
	decoding
)

// Decoder correlates a running 10-bit register against both comma
// disparities, decodes each subsequent 10-bit word to its nearest-Hamming
// byte while tracking erasures, then RS(255,k)-recovers the block.
type Decoder struct {
	opts Options
	id   codec.Identity

	st          state
	reg         *shiftreg.Register
	wordBits    []byte
	frameBytes  []byte
	erasures    []int
	sampleCount uint64
	frameStart  uint64
	rs          reedsolomon.Encoder
}

// NewDecoder validates opts and returns a Decoder.
func NewDecoder(opts Options) (*Decoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	rs, err := reedsolomon.New(223, nsym)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		opts: opts,
		id:   codec.NewIdentity("amsatduv", "1.0.0"),
		reg:  shiftreg.New(10),
		rs:   rs,
	}, nil
}

func (d *Decoder) Identity() codec.Identity { return d.id }
func (d *Decoder) InputMultiple() int       { return 1 }

func (d *Decoder) Reset() {
	d.st = searchSync
	d.reg.Reset()
	d.wordBits = d.wordBits[:0]
	d.frameBytes = d.frameBytes[:0]
	d.erasures = d.erasures[:0]
}

func (d *Decoder) Decode(chunk []byte) codec.Status {
	var status codec.Status
	for _, item := range chunk {
		bit := item & 1
		d.sampleCount++
		d.reg.Push(bit)

		switch d.st {
		case searchSync:
			if d.reg.Matches(uint64(commaPositive), 0) || d.reg.Matches(uint64(commaNegative), 0) {
				d.st = decoding
				d.wordBits = d.wordBits[:0]
				d.frameBytes = d.frameBytes[:0]
				d.erasures = d.erasures[:0]
				d.frameStart = d.sampleCount - 10
			}
		case decoding:
			d.wordBits = append(d.wordBits, bit)
			if len(d.wordBits) == 10 {
				var word uint16
				for _, b := range d.wordBits {
					word = (word << 1) | uint16(b)
				}
				val, dist := nearestHamming(word)
				if dist != 0 {
					d.erasures = append(d.erasures, len(d.frameBytes))
				}
				d.frameBytes = append(d.frameBytes, val)
				d.wordBits = d.wordBits[:0]

				if len(d.frameBytes) == d.opts.MaxFrameLen {
					if s, ok := d.emit(); ok {
						status = s
					}
					d.st = searchSync
					d.reg.Reset()
				}
			}
		}
	}
	status.Consumed = len(chunk)
	return status
}

func (d *Decoder) emit() (codec.Status, bool) {
	k := d.opts.MaxFrameLen - nsym
	zeroCount := 223 - k

	shards := make([][]byte, 255)
	for i := 0; i < zeroCount; i++ {
		shards[i] = []byte{0}
	}
	erased := make(map[int]bool, len(d.erasures))
	for _, pos := range d.erasures {
		erased[pos] = true
	}
	for i := 0; i < k+nsym; i++ {
		idx := zeroCount + i
		if erased[i] {
			shards[idx] = nil
		} else {
			shards[idx] = []byte{d.frameBytes[i]}
		}
	}

	if err := d.rs.ReconstructData(shards); err != nil {
		return codec.Status{}, false
	}

	data := make([]byte, k)
	for i := 0; i < k; i++ {
		data[i] = shards[zeroCount+i][0]
	}
	if !validSpacecraftIDs[data[0]&0x07] {
		return codec.Status{}, false
	}

	meta := metadata.M{
		metadata.PDU:                   data,
		metadata.DecoderSymbolErasures: uint64(len(d.erasures)),
		metadata.DecoderCorrectedBits:  uint64(0),
		metadata.DecoderName:           d.id.Name,
		metadata.DecoderVersion:        d.id.Version,
		metadata.SampleStart:           d.frameStart,
		metadata.SampleCnt:             d.sampleCount - d.frameStart,
	}
	return codec.Status{Success: true, Metadata: meta}, true
}
