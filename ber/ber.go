// Package ber implements a message-driven BER/FER test harness: a
// PRBS-ish trigger generator producing counter-stamped,
// CRC32C-protected, additively-scrambled frames, and a received-side
// validator tracking sent/received/dropped/invalid counts.
//
// Grounded on gr-satnogs ber_calculator_impl.cc; no teacher equivalent
// (direwolf has no BER test mode).
package ber

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"math/rand"

	"github.com/librespace/gsat-codec/internal/scramble"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Options configures a Calculator.
type Options struct {
	// FrameSize is the total synthesized frame length in bytes,
	// including the 8-byte counter and 4-byte CRC32C trailer.
	FrameSize int
	// Skip is the number of leading counter values excluded from
	// dropped/received accounting (bootstrap window).
	Skip uint64
	// NFrames bounds the number of triggers Trigger will produce; 0
	// means unbounded.
	NFrames int
}

func (o Options) validate() error {
	if o.FrameSize < 13 {
		return fmt.Errorf("ber: frame_size must be at least 13 (8 counter + >=1 payload + 4 crc)")
	}
	return nil
}

// Calculator is the BER/FER test harness described in 
type Calculator struct {
	opts      Options
	scrambler *scramble.LFSR
	rnd       *rand.Rand

	sentCount uint64
	lastAck   uint64
	received  uint64
	dropped   uint64
	invalid   uint64
	triggered int
}

// NewCalculator validates opts and returns a Calculator. seed makes the
// synthesized payload bytes reproducible.
func NewCalculator(opts Options, seed int64) (*Calculator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Calculator{
		opts:      opts,
		scrambler: scramble.New(0xA9, 0xAA, 7, true, false),
		rnd:       rand.New(rand.NewSource(seed)),
	}, nil
}

// Trigger synthesizes the next frame: an 8-byte little-endian counter,
// uniform-random filler, and a CRC32C trailer over the preceding bytes,
// then additively scrambles the whole frame. ok is false once nframes
// triggers have already been produced (opts.NFrames > 0).
func (c *Calculator) Trigger() (pdu []byte, ok bool) {
	if c.opts.NFrames > 0 && c.triggered >= c.opts.NFrames {
		return nil, false
	}
	c.triggered++

	frame := make([]byte, c.opts.FrameSize)
	binary.LittleEndian.PutUint64(frame[:8], c.sentCount)
	for i := 8; i < c.opts.FrameSize-4; i++ {
		frame[i] = byte(c.rnd.Intn(256))
	}
	sum := crc32.Checksum(frame[:c.opts.FrameSize-4], crc32cTable)
	binary.LittleEndian.PutUint32(frame[c.opts.FrameSize-4:], sum)

	c.scrambler.Reset()
	out := c.scrambler.ScrambleBytes(frame)
	c.sentCount++
	return out, true
}

// Received validates an incoming frame and updates the tracking
// invariants (last_ack <= c <= sent_count)
func (c *Calculator) Received(pdu []byte) {
	if len(pdu) != c.opts.FrameSize {
		c.invalid++
		return
	}
	c.scrambler.Reset()
	plain := c.scrambler.DescrambleBytes(pdu)

	payload := plain[:c.opts.FrameSize-4]
	got := binary.LittleEndian.Uint32(plain[c.opts.FrameSize-4:])
	want := crc32.Checksum(payload, crc32cTable)
	if got != want {
		c.invalid++
		return
	}

	counter := binary.LittleEndian.Uint64(payload[:8])
	if counter < c.opts.Skip {
		c.lastAck = counter + 1
		return
	}
	c.dropped += counter - c.lastAck
	c.received++
	c.lastAck = counter + 1
}

// Report summarizes the harness's counters.
type Report struct {
	Sent     uint64
	Received uint64
	Dropped  uint64
	Invalid  uint64
	FER      float64
	BER      float64
}

// Report computes the FER/BER formulas of over the counters
// accumulated so far.
func (c *Calculator) Report() Report {
	fer := 0.0
	if c.lastAck > 0 {
		fer = float64(c.dropped) / float64(c.lastAck)
	}
	ber := 1.0
	if fer < 1 {
		ber = 1 - math.Pow(10, math.Log10(1-fer)/float64(c.opts.FrameSize*8))
	}
	return Report{
		Sent:     c.sentCount,
		Received: c.received,
		Dropped:  c.dropped,
		Invalid:  c.invalid,
		FER:      fer,
		BER:      ber,
	}
}
