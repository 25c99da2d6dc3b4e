// Package cw implements a CW (Morse code) decoder: a moving-sum-debounced
// envelope over a hard on/off tone-presence bit stream, run-length
// classified into dot/dash/gap timing and converted into text.
//
// The corpus carries no CW decoder (direwolf only transmits Morse, via
// morse.go's tone generator), so the timing model here is reconstructed
// from direwolf's own transmit-side unit
// convention (1 unit = dot/intra-gap, 3 = dash/inter-character gap, 7 =
// inter-word gap, per morse.go's TIME_UNITS_TO_MS and morse_units_str)
// run in the decode direction, with WPM taken as configuration rather
// than a hardcoded constant (an explicit Open Question resolution, see
// DESIGN.md).
package cw

import (
	"fmt"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/movingsum"
	"github.com/librespace/gsat-codec/metadata"
)

// Options configures the Decoder.
type Options struct {
	// WPM is the nominal transmit speed in words per minute, used to
	// derive the expected sample count for one Morse time unit.
	WPM int
	// SampleRate is the input bit stream's sample rate in Hz.
	SampleRate int
	// MaxMessageLen bounds the accumulated text length before a forced
	// emit, mirroring every other decoder's max_frame_len guard.
	MaxMessageLen int
}

func (o Options) validate() error {
	if o.WPM <= 0 {
		return fmt.Errorf("cw: wpm must be positive")
	}
	if o.SampleRate <= 0 {
		return fmt.Errorf("cw: sample_rate must be positive")
	}
	if o.MaxMessageLen <= 0 {
		return fmt.Errorf("cw: max_message_len must be positive")
	}
	return nil
}

// Decoder classifies tone-presence run lengths into Morse timing units
// and accumulates decoded text, per the model described in the package
// doc comment.
type Decoder struct {
	opts       Options
	id         codec.Identity
	unitSamples int

	env    *movingsum.Window
	envLen int

	haveRun    bool
	runValue   byte
	runLen     int
	eotFlushed bool

	symbol  []byte
	message []rune
}

// NewDecoder validates opts and returns a Decoder.
func NewDecoder(opts Options) (*Decoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	unitMs := 1200.0 / float64(opts.WPM)
	unitSamples := int(unitMs*float64(opts.SampleRate)/1000.0 + 0.5)
	if unitSamples < 1 {
		unitSamples = 1
	}
	envLen := unitSamples / 8
	if envLen < 1 {
		envLen = 1
	}
	return &Decoder{
		opts:        opts,
		id:          codec.NewIdentity("cw", "1.0.0"),
		unitSamples: unitSamples,
		env:         movingsum.New(envLen),
		envLen:      envLen,
	}, nil
}

func (d *Decoder) Identity() codec.Identity { return d.id }
func (d *Decoder) InputMultiple() int       { return 1 }

func (d *Decoder) Reset() {
	d.haveRun = false
	d.runLen = 0
	d.eotFlushed = false
	d.symbol = d.symbol[:0]
	d.message = d.message[:0]
	d.env.Reset()
}

// debounce smooths a single raw tone-presence sample through the moving-sum
// envelope window, returning the majority value over the last envLen
// samples once the window has filled (and the raw sample before then) —
// this absorbs single-sample glitches in the tone detector before run-length
// classification sees them.
func (d *Decoder) debounce(bit byte) byte {
	sum := d.env.Push(float64(bit))
	if !d.env.Full() {
		return bit
	}
	if sum*2 >= float64(d.envLen) {
		return 1
	}
	return 0
}

// classify buckets a run's sample count into the nearest Morse timing
// category: 1 (dot / intra-character gap), 3 (dash / inter-character
// gap), 7 (inter-word gap), or -1 (an end-of-transmission silence,
// longer than any legitimate inter-word gap).
func (d *Decoder) classify(samples int) int {
	units := (samples + d.unitSamples/2) / d.unitSamples
	switch {
	case units <= 2:
		return 1
	case units <= 5:
		return 3
	case units <= 9:
		return 7
	default:
		return -1
	}
}

func (d *Decoder) flushSymbol() {
	if len(d.symbol) > 0 {
		d.message = append(d.message, lookup(string(d.symbol)))
		d.symbol = d.symbol[:0]
	}
}

// Decode runs the run-length classifier over chunk (one hard tone-on/off
// bit per item) and emits the accumulated message whenever a long
// end-of-transmission silence is observed or the message reaches
// max_message_len. An end-of-transmission silence is recognized as soon
// as it crosses the threshold, without waiting for the next tone to
// start — so a capture that simply ends in silence still flushes.
func (d *Decoder) Decode(chunk []byte) codec.Status {
	var status codec.Status
	for _, item := range chunk {
		bit := d.debounce(item & 1)
		if d.haveRun && bit == d.runValue {
			d.runLen++
			if d.runValue == 0 && !d.eotFlushed && d.classify(d.runLen) == -1 {
				if s, ok := d.processRun(d.runValue, d.runLen); ok {
					status = s
				}
				d.eotFlushed = true
			}
			continue
		}
		if d.haveRun && !d.eotFlushed {
			if s, ok := d.processRun(d.runValue, d.runLen); ok {
				status = s
			}
		}
		d.runValue = bit
		d.runLen = 1
		d.haveRun = true
		d.eotFlushed = false
	}
	status.Consumed = len(chunk)
	return status
}

func (d *Decoder) processRun(value byte, length int) (codec.Status, bool) {
	units := d.classify(length)

	if value == 1 {
		if units == 1 {
			d.symbol = append(d.symbol, '.')
		} else {
			d.symbol = append(d.symbol, '-')
		}
		return codec.Status{}, false
	}

	switch units {
	case 1:
		// intra-character gap, symbol continues
	case 3:
		d.flushSymbol()
	case 7:
		d.flushSymbol()
		d.message = append(d.message, ' ')
	default:
		d.flushSymbol()
		if len(d.message) > 0 {
			return d.emit(), true
		}
	}

	if len(d.message) >= d.opts.MaxMessageLen {
		return d.emit(), true
	}
	return codec.Status{}, false
}

func (d *Decoder) emit() codec.Status {
	text := string(d.message)
	d.message = d.message[:0]
	meta := metadata.M{
		metadata.PDU:            []byte(text),
		metadata.DecoderName:    d.id.Name,
		metadata.DecoderVersion: d.id.Version,
	}
	return codec.Status{Success: true, Metadata: meta}
}
