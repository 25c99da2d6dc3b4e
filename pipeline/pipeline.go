// Package pipeline implements the frame decoder pipeline and CRC-async
// stage: a single-decoder driver that retires
// consumed items every call, optionally folds in a parallel symbol
// timing-error stream, and publishes decoded metadata on an outbound
// channel; plus a standalone CRC append/check stage for message flows
// that don't go through a protocol decoder.
//
// Grounded on gr-satnogs frame_decoder.h (the gr::block wrapping one
// concrete decoder and re-publishing its metadata downstream).
package pipeline

import (
	"context"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/metadata"
)

// FrameDecoder drives exactly one codec.Decoder from a single goroutine,
// single-ownership model.
type FrameDecoder struct {
	dec codec.Decoder

	timingSum   float64
	timingCount int
}

// NewFrameDecoder wraps dec.
func NewFrameDecoder(dec codec.Decoder) *FrameDecoder {
	return &FrameDecoder{dec: dec}
}

// AccumulateTimingError folds values from a parallel symbol
// timing-error input stream into the running mean carried in emitted
// metadata step 2.
func (f *FrameDecoder) AccumulateTimingError(values []float64) {
	for _, v := range values {
		f.timingSum += v
		f.timingCount++
	}
}

func (f *FrameDecoder) timingMean() (float64, bool) {
	if f.timingCount == 0 {
		return 0, false
	}
	return f.timingSum / float64(f.timingCount), true
}

// Run reads chunks from in, drives the decoder, and publishes metadata
// for every successful decode on out. A reset received on ctrl forces
// dec.Reset(). Run returns when in is closed or ctx is canceled.
func (f *FrameDecoder) Run(ctx context.Context, in <-chan []byte, ctrl <-chan struct{}, out chan<- metadata.M) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ctrl:
			if !ok {
				ctrl = nil
				continue
			}
			f.dec.Reset()
		case chunk, ok := <-in:
			if !ok {
				return
			}
			f.decodeChunk(ctx, chunk, out)
		}
	}
}

func (f *FrameDecoder) decodeChunk(ctx context.Context, chunk []byte, out chan<- metadata.M) {
	for len(chunk) > 0 {
		status := f.dec.Decode(chunk)
		consumed := status.Consumed
		if consumed <= 0 || consumed > len(chunk) {
			consumed = len(chunk)
		}
		chunk = chunk[consumed:]

		if status.Success {
			m := status.Metadata.Clone()
			if mean, ok := f.timingMean(); ok {
				m[metadata.SymbolTimingError] = mean
			}
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}
}

// CRCMode selects the CRC-async stage's direction.
type CRCMode int

const (
	// CRCAppend computes and appends the configured CRC to every
	// incoming PDU before forwarding it.
	CRCAppend CRCMode = iota
	// CRCCheckMode validates the trailing CRC on every incoming PDU,
	// forwarding the payload (CRC stripped) on match and silently
	// dropping the message on mismatch.
	CRCCheckMode
)

// CRCStage is the standalone CRC append/check message-channel stage of
// 
type CRCStage struct {
	mode CRCMode
	kind crc.Kind
}

// NewCRCStage returns a CRCStage in the given mode for the given CRC kind.
func NewCRCStage(mode CRCMode, kind crc.Kind) *CRCStage {
	return &CRCStage{mode: mode, kind: kind}
}

// Run reads PDUs from in and forwards the transformed message to out per
// the stage's mode, until in closes or ctx is canceled.
func (s *CRCStage) Run(ctx context.Context, in <-chan []byte, out chan<- []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case pdu, ok := <-in:
			if !ok {
				return
			}
			msg, forward := s.process(pdu)
			if !forward {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *CRCStage) process(pdu []byte) ([]byte, bool) {
	switch s.mode {
	case CRCAppend:
		return crc.Append(s.kind, pdu, true), true
	case CRCCheckMode:
		if !crc.Check(s.kind, pdu, true) {
			return nil, false
		}
		return pdu[:len(pdu)-crc.Size(s.kind)], true
	default:
		return nil, false
	}
}
