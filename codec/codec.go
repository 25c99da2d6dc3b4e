// Package codec defines the uniform decoder/encoder contract shared by
// every protocol under protocol/.
//
// Grounded on gr-satnogs decoder.h/encoder.h's shared base class; the
// C++ virtual-dispatch hierarchy is replaced by a small interface.
package codec

import (
	"sync/atomic"

	"github.com/librespace/gsat-codec/metadata"
)

var nextID atomic.Uint64

// Identity is the immutable (name, version, process-wide id) triple
// every decoder and encoder carries
type Identity struct {
	Name    string
	Version string
	ID      uint64
}

// NewIdentity assigns a fresh process-wide-unique id from an atomic
// counter "process-wide counters" design note.
func NewIdentity(name, version string) Identity {
	return Identity{Name: name, Version: version, ID: nextID.Add(1) - 1}
}

// Status is the return of one decode call
type Status struct {
	Consumed int
	Success  bool
	Metadata metadata.M
}

// Decoder is the uniform streaming decoder contract
type Decoder interface {
	// Decode consumes some prefix of chunk (bit-stream items, one bit
	// per byte at the LSB, or soft int8 symbols for convolutional-backed
	// decoders) and returns how many items were retired and, on success,
	// the decoded frame's metadata.
	Decode(chunk []byte) Status
	// Reset returns the decoder to its pristine, just-constructed state.
	Reset()
	// InputMultiple is the item-count alignment the caller must respect
	// (1 for bit streams, 8 for byte-packed decoders).
	InputMultiple() int
	Identity() Identity
}

// Encoder is the uniform encoder contract Encode takes
// a PDU and returns the encoded bit-stream blob (one bit per byte, LSB
// significant) or an error if the PDU is invalid for this encoder
// (wrong shape, oversized).
type Encoder interface {
	Encode(pdu []byte) ([]byte, error)
	Identity() Identity
}
