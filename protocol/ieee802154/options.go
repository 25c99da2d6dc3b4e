// Package ieee802154 implements the 802.15.4-variant decoder and
// encoder: configurable preamble+sync, variable (1-byte length) or fixed
// length, optional descrambler, optional RS(255,223), and configurable
// CRC.
//
// Grounded on gr-satnogs ieee802_15_4_variant_decoder.h/
// ieee802_15_4_encoder.h.
package ieee802154

import (
	"fmt"

	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/internal/rs"
)

// Options configures Decoder and Encoder.
type Options struct {
	Preamble          []byte
	Sync              []byte
	PreambleThreshold int
	SyncThreshold     int
	VariableLength    bool // length field is 1 byte when true
	FixedLength       int  // payload length when VariableLength is false
	Descramble        bool
	RS                bool
	CRCEnabled        bool
	CRCKind           crc.Kind
	MaxFrameLen       int
	DropInvalid       bool // drop frame on CRC failure instead of emitting decoder_crc_valid=false
}

func (o Options) validate() error {
	if len(o.Sync)*8 < 8 {
		return fmt.Errorf("ieee802154: sync length must be >= 8 bits")
	}
	if o.PreambleThreshold > len(o.Preamble)*8/2 {
		return fmt.Errorf("ieee802154: preamble threshold too permissive")
	}
	if o.SyncThreshold > len(o.Sync)*8/2 {
		return fmt.Errorf("ieee802154: sync threshold too permissive")
	}
	if o.MaxFrameLen <= 0 {
		return fmt.Errorf("ieee802154: invalid max_frame_len")
	}
	minOverhead := 0
	if o.RS {
		minOverhead += rs.NParity
	}
	if o.CRCEnabled {
		minOverhead += crc.Size(o.CRCKind)
	}
	if o.MaxFrameLen < minOverhead {
		return fmt.Errorf("ieee802154: max_frame_len %d below RS/CRC overhead %d", o.MaxFrameLen, minOverhead)
	}
	if !o.VariableLength && o.FixedLength < minOverhead {
		return fmt.Errorf("ieee802154: fixed_length %d below RS/CRC overhead %d", o.FixedLength, minOverhead)
	}
	return nil
}

func bytesToValue(data []byte) uint64 {
	var v uint64
	for _, b := range data {
		v = (v << 8) | uint64(b)
	}
	return v
}
