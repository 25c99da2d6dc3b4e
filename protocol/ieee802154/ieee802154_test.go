package ieee802154_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/bitops"
	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/protocol/ieee802154"
	"github.com/stretchr/testify/require"
)

func baseOptions() ieee802154.Options {
	return ieee802154.Options{
		Preamble:          []byte{0xAA, 0xAA, 0xAA, 0xAA},
		Sync:              []byte{0x93, 0x0B},
		PreambleThreshold: 4,
		SyncThreshold:     2,
		VariableLength:    true,
		CRCEnabled:        true,
		CRCKind:           crc.CRC32C,
		MaxFrameLen:        255,
	}
}

func TestRoundTripPlain(t *testing.T) {
	opts := baseOptions()
	enc, err := ieee802154.NewEncoder(opts)
	require.NoError(t, err)
	dec, err := ieee802154.NewDecoder(opts)
	require.NoError(t, err)

	pdu := []byte("sensor-net frame")
	bits, err := enc.Encode(pdu)
	require.NoError(t, err)

	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, pdu, status.Metadata["pdu"])
}

func TestRoundTripDescrambleAndRS(t *testing.T) {
	opts := baseOptions()
	opts.Descramble = true
	opts.RS = true
	enc, err := ieee802154.NewEncoder(opts)
	require.NoError(t, err)
	dec, err := ieee802154.NewDecoder(opts)
	require.NoError(t, err)

	pdu := []byte("longer sensor-net frame payload for RS coverage")
	bits, err := enc.Encode(pdu)
	require.NoError(t, err)

	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, pdu, status.Metadata["pdu"])
}

func TestShortGarbageLengthDoesNotPanic(t *testing.T) {
	opts := baseOptions()
	opts.CRCKind = crc.CRC32C // 4-byte FCS

	dec, err := ieee802154.NewDecoder(opts)
	require.NoError(t, err)

	// A noise-produced length byte of 1 claims a 1-byte frame, far
	// shorter than the 4-byte CRC32C it's declared to carry.
	var bits []byte
	bits = append(bits, bitops.BytesToBits(opts.Preamble)...)
	bits = append(bits, bitops.BytesToBits(opts.Sync)...)
	bits = append(bits, bitops.BytesToBits([]byte{1})...)
	bits = append(bits, bitops.BytesToBits([]byte{0xFF})...)

	status := dec.Decode(bits)
	require.False(t, status.Success)
}

func TestFixedLengthBelowCRCSizeRejectedAtConstruction(t *testing.T) {
	opts := baseOptions()
	opts.VariableLength = false
	opts.CRCKind = crc.CRC32C
	opts.FixedLength = 2 // shorter than the 4-byte CRC32C FCS

	_, err := ieee802154.NewDecoder(opts)
	require.Error(t, err)
}

func TestFixedLengthMode(t *testing.T) {
	opts := baseOptions()
	opts.VariableLength = false
	pdu := []byte("fixedlen")
	opts.FixedLength = len(pdu) + crc.Size(crc.CRC32C)

	enc, err := ieee802154.NewEncoder(opts)
	require.NoError(t, err)
	dec, err := ieee802154.NewDecoder(opts)
	require.NoError(t, err)

	bits, err := enc.Encode(pdu)
	require.NoError(t, err)
	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, pdu, status.Metadata["pdu"])
}
