package argosldr_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/protocol/argosldr"
	"github.com/stretchr/testify/require"
)

func bytesToBitsMSB(data []byte) []byte {
	out := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for m := byte(0x80); m != 0; m >>= 1 {
			if b&m != 0 {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

func stuff(bits []byte) []byte {
	out := make([]byte, 0, len(bits)+len(bits)/5+1)
	ones := 0
	for _, b := range bits {
		out = append(out, b)
		if b == 1 {
			ones++
			if ones == 5 {
				out = append(out, 0)
				ones = 0
			}
		} else {
			ones = 0
		}
	}
	return out
}

func buildFrame(payload []byte) []byte {
	frame := crc.Append(crc.CCITT, payload, true)
	var bits []byte
	flag := bytesToBitsMSB([]byte{0x7E})
	bits = append(bits, flag...)
	bits = append(bits, flag...)
	bits = append(bits, flag...)
	bits = append(bits, stuff(bytesToBitsMSB(frame))...)
	bits = append(bits, flag...)
	return bits
}

func TestDecodeValidFrame(t *testing.T) {
	dec, err := argosldr.NewDecoder(argosldr.Options{MaxFrameLen: 64})
	require.NoError(t, err)

	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	bits := buildFrame(payload)

	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, payload, status.Metadata["pdu"])
}

func TestDecodeRejectsAllZeroPayload(t *testing.T) {
	dec, err := argosldr.NewDecoder(argosldr.Options{MaxFrameLen: 64})
	require.NoError(t, err)

	bits := buildFrame(make([]byte, 8))
	status := dec.Decode(bits)
	require.False(t, status.Success)
}
