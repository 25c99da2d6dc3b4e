package usp_test

import (
	"testing"

	"github.com/librespace/gsat-codec/internal/bitops"
	"github.com/librespace/gsat-codec/internal/conv"
	"github.com/librespace/gsat-codec/internal/reedmuller"
	"github.com/librespace/gsat-codec/internal/rs"
	"github.com/librespace/gsat-codec/internal/scramble"
	"github.com/librespace/gsat-codec/protocol/usp"
	"github.com/stretchr/testify/require"
)

const plsScrambleConst uint64 = 0x0F1E2D3C4B5A6978

func baseOptions() usp.Options {
	return usp.Options{
		Preamble:    []byte{0xAA, 0xAA, 0xAA, 0xAA},
		Sync:        []byte{0x1A, 0xCF, 0xFC, 0x1D},
		PLSCode:     0x2A,
		MaxFrameLen: 255,
	}
}

func hardToSoft(bits []byte) []int8 {
	out := make([]int8, len(bits))
	for i, b := range bits {
		if b == 1 {
			out[i] = 127
		} else {
			out[i] = -128
		}
	}
	return out
}

func TestEncodeStructureAndPayloadRecoverable(t *testing.T) {
	opts := baseOptions()
	enc, err := usp.NewEncoder(opts)
	require.NoError(t, err)

	pdu := []byte("usp telemetry frame")
	bits, err := enc.Encode(pdu)
	require.NoError(t, err)

	preludeBits := (len(opts.Preamble) + len(opts.Sync)) * 8
	frameBytes := bitops.PackMSB(bits)
	plsStart := len(opts.Preamble) + len(opts.Sync)
	plsBytes := frameBytes[plsStart : plsStart+8]
	var plsWord uint64
	for _, b := range plsBytes {
		plsWord = (plsWord << 8) | uint64(b)
	}
	recoveredPLS := reedmuller.Decode(plsWord ^ plsScrambleConst)
	require.Equal(t, opts.PLSCode, recoveredPLS)

	payloadBits := bits[preludeBits+64:]
	soft := hardToSoft(payloadBits)

	parity, err := rs.EncodeShortened(pdu)
	require.NoError(t, err)
	body := append(append([]byte{}, pdu...), parity...)
	dataBits := bitops.BytesToBits(body)
	numDataBits := len(dataBits) + 4

	depth := conv.TruncationDepth("1/2")
	chunk := depth * 2
	dec := conv.NewDecoder("1/2")
	var decoded []byte
	for i := 0; i < len(soft); i += chunk {
		end := i + chunk
		if end > len(soft) {
			end = len(soft)
		}
		decoded = append(decoded, dec.DecodeChunk(soft[i:end])...)
	}
	require.GreaterOrEqual(t, len(decoded), numDataBits)
	require.Equal(t, dataBits, decoded[:len(dataBits)])
}

func TestEncodeWithScramble(t *testing.T) {
	opts := baseOptions()
	opts.Scramble = true
	enc, err := usp.NewEncoder(opts)
	require.NoError(t, err)

	pdu := []byte("scrambled usp payload")
	bits, err := enc.Encode(pdu)
	require.NoError(t, err)
	require.NotEmpty(t, bits)

	preludeBits := (len(opts.Preamble) + len(opts.Sync)) * 8
	payloadBits := bits[preludeBits+64:]
	soft := hardToSoft(payloadBits)

	depth := conv.TruncationDepth("1/2")
	chunk := depth * 2
	dec := conv.NewDecoder("1/2")
	var decoded []byte
	for i := 0; i < len(soft); i += chunk {
		end := i + chunk
		if end > len(soft) {
			end = len(soft)
		}
		decoded = append(decoded, dec.DecodeChunk(soft[i:end])...)
	}
	decodedBytes := bitops.PackMSB(decoded)
	descrambled := scramble.CCSDS(true).DescrambleBytes(decodedBytes[:len(pdu)+rs.NParity])
	require.Equal(t, pdu, descrambled[:len(pdu)])
}

func TestEncodeRejectsOversizedPDU(t *testing.T) {
	opts := baseOptions()
	enc, err := usp.NewEncoder(opts)
	require.NoError(t, err)

	_, err = enc.Encode(make([]byte, rs.K+1))
	require.Error(t, err)
}
