package cw_test

import (
	"testing"

	"github.com/librespace/gsat-codec/protocol/cw"
	"github.com/stretchr/testify/require"
)

const wpm = 20
const sampleRate = 8000

// unitSamples mirrors cw.NewDecoder's own derivation so the test can
// build bit streams with exact timing.
const unitSamples = 480 // 1200/20 ms * 8000 Hz / 1000

var patterns = map[byte]string{
	'S': "...",
	'O': "---",
}

func tone(n int, bits *[]byte) {
	for i := 0; i < n; i++ {
		*bits = append(*bits, 1)
	}
}

func quiet(n int, bits *[]byte) {
	for i := 0; i < n; i++ {
		*bits = append(*bits, 0)
	}
}

func buildMessage(t *testing.T, text string) []byte {
	t.Helper()
	var bits []byte
	for ci, ch := range text {
		pattern, ok := patterns[byte(ch)]
		require.True(t, ok)
		for mi, mark := range pattern {
			if mark == '.' {
				tone(unitSamples, &bits)
			} else {
				tone(3*unitSamples, &bits)
			}
			if mi != len(pattern)-1 {
				quiet(unitSamples, &bits)
			}
		}
		if ci != len(text)-1 {
			quiet(3*unitSamples, &bits)
		}
	}
	quiet(12*unitSamples, &bits) // end-of-transmission silence
	return bits
}

func TestDecodeSOS(t *testing.T) {
	dec, err := cw.NewDecoder(cw.Options{WPM: wpm, SampleRate: sampleRate, MaxMessageLen: 32})
	require.NoError(t, err)

	bits := buildMessage(t, "SOS")
	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, []byte("SOS"), status.Metadata["pdu"])
}

func TestDecodeToleratesSingleSampleGlitch(t *testing.T) {
	dec, err := cw.NewDecoder(cw.Options{WPM: wpm, SampleRate: sampleRate, MaxMessageLen: 32})
	require.NoError(t, err)

	bits := buildMessage(t, "S")
	// Flip a handful of samples mid-dot to simulate tone-detector noise;
	// the moving-sum debounce should absorb it rather than splitting the
	// run into spurious extra symbols.
	glitchAt := unitSamples / 2
	for i := glitchAt; i < glitchAt+3 && i < len(bits); i++ {
		bits[i] = 0
	}

	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, []byte("S"), status.Metadata["pdu"])
}

func TestDecodeWordGapInsertsSpace(t *testing.T) {
	dec, err := cw.NewDecoder(cw.Options{WPM: wpm, SampleRate: sampleRate, MaxMessageLen: 32})
	require.NoError(t, err)

	var bits []byte
	bits = append(bits, buildMessage(t, "S")...)
	// buildMessage appends a 12-unit end-of-transmission gap; replace it
	// with a 7-unit inter-word gap before appending the next word.
	bits = bits[:len(bits)-12*unitSamples]
	quiet(7*unitSamples, &bits)
	bits = append(bits, buildMessage(t, "O")...)

	status := dec.Decode(bits)
	require.True(t, status.Success)
	require.Equal(t, []byte("S O"), status.Metadata["pdu"])
}
