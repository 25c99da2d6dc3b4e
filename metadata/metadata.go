// Package metadata implements the decoded-frame metadata dictionary and
// its two output projections (flat JSON and sigMF-flavored).
//
// Grounded on gr-satnogs metadata.h/json_converter.h/sigmf_metadata.h.
package metadata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Key is the closed enum of wire metadata names, fixed verbatim by 
type Key string

const (
	PDU                   Key = "pdu"
	DecoderCRCValid       Key = "decoder_crc_valid"
	CenterFreq            Key = "center_freq"
	DecoderPhase          Key = "decoder_phase"
	DecoderResamplingRate Key = "decoder_resampling_ratio"
	CRCValid              Key = "crc_valid"
	FreqOffset            Key = "freq_offset"
	DecoderCorrectedBits  Key = "decoder_corrected_bits"
	Time                  Key = "time"
	SampleStart           Key = "sample_start"
	SampleCnt             Key = "sample_cnt"
	DecoderSymbolErasures Key = "decoder_symbol_erasures"
	SNR                   Key = "snr"
	DecoderName           Key = "decoder_name"
	DecoderVersion        Key = "decoder_version"
	AntennaAzimuth        Key = "antenna_azimuth"
	AntennaElevation      Key = "antenna_elevation"
	AntennaPolarization   Key = "antenna_polarization"
	SymbolTimingError     Key = "symbol_timing_error"
)

// M is a flat key/value dictionary keyed by the closed Key enum. Values
// are typed (bool, unsigned integer, float64, []byte, string).
type M map[Key]any

// Clone returns a shallow copy.
func (m M) Clone() M {
	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ISO8601 formats t as UTC with microsecond precision and a trailing Z,
// matching wire format for the time key.
func ISO8601(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// FlatJSON renders m as a single flat JSON object: pdu is base64-encoded,
// every other present key is emitted under its wire name, and extra (if
// non-nil) is merged in verbatim under the "extra" key.
func FlatJSON(m M, extra json.RawMessage) ([]byte, error) {
	obj := make(map[string]any, len(m)+1)
	for k, v := range m {
		if k == PDU {
			b, ok := v.([]byte)
			if !ok {
				return nil, fmt.Errorf("metadata: pdu value is not []byte")
			}
			obj[string(k)] = base64.StdEncoding.EncodeToString(b)
			continue
		}
		obj[string(k)] = v
	}
	if extra != nil {
		var raw any
		if err := json.Unmarshal(extra, &raw); err != nil {
			return nil, fmt.Errorf("metadata: invalid extra json: %w", err)
		}
		obj["extra"] = raw
	}
	return json.Marshal(obj)
}
