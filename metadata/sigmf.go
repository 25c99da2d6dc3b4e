package metadata

import "encoding/json"

// SigMF accumulates decoded-frame metadata into a sigMF-flavored document:
// a global segment (accepted verbatim at construction), a capture segment
// per frame that carries center_freq, and an annotation segment per frame
// that carries sample_cnt plus the remaining per-frame keys. Grounded on
// gr-satnogs sigmf_metadata.h's core/antenna/satnogs namespace split.
type SigMF struct {
	global     json.RawMessage
	captures   []map[string]any
	annotation []map[string]any
}

// NewSigMF returns a projector seeded with a verbatim global segment.
func NewSigMF(global json.RawMessage) *SigMF {
	return &SigMF{global: global}
}

// Add folds one frame's metadata into the capture/annotation segments,
//.18: center_freq presence triggers a capture segment,
// sample_cnt presence triggers an annotation segment.
func (s *SigMF) Add(m M) {
	if v, ok := m[CenterFreq]; ok {
		cap := map[string]any{
			"core:frequency": v,
		}
		if ss, ok := m[SampleStart]; ok {
			cap["core:sample_start"] = ss
		}
		if t, ok := m[Time]; ok {
			cap["core:datetime"] = t
		}
		s.captures = append(s.captures, cap)
	}
	if cnt, ok := m[SampleCnt]; ok {
		ann := map[string]any{"core:sample_count": cnt}
		if ss, ok := m[SampleStart]; ok {
			ann["core:sample_start"] = ss
		}
		for k, v := range m {
			switch k {
			case CenterFreq, SampleStart, SampleCnt:
				continue
			case PDU:
				ann["satnogs:pdu"] = v
			case AntennaAzimuth:
				ann["antenna:azimuth_angle"] = v
			case AntennaElevation:
				ann["antenna:elevation_angle"] = v
			case AntennaPolarization:
				ann["antenna:polarization"] = v
			default:
				ann["satnogs:"+string(k)] = v
			}
		}
		s.annotation = append(s.annotation, ann)
	}
}

// Document renders {global, captures[], annotations[]} as a single JSON
// document.
func (s *SigMF) Document() ([]byte, error) {
	out := struct {
		Global      json.RawMessage  `json:"global"`
		Captures    []map[string]any `json:"captures"`
		Annotations []map[string]any `json:"annotations"`
	}{
		Global:      s.global,
		Captures:    s.captures,
		Annotations: s.annotation,
	}
	if out.Captures == nil {
		out.Captures = []map[string]any{}
	}
	if out.Annotations == nil {
		out.Annotations = []map[string]any{}
	}
	return json.Marshal(out)
}
