// Package config loads decoder/encoder construction parameters from a
// YAML document into the typed Options structs each protocol package
// expects.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/librespace/gsat-codec/internal/crc"
	"github.com/librespace/gsat-codec/protocol/ax100mode5"
	"github.com/librespace/gsat-codec/protocol/ax100mode6"
	"github.com/librespace/gsat-codec/protocol/ax25"
	"github.com/librespace/gsat-codec/protocol/ieee802154"
)

// CRCKind is the YAML-facing CRC algorithm name; String values match
// the wire names used throughout the protocol config blocks.
type CRCKind string

const (
	CRCNone          CRCKind = "none"
	CRCCCITT         CRCKind = "ccitt"
	CRCAugCCITT      CRCKind = "aug-ccitt"
	CRCCCITTReversed CRCKind = "ccitt-reversed"
	CRCAX25          CRCKind = "ax25"
	CRCIBM           CRCKind = "ibm"
	CRC32C           CRCKind = "crc32c"
)

func (k CRCKind) resolve() (crc.Kind, error) {
	switch k {
	case "", CRCNone:
		return 0, nil
	case CRCCCITT:
		return crc.CCITT, nil
	case CRCAugCCITT:
		return crc.AugCCITT, nil
	case CRCCCITTReversed:
		return crc.CCITTReversed, nil
	case CRCAX25:
		return crc.AX25, nil
	case CRCIBM:
		return crc.IBM, nil
	case CRC32C:
		return crc.CRC32C, nil
	default:
		return 0, fmt.Errorf("config: unknown crc kind %q", k)
	}
}

// bytesField accepts either a hex string ("AA BB") or a list of ints in
// the YAML document, for preamble/sync byte sequences.
type bytesField []byte

func (b *bytesField) UnmarshalYAML(value *yaml.Node) error {
	var ints []int
	if err := value.Decode(&ints); err == nil {
		out := make([]byte, len(ints))
		for i, v := range ints {
			out[i] = byte(v)
		}
		*b = out
		return nil
	}
	var hex string
	if err := value.Decode(&hex); err != nil {
		return err
	}
	out, err := parseHexBytes(hex)
	if err != nil {
		return err
	}
	*b = out
	return nil
}

func parseHexBytes(s string) ([]byte, error) {
	var out []byte
	var cur byte
	nibbles := 0
	flush := func() {
		if nibbles > 0 {
			out = append(out, cur)
			cur, nibbles = 0, 0
		}
	}
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		case r >= '0' && r <= '9':
			cur = cur<<4 | byte(r-'0')
			nibbles++
		case r >= 'a' && r <= 'f':
			cur = cur<<4 | byte(r-'a'+10)
			nibbles++
		case r >= 'A' && r <= 'F':
			cur = cur<<4 | byte(r-'A'+10)
			nibbles++
		default:
			return nil, fmt.Errorf("config: invalid hex byte string %q", s)
		}
		if nibbles == 2 {
			flush()
		}
	}
	flush()
	return out, nil
}

// Document is the top-level YAML shape: one optional block per protocol,
// each parsed into that protocol's own Options type.
type Document struct {
	AX25       *AX25Config       `yaml:"ax25"`
	AX100Mode5 *AX100Mode5Config `yaml:"ax100_mode5"`
	AX100Mode6 *AX100Mode6Config `yaml:"ax100_mode6"`
	IEEE802154 *IEEE802154Config `yaml:"ieee802154"`
}

// AX25Config mirrors protocol/ax25.DecoderOptions/EncoderOptions.
type AX25Config struct {
	Address         string `yaml:"address"`
	SSID            byte   `yaml:"ssid"`
	Promiscuous     bool   `yaml:"promiscuous"`
	Descramble      bool   `yaml:"descramble"`
	NRZI            bool   `yaml:"nrzi"`
	CRCCheck        bool   `yaml:"crc_check"`
	ErrorCorrection bool   `yaml:"error_correction"`
	MaxFrameLen     int    `yaml:"max_frame_len"`

	Dest         string `yaml:"dest"`
	Src          string `yaml:"src"`
	DestSSID     byte   `yaml:"dest_ssid"`
	SrcSSID      byte   `yaml:"src_ssid"`
	PreambleLen  int    `yaml:"preamble_len"`
	PostambleLen int    `yaml:"postamble_len"`
	Scramble     bool   `yaml:"scramble"`
}

func (c AX25Config) DecoderOptions() ax25.DecoderOptions {
	return ax25.DecoderOptions{
		Address: c.Address, SSID: c.SSID, Promiscuous: c.Promiscuous,
		Descramble: c.Descramble, NRZI: c.NRZI, CRCCheck: c.CRCCheck,
		MaxFrameLen: c.MaxFrameLen, ErrorCorrection: c.ErrorCorrection,
	}
}

func (c AX25Config) EncoderOptions() ax25.EncoderOptions {
	return ax25.EncoderOptions{
		Dest: c.Dest, Src: c.Src, DestSSID: c.DestSSID, SrcSSID: c.SrcSSID,
		PreambleLen: c.PreambleLen, PostambleLen: c.PostambleLen,
		Scramble: c.Scramble, NRZI: c.NRZI, MaxFrameLen: c.MaxFrameLen,
	}
}

// AX100Mode5Config mirrors protocol/ax100mode5.Options.
type AX100Mode5Config struct {
	Preamble          bytesField `yaml:"preamble"`
	Sync              bytesField `yaml:"sync"`
	PreambleThreshold int        `yaml:"preamble_threshold"`
	SyncThreshold     int        `yaml:"sync_threshold"`
	RS                bool       `yaml:"rs"`
	Scramble          bool       `yaml:"scramble"`
	CRCEnabled        bool       `yaml:"crc_enabled"`
	CRCKind           CRCKind    `yaml:"crc_kind"`
	MaxFrameLen       int        `yaml:"max_frame_len"`
}

func (c AX100Mode5Config) Options() (ax100mode5.Options, error) {
	kind, err := c.CRCKind.resolve()
	if err != nil {
		return ax100mode5.Options{}, err
	}
	return ax100mode5.Options{
		Preamble: c.Preamble, Sync: c.Sync,
		PreambleThreshold: c.PreambleThreshold, SyncThreshold: c.SyncThreshold,
		RS: c.RS, Scramble: c.Scramble, CRCEnabled: c.CRCEnabled,
		CRCKind: kind, MaxFrameLen: c.MaxFrameLen,
	}, nil
}

// AX100Mode6Config mirrors protocol/ax100mode6.Options.
type AX100Mode6Config struct {
	MaxFrameLen int  `yaml:"max_frame_len"`
	CRCEnabled  bool `yaml:"crc_enabled"`
}

func (c AX100Mode6Config) Options() ax100mode6.Options {
	return ax100mode6.Options{MaxFrameLen: c.MaxFrameLen, CRCEnabled: c.CRCEnabled}
}

// IEEE802154Config mirrors protocol/ieee802154.Options.
type IEEE802154Config struct {
	Preamble          bytesField `yaml:"preamble"`
	Sync              bytesField `yaml:"sync"`
	PreambleThreshold int        `yaml:"preamble_threshold"`
	SyncThreshold     int        `yaml:"sync_threshold"`
	VariableLength    bool       `yaml:"variable_length"`
	FixedLength       int        `yaml:"fixed_length"`
	Descramble        bool       `yaml:"descramble"`
	RS                bool       `yaml:"rs"`
	CRCEnabled        bool       `yaml:"crc_enabled"`
	CRCKind           CRCKind    `yaml:"crc_kind"`
	MaxFrameLen       int        `yaml:"max_frame_len"`
	DropInvalid       bool       `yaml:"drop_invalid"`
}

func (c IEEE802154Config) Options() (ieee802154.Options, error) {
	kind, err := c.CRCKind.resolve()
	if err != nil {
		return ieee802154.Options{}, err
	}
	return ieee802154.Options{
		Preamble: c.Preamble, Sync: c.Sync,
		PreambleThreshold: c.PreambleThreshold, SyncThreshold: c.SyncThreshold,
		VariableLength: c.VariableLength, FixedLength: c.FixedLength,
		Descramble: c.Descramble, RS: c.RS, CRCEnabled: c.CRCEnabled,
		CRCKind: kind, MaxFrameLen: c.MaxFrameLen, DropInvalid: c.DropInvalid,
	}, nil
}

// Load reads and parses a YAML configuration document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &doc, nil
}
