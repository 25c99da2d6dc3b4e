// Command frametool runs a single protocol encoder or decoder offline
// over a file, for bench-testing the codecs without a live radio
// pipeline. Bit files are one byte per bit (0x00/0x01), the same
// wire convention codec.Encoder.Encode produces and
// codec.Decoder.Decode consumes throughout this module.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/librespace/gsat-codec/codec"
	"github.com/librespace/gsat-codec/config"
	"github.com/librespace/gsat-codec/metadata"
	"github.com/librespace/gsat-codec/protocol/ax100mode5"
	"github.com/librespace/gsat-codec/protocol/ax100mode6"
	"github.com/librespace/gsat-codec/protocol/ieee802154"
)

type protocolSet struct {
	decoder codec.Decoder
	encoder interface {
		Encode([]byte) ([]byte, error)
	}
}

func buildProtocol(name string, doc *config.Document) (*protocolSet, error) {
	switch name {
	case "ax100mode5":
		if doc.AX100Mode5 == nil {
			return nil, fmt.Errorf("frametool: config has no ax100_mode5 block")
		}
		opts, err := doc.AX100Mode5.Options()
		if err != nil {
			return nil, err
		}
		dec, err := ax100mode5.NewDecoder(opts)
		if err != nil {
			return nil, err
		}
		enc, err := ax100mode5.NewEncoder(opts)
		if err != nil {
			return nil, err
		}
		return &protocolSet{decoder: dec, encoder: enc}, nil
	case "ax100mode6":
		if doc.AX100Mode6 == nil {
			return nil, fmt.Errorf("frametool: config has no ax100_mode6 block")
		}
		opts := doc.AX100Mode6.Options()
		dec, err := ax100mode6.NewDecoder(opts)
		if err != nil {
			return nil, err
		}
		enc, err := ax100mode6.NewEncoder(opts)
		if err != nil {
			return nil, err
		}
		return &protocolSet{decoder: dec, encoder: enc}, nil
	case "ieee802154":
		if doc.IEEE802154 == nil {
			return nil, fmt.Errorf("frametool: config has no ieee802154 block")
		}
		opts, err := doc.IEEE802154.Options()
		if err != nil {
			return nil, err
		}
		dec, err := ieee802154.NewDecoder(opts)
		if err != nil {
			return nil, err
		}
		enc, err := ieee802154.NewEncoder(opts)
		if err != nil {
			return nil, err
		}
		return &protocolSet{decoder: dec, encoder: enc}, nil
	default:
		return nil, fmt.Errorf("frametool: unknown protocol %q (want ax100mode5, ax100mode6, or ieee802154)", name)
	}
}

func readBitFile(path string) ([]byte, error) {
	if path == "-" {
		return readAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readAll(f)
}

func readAll(f *os.File) ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			break
		}
	}
	return out, nil
}

func runDecode(ps *protocolSet, bits []byte, logger *log.Logger) {
	for len(bits) > 0 {
		status := ps.decoder.Decode(bits)
		consumed := status.Consumed
		if consumed <= 0 || consumed > len(bits) {
			consumed = len(bits)
		}
		bits = bits[consumed:]
		if !status.Success {
			continue
		}
		pdu, _ := status.Metadata[metadata.PDU].([]byte)
		if pdu == nil {
			logger.Warn("decode succeeded with no pdu in metadata")
			continue
		}
		fmt.Println(hex.EncodeToString(pdu))
	}
}

func runEncode(ps *protocolSet, pdu []byte) error {
	bits, err := ps.encoder.Encode(pdu)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(bits)
	return err
}

func main() {
	protocol := flag.StringP("protocol", "p", "", "protocol name: ax100mode5, ax100mode6, or ieee802154")
	configPath := flag.StringP("config", "c", "", "path to a YAML config document (see config package)")
	mode := flag.StringP("mode", "m", "decode", "decode or encode")
	inPath := flag.StringP("in", "i", "-", "input file (bit file for decode, raw PDU for encode); - for stdin")
	pduHex := flag.StringP("pdu-hex", "x", "", "hex-encoded PDU to encode, instead of reading --in")
	verbose := flag.BoolP("verbose", "v", false, "enable debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "frametool"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *protocol == "" || *configPath == "" {
		logger.Error("both --protocol and --config are required")
		os.Exit(2)
	}

	doc, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "err", err)
		os.Exit(1)
	}
	ps, err := buildProtocol(*protocol, doc)
	if err != nil {
		logger.Error("building protocol", "err", err)
		os.Exit(1)
	}

	switch *mode {
	case "decode":
		bits, err := readBitFile(*inPath)
		if err != nil {
			logger.Error("reading bit file", "err", err)
			os.Exit(1)
		}
		runDecode(ps, bits, logger)
	case "encode":
		var pdu []byte
		if *pduHex != "" {
			pdu, err = hex.DecodeString(*pduHex)
			if err != nil {
				logger.Error("decoding --pdu-hex", "err", err)
				os.Exit(1)
			}
		} else {
			pdu, err = readBitFile(*inPath)
			if err != nil {
				logger.Error("reading pdu input", "err", err)
				os.Exit(1)
			}
		}
		if err := runEncode(ps, pdu); err != nil {
			logger.Error("encoding", "err", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown mode, want decode or encode", "mode", *mode)
		os.Exit(2)
	}
}
