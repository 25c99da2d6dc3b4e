// Command bercal drives ber.Calculator as a standalone BER/FER test
// harness, triggering and self-receiving a run of frames and printing
// the resulting report.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/librespace/gsat-codec/ber"
)

func main() {
	frameSize := flag.IntP("frame-size", "f", 32, "frame size in bytes, including 8-byte counter and 4-byte CRC32C trailer")
	nFrames := flag.IntP("count", "n", 1000, "number of frames to trigger (0 = unbounded; the run then never ends)")
	skip := flag.Uint64P("skip", "s", 0, "counter values below this are treated as pre-roll and not scored")
	seed := flag.Int64P("seed", "r", 1, "PRBS payload seed")
	loopback := flag.BoolP("loopback", "l", true, "feed every triggered frame directly back into the receiver")
	verbose := flag.BoolP("verbose", "v", false, "enable debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "bercal"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	calc, err := ber.NewCalculator(ber.Options{
		FrameSize: *frameSize,
		Skip:      *skip,
		NFrames:   *nFrames,
	}, *seed)
	if err != nil {
		logger.Error("configuring calculator", "err", err)
		os.Exit(1)
	}

	sent := 0
	for {
		pdu, ok := calc.Trigger()
		if !ok {
			break
		}
		sent++
		logger.Debug("triggered frame", "n", sent, "bytes", len(pdu))
		if *loopback {
			calc.Received(pdu)
		}
	}

	report := calc.Report()
	fmt.Printf("sent=%d received=%d dropped=%d invalid=%d fer=%.6g ber=%.6g\n",
		report.Sent, report.Received, report.Dropped, report.Invalid, report.FER, report.BER)
}
