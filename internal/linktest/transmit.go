package linktest

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/allbin/linktest/internal/poll"
	"github.com/allbin/linktest/serial"
)

const (
	// settleBudget bounds the wait for observed line states to match the
	// commanded configuration before data is written.
	settleBudget = 100 * time.Millisecond

	// TransferBudget is how long the full pattern may take to arrive.
	TransferBudget = 500 * time.Millisecond

	// ShortTransferBudget applies when the abbreviated pattern is used.
	ShortTransferBudget = 250 * time.Millisecond
)

// FullPattern returns the 256 distinct byte values 0-255.
func FullPattern() []byte {
	pattern := make([]byte, 256)
	for i := range pattern {
		pattern[i] = byte(i)
	}
	return pattern
}

// ShortPattern returns the abbreviated transfer fingerprint.
func ShortPattern() []byte {
	return []byte("the quick brown fox jumps over the lazy dog\r\n")
}

// TestTransmit verifies byte-exact transfer from src to dst under the
// given handshake configuration. Both ends' lines are commanded first
// and given settleBudget to read back as commanded; a settle timeout is
// tolerated, since hardware without full loop-back wiring never settles,
// and the transfer proceeds regardless. The pattern must then arrive on
// dst complete and unaltered within budget.
func TestTransmit(pins Pins, src, dst serial.Port, pattern []byte, budget time.Duration, log logrus.FieldLogger) error {
	if err := src.SetDTR(pins.DTR); err != nil {
		return ioFailure(err)
	}
	if err := dst.SetDTR(pins.DSR); err != nil {
		return ioFailure(err)
	}
	if err := src.SetRTS(pins.RTS); err != nil {
		return ioFailure(err)
	}
	if err := dst.SetRTS(pins.CTS); err != nil {
		return ioFailure(err)
	}

	settled, err := poll.Until(func() (bool, error) {
		dsr, err := dst.ReadDSR()
		if err != nil {
			return false, err
		}
		if dsr != pins.DTR {
			return false, nil
		}
		if dsr, err = src.ReadDSR(); err != nil || dsr != pins.DSR {
			return false, err
		}
		cts, err := dst.ReadCTS()
		if err != nil || cts != pins.RTS {
			return false, err
		}
		cts, err = src.ReadCTS()
		return cts == pins.CTS, err
	}, settleBudget)
	if err != nil {
		return ioFailure(err)
	}
	if !settled {
		log.WithField("pins", pins.String()).Debug("handshake lines did not settle, proceeding anyway")
	}

	if err := writeAll(src, pattern); err != nil {
		return ioFailure(err)
	}

	arrived, err := poll.Until(func() (bool, error) {
		n, err := dst.BytesAvailable()
		return n >= len(pattern), err
	}, budget)
	if err != nil {
		return ioFailure(err)
	}
	if !arrived {
		return &Failure{
			Kind:        FailureTimeout,
			Description: fmt.Sprintf("%d bytes did not arrive within %v", len(pattern), budget),
		}
	}

	// Read back exactly what the destination reports as buffered, so an
	// over-long arrival shows up as a content mismatch below.
	size, err := dst.BytesAvailable()
	if err != nil {
		return ioFailure(err)
	}
	received := make([]byte, size)
	if _, err := io.ReadFull(dst, received); err != nil {
		return ioFailure(err)
	}

	if !bytes.Equal(received, pattern) {
		return &Failure{
			Kind:        FailureMismatch,
			Description: fmt.Sprintf("content mismatched: %q != %q", received, pattern),
		}
	}
	return nil
}

// writeAll pushes the whole pattern through short writes.
func writeAll(p serial.Port, data []byte) error {
	for len(data) > 0 {
		n, err := p.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
