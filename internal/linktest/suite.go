package linktest

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/allbin/linktest/internal/tap"
	"github.com/allbin/linktest/serial"
)

// DefaultBaudRates is the wire-rate grid covered by a full run.
var DefaultBaudRates = []int{9600, 19200, 38400, 115200}

// settleAfterBaudChange gives both UARTs a moment to apply the new rate
// before data flows.
const settleAfterBaudChange = 10 * time.Millisecond

// Suite is one full conformance run against two ports joined by a cable.
// Checks execute strictly in sequence: both ports hang off the same
// physical wiring, so concurrent commands would race.
type Suite struct {
	FirstPath  string
	SecondPath string
	BaudRates  []int // nil means DefaultBaudRates
	Short      bool  // use the abbreviated pattern and budget
	Log        logrus.FieldLogger

	// open is swappable for tests
	open func(path string) (serial.Port, error)
}

func openPort(path string) (serial.Port, error) {
	p, err := serial.Open(path, serial.WithBaudRate(9600))
	if err != nil {
		return nil, err
	}
	return serial.FixStatusLines(p), nil
}

func (s *Suite) baudRates() []int {
	if len(s.BaudRates) == 0 {
		return DefaultBaudRates
	}
	return s.BaudRates
}

// Plan returns the total number of checks a run will report: two opens,
// four handshake-line checks, and both transfer directions for every
// baud rate and pin combination.
func (s *Suite) Plan() int {
	return 2 + 4 + len(s.baudRates())*NumPinCombinations*2
}

// Run executes the suite, reporting every check to rep. Per-check
// hardware failures are reported and do not stop the run; a port
// configuration failure during baud-rate iteration aborts the run and is
// returned, since it means the link itself is unusable. If either port
// fails to open, all remaining checks are reported as skipped.
func (s *Suite) Run(rep *tap.Reporter) error {
	log := s.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	open := s.open
	if open == nil {
		open = openPort
	}

	first, errFirst := open(s.FirstPath)
	rep.Result(fmt.Sprintf("open %q", s.FirstPath), errFirst)
	second, errSecond := open(s.SecondPath)
	rep.Result(fmt.Sprintf("open %q", s.SecondPath), errSecond)

	ready := errFirst == nil && errSecond == nil
	if errFirst == nil {
		defer first.Close()
	}
	if errSecond == nil {
		defer second.Close()
	}

	type lineCheck struct {
		name string
		set  SetLineFunc
		get  GetLineFunc
	}
	var lineChecks []lineCheck
	if ready {
		lineChecks = []lineCheck{
			{"test RTS → CTS", first.SetRTS, second.ReadCTS},
			{"test CTS ← RTS", second.SetRTS, first.ReadCTS},
			{"test DTR → DSR", first.SetDTR, second.ReadDSR},
			{"test DSR ← DTR", second.SetDTR, first.ReadDSR},
		}
	} else {
		for _, name := range []string{"test RTS → CTS", "test CTS ← RTS", "test DTR → DSR", "test DSR ← DTR"} {
			lineChecks = append(lineChecks, lineCheck{name: name})
		}
	}
	for _, check := range lineChecks {
		if !ready {
			rep.Skip(check.name)
			continue
		}
		log.WithField("check", check.name).Debug("running handshake line check")
		rep.Result(check.name, TestLine(check.set, check.get))
	}

	pattern, budget := FullPattern(), TransferBudget
	if s.Short {
		pattern, budget = ShortPattern(), ShortTransferBudget
	}

	for _, rate := range s.baudRates() {
		if ready {
			for _, p := range []serial.Port{first, second} {
				if err := p.SetBaudRate(rate); err != nil {
					return fmt.Errorf("failed to set baud rate %d: %w", rate, err)
				}
				if err := p.FlushInput(); err != nil {
					return fmt.Errorf("failed to clear input buffer: %w", err)
				}
				if err := p.FlushOutput(); err != nil {
					return fmt.Errorf("failed to clear output buffer: %w", err)
				}
			}
			log.WithField("baud", rate).Debug("reconfigured both ports")
			time.Sleep(settleAfterBaudChange)
		}

		for i := 0; i < NumPinCombinations; i++ {
			pins := PinsFromIndex(i)

			description := fmt.Sprintf("send data at %d bps (%s)", rate, pins)
			if ready {
				rep.Result(description, TestTransmit(pins, first, second, pattern, budget, log))
			} else {
				rep.Skip(description)
			}

			description = fmt.Sprintf("receive data at %d bps (%s)", rate, pins)
			if ready {
				rep.Result(description, TestTransmit(pins, second, first, pattern, budget, log))
			} else {
				rep.Skip(description)
			}
		}
	}

	return nil
}
