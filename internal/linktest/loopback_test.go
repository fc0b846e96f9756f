package linktest

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/allbin/linktest/serial"
)

// wiredPort fakes one end of a null-modem cable: data written here shows
// up in the peer's input buffer, RTS/DTR driven here read back as the
// peer's CTS/DSR.
type wiredPort struct {
	peer *wiredPort

	inbound  bytes.Buffer
	rts, dtr bool
	baud     int
	closed   bool

	failBaud   bool // SetBaudRate fails
	dropWrites bool // written data vanishes on the wire
	corrupt    bool // one byte is flipped in transit
	deadStatus bool // status reads never follow the peer's lines
}

var _ serial.Port = (*wiredPort)(nil)

// newWiredPair returns two ports joined by a fully wired fake cable.
func newWiredPair() (*wiredPort, *wiredPort) {
	a := &wiredPort{baud: 9600}
	b := &wiredPort{baud: 9600}
	a.peer = b
	b.peer = a
	return a, b
}

func (p *wiredPort) Close() error {
	p.closed = true
	return nil
}

func (p *wiredPort) Read(buf []byte) (int, error) {
	return p.inbound.Read(buf)
}

func (p *wiredPort) Write(data []byte) (int, error) {
	if p.dropWrites {
		return len(data), nil
	}
	wire := make([]byte, len(data))
	copy(wire, data)
	if p.corrupt && len(wire) > 0 {
		wire[0] ^= 0xff
	}
	return p.peer.inbound.Write(wire)
}

func (p *wiredPort) SetBaudRate(rate int) error {
	if p.failBaud {
		return errors.New("baud rate rejected")
	}
	p.baud = rate
	return nil
}

func (p *wiredPort) BytesAvailable() (int, error) {
	return p.inbound.Len(), nil
}

func (p *wiredPort) Drain() error {
	return nil
}

func (p *wiredPort) FlushInput() error {
	p.inbound.Reset()
	return nil
}

func (p *wiredPort) FlushOutput() error {
	return nil
}

func (p *wiredPort) SetRTS(state bool) error {
	p.rts = state
	return nil
}

func (p *wiredPort) SetDTR(state bool) error {
	p.dtr = state
	return nil
}

func (p *wiredPort) ReadCTS() (bool, error) {
	if p.deadStatus {
		return false, nil
	}
	return p.peer.rts, nil
}

func (p *wiredPort) ReadDSR() (bool, error) {
	if p.deadStatus {
		return false, nil
	}
	return p.peer.dtr, nil
}

func (p *wiredPort) ReadRI() (bool, error) {
	return false, nil
}

func (p *wiredPort) ReadDCD() (bool, error) {
	return false, nil
}

func (p *wiredPort) GetModemSignals() (serial.ModemSignals, error) {
	return serial.ModemSignals{
		CTS: p.peer.rts,
		DSR: p.peer.dtr,
		RTS: p.rts,
		DTR: p.dtr,
	}, nil
}

func (p *wiredPort) WaitForSignalChange(ctx context.Context, mask serial.SignalMask) (serial.ModemSignals, serial.SignalMask, error) {
	return serial.ModemSignals{}, 0, errors.New("not supported")
}

// testLogger discards output unless the test fails loudly enough to care.
func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
