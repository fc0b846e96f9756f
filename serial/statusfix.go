package serial

import "golang.org/x/sys/unix"

// FixStatusLines wraps a port so that every modem-status read (CTS, DSR,
// RI, DCD) is answered by a fresh TIOCMGET query against the port's raw
// descriptor instead of whatever the underlying implementation would
// report. Some port implementations return cached or otherwise stale
// line states; the wrapper guarantees each read reflects the hardware
// register at call time.
//
// The wrapped port must expose its descriptor via Fd() int. Ports that
// do not are returned unchanged, which leaves their native status reads
// in effect; on such ports line-state accuracy is only as good as the
// implementation itself.
//
// The descriptor is queried on every read, never cached, so once the
// wrapped port reports no live descriptor (a negative Fd after Close)
// status reads return ErrPortClosed instead of touching a stale or
// reused descriptor.
//
// All other operations pass through to the wrapped port untouched.
func FixStatusLines(p Port) Port {
	f, ok := p.(Fder)
	if !ok {
		return p
	}
	return &fixedPort{Port: p, fder: f}
}

// fixedPort overrides the four status-line reads of the embedded Port
type fixedPort struct {
	Port
	fder Fder
}

var _ Port = (*fixedPort)(nil)

func (p *fixedPort) readLine(bit int) (bool, error) {
	fd := p.fder.Fd()
	if fd < 0 {
		return false, ErrPortClosed
	}
	status, err := getModemStatus(fd)
	if err != nil {
		return false, err
	}
	return status&bit != 0, nil
}

func (p *fixedPort) ReadCTS() (bool, error) {
	return p.readLine(unix.TIOCM_CTS)
}

func (p *fixedPort) ReadDSR() (bool, error) {
	return p.readLine(unix.TIOCM_DSR)
}

func (p *fixedPort) ReadRI() (bool, error) {
	return p.readLine(unix.TIOCM_RI)
}

func (p *fixedPort) ReadDCD() (bool, error) {
	return p.readLine(unix.TIOCM_CAR)
}

func (p *fixedPort) GetModemSignals() (ModemSignals, error) {
	fd := p.fder.Fd()
	if fd < 0 {
		return ModemSignals{}, ErrPortClosed
	}
	status, err := getModemStatus(fd)
	if err != nil {
		return ModemSignals{}, err
	}
	return signalsFromStatus(status), nil
}
