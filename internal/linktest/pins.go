// Package linktest implements the wire-level conformance checks run
// between two serial ports joined by a cable: handshake-line toggling in
// both directions and byte-exact data transfer across baud rates and
// handshake configurations.
package linktest

import "fmt"

// NumPinCombinations is the number of distinct handshake configurations,
// one per combination of the four line booleans.
const NumPinCombinations = 16

// Pins is the commanded state of the four handshake lines for one
// transfer check. DTR and RTS are driven on the sending end; DSR and CTS
// name the states driven on the partner end so they read back as such on
// the sender.
type Pins struct {
	DTR bool // Data Terminal Ready
	DSR bool // Data Set Ready
	RTS bool // Request To Send
	CTS bool // Clear To Send
}

// PinsFromIndex decodes a combination index (0-15), one bit per line.
func PinsFromIndex(i int) Pins {
	return Pins{
		DTR: i&1 != 0,
		DSR: i&2 != 0,
		RTS: i&4 != 0,
		CTS: i&8 != 0,
	}
}

func (p Pins) String() string {
	state := func(up bool) string {
		if up {
			return "up"
		}
		return "down"
	}
	return fmt.Sprintf("DTR %s, DSR %s, RTS %s, CTS %s",
		state(p.DTR), state(p.DSR), state(p.RTS), state(p.CTS))
}
