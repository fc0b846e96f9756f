package linktest

import (
	"time"

	"github.com/allbin/linktest/internal/poll"
)

// SetLineFunc commands an output handshake line.
type SetLineFunc func(level bool) error

// GetLineFunc samples the paired input line on the other port.
type GetLineFunc func() (bool, error)

// lineBudget bounds each wait for the partner line to follow.
const lineBudget = 100 * time.Millisecond

// TestLine drives the output line low and waits for the paired input to
// drop, then drives it high and waits for the input to rise. Covering
// both transitions catches floating wires as well as stuck-high and
// stuck-low faults. A line that never drops fails with "stayed high"; a
// line that never rises fails with "stayed low". The same check serves
// all four pairings (RTS→CTS, CTS←RTS, DTR→DSR, DSR←DTR) by choosing
// which line is driven and which is observed.
func TestLine(set SetLineFunc, get GetLineFunc) error {
	if err := set(false); err != nil {
		return ioFailure(err)
	}
	dropped, err := poll.Until(func() (bool, error) {
		level, err := get()
		return !level, err
	}, lineBudget)
	if err != nil {
		return ioFailure(err)
	}
	if !dropped {
		return &Failure{Kind: FailureStuckLine, Description: "stayed high"}
	}

	if err := set(true); err != nil {
		return ioFailure(err)
	}
	rose, err := poll.Until(poll.Condition(get), lineBudget)
	if err != nil {
		return ioFailure(err)
	}
	if !rose {
		return &Failure{Kind: FailureStuckLine, Description: "stayed low"}
	}
	return nil
}
