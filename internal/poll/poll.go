// Package poll implements the bounded retry loop used for all hardware
// state observation: modem line transitions and input buffer fills are
// not interrupt-driven here, so callers busy-poll with a short sleep
// that bounds CPU usage while staying well under realistic transition
// times.
package poll

import "time"

// interval is the fixed delay between condition attempts.
const interval = time.Millisecond

// Condition reports whether the awaited state has been reached. It may
// fail with a hardware error, which is distinct from "not yet".
type Condition func() (bool, error)

// Until repeatedly evaluates cond until it returns true or the timeout
// elapses. It returns true if the condition was met in time and false on
// deadline. A condition error aborts the loop immediately and is
// returned as-is.
func Until(cond Condition, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ok, err := cond()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		time.Sleep(interval)
	}
	return false, nil
}
