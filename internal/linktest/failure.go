package linktest

// FailureKind classifies a check failure for the report diagnostic.
type FailureKind int

const (
	FailureIO        FailureKind = iota // hardware or driver error
	FailureStuckLine                    // handshake line never transitioned
	FailureTimeout                      // expected byte count never arrived
	FailureMismatch                     // full-length arrival with wrong content
)

func (k FailureKind) String() string {
	switch k {
	case FailureStuckLine:
		return "stuck-line"
	case FailureTimeout:
		return "timeout"
	case FailureMismatch:
		return "mismatch"
	default:
		return "io"
	}
}

// Failure is a failed check outcome: a kind plus a human-readable
// description. It is consumed immediately by the reporter and never
// retained.
type Failure struct {
	Kind        FailureKind
	Description string
}

func (f *Failure) Error() string {
	return f.Description
}

// Diagnostic implements the reporter's diagnostic block contract.
func (f *Failure) Diagnostic() (string, string) {
	return f.Kind.String(), f.Description
}

// ioFailure converts a hardware error into a reportable outcome.
func ioFailure(err error) *Failure {
	return &Failure{Kind: FailureIO, Description: err.Error()}
}
