package tessera

import "fmt"

// ErrorKind names one of the non-fatal error categories the core has a
// defined recovery policy for. None of them are fatal; each is logged
// and handled in place.
type ErrorKind uint8

const (
	// ErrAllocationFailure: building an outbound update failed (a config
	// to publish, or a view's configure). That update is skipped; a view
	// whose configure failed is not counted toward the ack wait.
	ErrAllocationFailure ErrorKind = iota
	// ErrOutputInitFailure: a new output could not initialize its
	// renderer. The output is destroyed and never added to the registry.
	ErrOutputInitFailure
	// ErrOutputCommitFailure: a head's proposed state was rejected during
	// config apply. The whole apply reports failure; every other head in
	// the batch that its output accepted stays applied.
	ErrOutputCommitFailure
	// ErrTimerArmFailure: the 200ms configure timer could not be armed.
	// The core degrades by committing immediately.
	ErrTimerArmFailure
	// ErrConfigureAckMissing: a view never acked its configure within the
	// deadline. Handled entirely by the timeout; this kind exists so the
	// warning log line can be attributed consistently.
	ErrConfigureAckMissing
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAllocationFailure:
		return "allocation_failure"
	case ErrOutputInitFailure:
		return "output_init_failure"
	case ErrOutputCommitFailure:
		return "output_commit_failure"
	case ErrTimerArmFailure:
		return "timer_arm_failure"
	case ErrConfigureAckMissing:
		return "configure_ack_missing"
	default:
		return "unknown"
	}
}

// Error is the error type every non-fatal failure in the core is reported
// as, so callers can branch on Kind via errors.As rather than string
// matching.
type Error struct {
	Kind ErrorKind
	// Output and View name the subject of the error when applicable; both
	// may be empty.
	Output string
	View   uint64
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tessera: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("tessera: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// assert panics with a description of the violated invariant. The core has
// no precedent for recoverable cross-phase-invariant violations — the
// scene/output/view state is supposed to always hold between
// transactions; a violation means a bug in this package, not a condition
// callers can act on, so it panics rather than returning an error.
func assert(cond bool, invariant string) {
	if !cond {
		panic("tessera: invariant violated: " + invariant)
	}
}
