package tessera

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("backend rejected")
	err := &Error{Kind: ErrOutputCommitFailure, Output: "A", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should see through Unwrap to the wrapped cause")
	}

	var target *Error
	wrapped := fmt.Errorf("apply failed: %w", err)
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should recover the *Error from a wrapping chain")
	}
	if target.Kind != ErrOutputCommitFailure {
		t.Fatalf("Kind = %v, want %v", target.Kind, ErrOutputCommitFailure)
	}
	if target.Output != "A" {
		t.Fatalf("Output = %q, want %q", target.Output, "A")
	}
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := &Error{Kind: ErrConfigureAckMissing}
	want := "tessera: configure_ack_missing"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorKindString(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want string
	}{
		{ErrAllocationFailure, "allocation_failure"},
		{ErrOutputInitFailure, "output_init_failure"},
		{ErrOutputCommitFailure, "output_commit_failure"},
		{ErrTimerArmFailure, "timer_arm_failure"},
		{ErrConfigureAckMissing, "configure_ack_missing"},
		{ErrorKind(255), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}
