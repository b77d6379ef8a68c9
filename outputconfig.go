package tessera

import (
	"fmt"
	"log/slog"
)

// Head is one output's proposed or current configuration, as negotiated by
// an external output-management protocol (e.g. wlr-output-management).
type Head struct {
	Output *Output
	State  HeadState
}

// OutputConfigProtocol handles external test/apply requests against the
// output layout: a client proposes a configuration for a batch of heads,
// and either asks whether it would be accepted (Test) or commits it
// (Apply).
type OutputConfigProtocol struct {
	root *Root
}

// NewOutputConfigProtocol returns a protocol handler bound to root's
// output registry and layout bridge.
func NewOutputConfigProtocol(root *Root) *OutputConfigProtocol {
	return &OutputConfigProtocol{root: root}
}

// Test builds each head's proposed state and asks its output whether it
// would be accepted, mutating nothing. Any single rejection fails the
// whole batch.
func (p *OutputConfigProtocol) Test(heads []Head) bool {
	for _, h := range heads {
		if !h.Output.Backend.TestState(h.State) {
			return false
		}
	}
	return true
}

// Apply commits a batch of proposed head configurations. The layout
// bridge's change listener is detached for the whole batch, so
// intermediate upsert/remove calls don't each trigger their own
// republish; one republish happens when the batch finishes. Returns false
// if any head was rejected by its output — accepted heads in the same
// batch are still applied (partial failure is reported, not rolled back).
func (p *OutputConfigProtocol) Apply(heads []Head) bool {
	success := true
	p.root.layout.withDetachedListener(func() {
		for _, h := range heads {
			if !p.applyHead(h) {
				success = false
			}
		}
	})
	p.root.ApplyPending()
	return success
}

func (p *OutputConfigProtocol) applyHead(h Head) bool {
	o := h.Output
	if !o.Backend.CommitState(h.State) {
		commitErr := &Error{Kind: ErrOutputCommitFailure, Output: o.Backend.Name(),
			Err: fmt.Errorf("backend rejected proposed head state")}
		p.root.logger.Error("output commit failed", slog.Any("error", commitErr))
		return false
	}
	if h.State.Enabled {
		p.root.AddOutput(o)
		x, y := p.root.layout.autoPosition(o)
		o.Tree.X, o.Tree.Y = x, y
		o.Tree.Enabled = true
		o.Backend.UpdateBackgroundRect()
		o.Backend.ArrangeLayers()
		return true
	}
	p.root.RemoveOutput(o)
	o.Tree.Enabled = false
	return true
}
