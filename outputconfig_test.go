package tessera_test

import (
	"testing"

	"github.com/quietfjord/tessera"
	"github.com/quietfjord/tessera/harness"
)

func TestOutputConfigProtocolTestAllAccepted(t *testing.T) {
	root, w := newTestRoot()
	a := w.AddOutput("A", 1920, 1080)
	b := w.AddOutput("B", 1280, 720)

	proto := tessera.NewOutputConfigProtocol(root)
	heads := []tessera.Head{
		{Output: a, State: tessera.HeadState{Enabled: true, Mode: tessera.Mode{Width: 1920, Height: 1080}}},
		{Output: b, State: tessera.HeadState{Enabled: true, Mode: tessera.Mode{Width: 1280, Height: 720}}},
	}
	if !proto.Test(heads) {
		t.Fatal("Test should accept a batch no backend rejects")
	}
	// Test must not mutate anything.
	if w.Backend("A").Committed != (tessera.HeadState{}) {
		t.Error("Test should not commit any state")
	}
}

func TestOutputConfigProtocolTestRejectsOnAnyFailure(t *testing.T) {
	root, w := newTestRoot()
	a := w.AddOutput("A", 1920, 1080)
	b := w.AddOutput("B", 1280, 720)
	w.Backend("B").Reject = true

	proto := tessera.NewOutputConfigProtocol(root)
	heads := []tessera.Head{
		{Output: a, State: tessera.HeadState{Enabled: true}},
		{Output: b, State: tessera.HeadState{Enabled: true}},
	}
	if proto.Test(heads) {
		t.Fatal("Test should fail the whole batch when any head is rejected")
	}
}

func TestOutputConfigProtocolApplyEnablesNewOutput(t *testing.T) {
	root := tessera.NewRoot(tessera.Config{})
	w := harness.NewWorld(root)
	w.AddSeat()

	backend := harness.NewBackend("A", 1920, 1080)
	o := tessera.NewOutput(backend)

	proto := tessera.NewOutputConfigProtocol(root)
	heads := []tessera.Head{
		{Output: o, State: tessera.HeadState{Enabled: true, Mode: tessera.Mode{Width: 1920, Height: 1080}}},
	}
	if !proto.Apply(heads) {
		t.Fatal("Apply should succeed when the backend accepts")
	}
	if !o.Tree.Enabled {
		t.Error("enabling a head should enable its scene subtree")
	}
	if len(root.ActiveOutputs()) != 1 || root.ActiveOutputs()[0] != o {
		t.Error("enabling a head should register it as an active output")
	}
	if backend.Arranged == 0 {
		t.Error("enabling a head should re-flow its layer-shell surfaces")
	}
}

func TestOutputConfigProtocolApplyDisablesOutput(t *testing.T) {
	root, w := newTestRoot()
	o := w.AddOutput("A", 1920, 1080)

	proto := tessera.NewOutputConfigProtocol(root)
	heads := []tessera.Head{{Output: o, State: tessera.HeadState{Enabled: false}}}
	if !proto.Apply(heads) {
		t.Fatal("Apply should succeed when the backend accepts the disable")
	}
	if o.Tree.Enabled {
		t.Error("disabling a head should disable its scene subtree")
	}
	if len(root.ActiveOutputs()) != 0 {
		t.Error("disabling a head should remove it from the active set")
	}
}

func TestOutputConfigProtocolApplyRejectedCommitLeavesOutputUntouched(t *testing.T) {
	root, w := newTestRoot()
	o := w.AddOutput("A", 1920, 1080)
	w.Backend("A").Reject = true

	proto := tessera.NewOutputConfigProtocol(root)
	heads := []tessera.Head{{Output: o, State: tessera.HeadState{Enabled: false}}}
	if proto.Apply(heads) {
		t.Fatal("Apply should fail when the backend rejects the commit")
	}
	if !o.Tree.Enabled {
		t.Error("a rejected commit should leave the output's prior enabled state untouched")
	}
	if len(root.ActiveOutputs()) != 1 {
		t.Error("a rejected disable should not remove the output from the active set")
	}
}
