package tessera_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/quietfjord/tessera"
	"github.com/quietfjord/tessera/harness"
)

// genAction produces one random mutation against a world that already has
// at least one output and one view; drawAction picks its kind uniformly.
type genAction struct {
	kind string
	arg  uint32
}

func drawAction(t *rapid.T, w *harness.World) genAction {
	kinds := []string{
		"set_view_output", "set_view_tags", "set_output_tags",
		"set_view_float", "set_view_fullscreen", "dirty_view",
		"apply_pending", "drain",
	}
	kind := rapid.SampledFrom(kinds).Draw(t, "kind")
	a := genAction{kind: kind}
	if kind == "set_view_tags" || kind == "set_output_tags" {
		a.arg = uint32(rapid.IntRange(0, 3).Draw(t, "tags"))
	}
	return a
}

func applyAction(w *harness.World, a genAction, view, output string) {
	switch a.kind {
	case "set_view_output":
		_ = w.SetViewOutput(view, output)
	case "set_view_tags":
		_ = w.SetViewTags(view, a.arg)
	case "set_output_tags":
		_ = w.SetOutputTags(output, a.arg)
	case "set_view_float":
		_ = w.SetViewFloat(view, a.arg%2 == 0)
	case "set_view_fullscreen":
		_ = w.SetViewFullscreen(view, a.arg%2 == 0)
	case "dirty_view":
		_ = w.DirtyView(view)
	case "apply_pending":
		w.ApplyPending()
	case "drain":
		w.DrainTurns(8)
	}
}

// checkStackExclusivity is P1: V appears on exactly one focus_stack and
// exactly one wm_stack per phase, counted across every active output
// (hidden's stacks are not visible from this package).
func checkStackExclusivity(t *rapid.T, root *tessera.Root, v *tessera.View) {
	for _, phase := range []tessera.Phase{tessera.PhasePending, tessera.PhaseInflight, tessera.PhaseCurrent} {
		focusHits, wmHits := 0, 0
		for _, o := range root.ActiveOutputs() {
			for _, cand := range o.State(phase).FocusStack.Views() {
				if cand == v {
					focusHits++
				}
			}
			for _, cand := range o.State(phase).WMStack.Views() {
				if cand == v {
					wmHits++
				}
			}
		}
		if focusHits != 1 {
			t.Fatalf("phase %s: view on %d focus_stacks, want exactly 1", phase, focusHits)
		}
		if wmHits != 1 {
			t.Fatalf("phase %s: view on %d wm_stacks, want exactly 1", phase, wmHits)
		}
	}
}

// TestPropertyStackExclusivity is P1, driven through random action
// sequences on a single view pinned to a single output (hidden's stacks
// aren't reachable from *tessera_test, so multi-output migration through
// hidden is covered separately by the scenario tests).
func TestPropertyStackExclusivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		w.AddOutput("A", 1920, 1080)
		w.AddView("1", false)
		_ = w.SetViewOutput("1", "A")
		w.ApplyPending()
		w.DrainTurns(8)

		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			a := drawAction(t, w)
			applyAction(w, a, "1", "A")
			checkStackExclusivity(t, root, w.View("1"))
		}
		w.DrainTurns(8)
		checkStackExclusivity(t, root, w.View("1"))
	})
}

// TestPropertyOutputLinkAgreement is P2: a view's phase-local output
// pointer and its phase-local stack membership always agree.
func TestPropertyOutputLinkAgreement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		w.AddOutput("A", 1920, 1080)
		w.AddOutput("B", 1280, 720)
		v := w.AddView("1", false)
		outputs := []string{"A", "B"}

		steps := rapid.IntRange(1, 10).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			target := rapid.SampledFrom(outputs).Draw(t, "target")
			_ = w.SetViewOutput("1", target)
			w.ApplyPending()
			w.DrainTurns(8)

			for _, phase := range []tessera.Phase{tessera.PhasePending, tessera.PhaseInflight, tessera.PhaseCurrent} {
				st := v.State(phase)
				if st.Output == nil {
					continue
				}
				inFocus, inWM := false, false
				for _, cand := range st.Output.State(phase).FocusStack.Views() {
					if cand == v {
						inFocus = true
					}
				}
				for _, cand := range st.Output.State(phase).WMStack.Views() {
					if cand == v {
						inWM = true
					}
				}
				if !inFocus || !inWM {
					t.Fatalf("phase %s: view.output set but missing from output's stacks (focus=%v wm=%v)", phase, inFocus, inWM)
				}
			}
		}
	})
}

// TestPropertyHiddenTreeDisabled is P3: hidden's tree is never observably
// enabled, regardless of what mutations run against the rest of the
// system.
func TestPropertyHiddenTreeDisabled(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		if topo := root.Topology(); topo.Hidden.Enabled {
			t.Fatal("hidden starts enabled")
		}

		w.AddOutput("A", 1920, 1080)
		steps := rapid.IntRange(1, 8).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "add_view") {
				name := rapid.StringMatching(`v[0-9]`).Draw(t, "name")
				if w.View(name) == nil {
					w.AddView(name, false)
				}
			}
			w.ApplyPending()
			w.DrainTurns(8)
			if root.Topology().Hidden.Enabled {
				t.Fatal("hidden became enabled mid-sequence")
			}
		}
		if err := w.RemoveOutput("A"); err != nil {
			t.Fatal(err)
		}
		if root.Topology().Hidden.Enabled {
			t.Fatal("hidden became enabled once every view evacuated onto it")
		}
	})
}

// TestPropertyDrainToEmpty is P5: after a finite burst of mutations and
// enough turns with no new mutations, every view's three phases converge
// (on the fields DrainTurns can observe from outside the package: output,
// tags, float).
func TestPropertyDrainToEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		w.AddOutput("A", 1920, 1080)
		v := w.AddView("1", false)
		_ = w.SetViewOutput("1", "A")

		steps := rapid.IntRange(1, 10).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			a := drawAction(t, w)
			applyAction(w, a, "1", "A")
		}
		w.ApplyPending()
		w.DrainTurns(16)

		if v.Current.Output != v.Inflight.Output || v.Inflight.Output != v.Pending.Output {
			t.Fatalf("output did not converge: pending=%v inflight=%v current=%v",
				v.Pending.Output, v.Inflight.Output, v.Current.Output)
		}
		if v.Current.Tags != v.Inflight.Tags || v.Inflight.Tags != v.Pending.Tags {
			t.Fatalf("tags did not converge: pending=%v inflight=%v current=%v",
				v.Pending.Tags, v.Inflight.Tags, v.Current.Tags)
		}
		if v.Current.Float != v.Inflight.Float || v.Inflight.Float != v.Pending.Float {
			t.Fatal("float flag did not converge")
		}
	})
}

// TestPropertyFullscreenUniqueness is P6: at most one view is the output's
// current fullscreen view, and that view's current output is this one.
func TestPropertyFullscreenUniqueness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		w.AddOutput("A", 1920, 1080)
		_ = w.SetOutputTags("A", 0b1)
		names := []string{"1", "2", "3"}
		for _, n := range names {
			w.AddView(n, false)
			_ = w.SetViewOutput(n, "A")
			_ = w.SetViewTags(n, 0b1)
		}
		w.ApplyPending()
		w.DrainTurns(8)

		steps := rapid.IntRange(1, 10).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			n := rapid.SampledFrom(names).Draw(t, "view")
			fs := rapid.Bool().Draw(t, "fullscreen")
			_ = w.SetViewFullscreen(n, fs)
			w.ApplyPending()
			w.DrainTurns(8)

			a := w.Output("A")
			if a.Current.Fullscreen != nil && a.Current.Fullscreen.Current.Output != a {
				t.Fatal("fullscreen view's current output disagrees with the output electing it")
			}
		}
	})
}

// TestPropertyIdempotentAddRemoveOutput is P9: calling AddOutput or
// RemoveOutput twice in a row is equivalent to calling it once.
func TestPropertyIdempotentAddRemoveOutput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		o := w.AddOutput("A", 1920, 1080)

		before := len(root.ActiveOutputs())
		root.AddOutput(o)
		if len(root.ActiveOutputs()) != before {
			t.Fatalf("re-adding an active output changed the registry: %d -> %d", before, len(root.ActiveOutputs()))
		}

		if rapid.Bool().Draw(t, "remove_twice") {
			if err := w.RemoveOutput("A"); err != nil {
				t.Fatal(err)
			}
			afterFirst := len(root.ActiveOutputs())
			root.RemoveOutput(o)
			if len(root.ActiveOutputs()) != afterFirst {
				t.Fatalf("re-removing an inactive output changed the registry: %d -> %d", afterFirst, len(root.ActiveOutputs()))
			}
		}
	})
}

// checkEvacuation is the part of P7 that holds regardless of whether
// other outputs remain: removed is gone from the active set, and no view
// still claims it as a current output.
func checkEvacuation(t *rapid.T, root *tessera.Root, w *harness.World, removed *tessera.Output, name string) {
	for _, o := range root.ActiveOutputs() {
		if o == removed {
			t.Fatalf("removed output %q is still active", name)
		}
	}
	for _, n := range w.ViewNames() {
		v := w.View(n)
		if v.Current.Output == removed {
			t.Fatalf("view %q still has current.output == removed output %q", n, name)
		}
		if len(root.ActiveOutputs()) > 0 && v.Pending.Output == nil {
			t.Fatalf("view %q has no pending output while outputs remain active", n)
		}
	}
}

// TestPropertyEvacuationSafety is P7: removing an output clears every
// view's link to it and migrates pending views onward (to a surviving
// output, or to hidden if none remains) — and in the latter case, hidden
// inherits the removed output's pending tags at the moment of removal.
func TestPropertyEvacuationSafety(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := tessera.NewRoot(tessera.Config{})
		w := harness.NewWorld(root)
		w.AddSeat()
		w.AddOutput("A", 1920, 1080)
		w.AddOutput("B", 1280, 720)

		viewNames := []string{"1", "2"}
		for _, n := range viewNames {
			w.AddView(n, false)
			target := rapid.SampledFrom([]string{"A", "B"}).Draw(t, "initial-"+n)
			_ = w.SetViewOutput(n, target)
		}
		w.ApplyPending()
		w.DrainTurns(8)

		first := rapid.SampledFrom([]string{"A", "B"}).Draw(t, "first_removed")
		second := "B"
		if first == "B" {
			second = "A"
		}
		removeBoth := rapid.Bool().Draw(t, "remove_both")

		var lastTags uint32
		if removeBoth {
			lastTags = uint32(rapid.IntRange(0, 7).Draw(t, "last_tags"))
			_ = w.SetOutputTags(second, lastTags)
		}

		removedFirst := w.Output(first)
		if err := w.RemoveOutput(first); err != nil {
			t.Fatal(err)
		}
		checkEvacuation(t, root, w, removedFirst, first)

		if removeBoth {
			removedSecond := w.Output(second)
			if err := w.RemoveOutput(second); err != nil {
				t.Fatal(err)
			}
			checkEvacuation(t, root, w, removedSecond, second)

			if got := root.HiddenTags(tessera.PhasePending); got != lastTags {
				t.Fatalf("hidden pending tags = %d, want %d (the last output's pending tags at removal)", got, lastTags)
			}
		}
	})
}
