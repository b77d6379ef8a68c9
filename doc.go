// Package tessera is the root coordinator of a tiling Wayland compositor:
// the scene-graph topology, the output registry, and — centrally — the
// two-phase transaction pipeline that moves window state from pending
// (what the user asked for) through inflight (what the compositor has
// committed to) to current (what is actually on screen).
//
// # Quick start
//
// A Root owns everything. Construct one, feed it outputs as the backend
// advertises them, and mutate views' Pending state as policy dictates; the
// transaction engine takes care of the rest:
//
//	root := tessera.NewRoot(tessera.Config{})
//	root.AddOutput(output)
//	view.Pending.Tags = 0b1
//	root.ApplyPending()
//
// # Transaction pipeline
//
// External mutators write only to a View or Output's Pending snapshot.
// [Root.ApplyPending] snapshots pending into inflight, asks the layout
// generator for geometry, sends configures to clients, waits for acks (or a
// 200ms timeout), then promotes inflight to current and updates the scene
// graph. The promotion happens within one event-loop turn, so observers
// never see a partial update.
//
// # Scope
//
// Rendering, the tiling algorithm itself, per-view surface protocol
// handling, the input/seat subsystem, and all configuration/CLI surfaces
// are external collaborators; tessera only specifies the small set of
// interfaces ([ViewImpl], [LayoutGenerator], [Seat], [WlrOutput]) it calls
// into them through.
package tessera
