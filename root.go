package tessera

import (
	"log/slog"
)

// hiddenArea is the always-disabled holding tier for views attached to no
// output. It is shaped like an Output's phase
// state minus the geometry-bearing fields that don't apply when there is
// no display to place anything on.
type hiddenArea struct {
	tree *Node

	Pending, Inflight, Current StackState
}

// Config holds the few knobs a Root needs at construction time.
type Config struct {
	// Topology configures the optional X11 override-redirect tier.
	Topology TopologyOptions
	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Clock abstracts time for the configure-ack timeout. Defaults to the
	// real wall clock.
	Clock Clock
	// IdleInhibitCheck, if set, is polled once per commit. The idle-inhibit manager itself is an external collaborator
	// entirely out of this package's scope.
	IdleInhibitCheck func()
}

// Root is the process-singleton coordinator: the scene root, the three
// scene tiers, the output registry, the output-layout bridge, and the
// transaction engine's state.
type Root struct {
	topology *SceneTopology
	hidden   hiddenArea
	outputs  *outputRegistry
	layout   *OutputLayoutBridge
	hitTest  *HitTester

	seats []Seat

	logger *slog.Logger
	clock  Clock

	idleInhibitCheck func()

	state                 txState
	pendingDirty          bool
	inflightLayoutDemands int
	inflightConfigures    int
	timer                 Timer
}

// NewRoot constructs the scene topology, output registry, and transaction
// engine, ready for outputs and views to be attached.
func NewRoot(cfg Config) *Root {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = NewRealClock()
	}

	topology := NewSceneTopology(cfg.Topology)

	r := &Root{
		topology: topology,
		hidden: hiddenArea{
			tree:     topology.Hidden,
			Pending:  newStackState(),
			Inflight: newStackState(),
			Current:  newStackState(),
		},
		outputs:          &outputRegistry{},
		logger:           logger,
		clock:            clock,
		idleInhibitCheck: cfg.IdleInhibitCheck,
		state:            txIdle,
	}
	r.layout = newOutputLayoutBridge(r)
	r.hitTest = NewHitTester(topology)
	return r
}

// Deinit releases every resource Root owns: outstanding layout demands,
// the configure timer, and scene nodes. Destruction reverses creation
// order.
func (r *Root) Deinit() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	active := append([]*Output{}, r.outputs.active...)
	for i := len(active) - 1; i >= 0; i-- {
		r.RemoveOutput(active[i])
	}
}

// AddSeat registers a seat with Root, so it participates in focus
// recomputation during Collecting and cursor refresh during Committing.
func (r *Root) AddSeat(s Seat) {
	r.seats = append(r.seats, s)
}

// RemoveSeat unregisters a seat previously added with AddSeat.
func (r *Root) RemoveSeat(s Seat) {
	for i, seat := range r.seats {
		if seat == s {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			return
		}
	}
}

// Topology returns the scene topology, mostly for tests and diagnostics.
func (r *Root) Topology() *SceneTopology {
	return r.topology
}

// At performs a hit test against the interactive-content tier.
func (r *Root) At(lx, ly int32) (AtResult, bool) {
	return r.hitTest.At(lx, ly)
}

// Layout returns the output-layout bridge, so callers can query/position
// outputs geometrically.
func (r *Root) Layout() *OutputLayoutBridge {
	return r.layout
}

// AddView maps a freshly constructed view into the system. A view enters
// mapped to Hidden (output = None); policy external to this package
// promotes it to a real output, either immediately or, if no output is
// active, when AddOutput adds the first one.
func (r *Root) AddView(v *View) {
	v.Mapped = true
	if v.Tree == nil {
		v.Tree = NewNode("view")
		v.Tree.Kind = NodeKindView
		v.Tree.UserData = v
	}
	v.Tree.Reparent(r.hidden.tree)
	if v.PopupTree != nil {
		v.PopupTree.Reparent(r.hidden.tree)
	}
	v.FocusLink(PhasePending).MoveTo(r.hidden.Pending.FocusStack)
	v.WMLink(PhasePending).MoveTo(r.hidden.Pending.WMStack)
}

// ActiveOutputs returns the currently active outputs, in registry order.
// The returned slice must not be mutated.
func (r *Root) ActiveOutputs() []*Output {
	return r.outputs.active
}

// AllOutputs returns every output the backend has ever advertised that
// still exists, used only for publishing configurations.
func (r *Root) AllOutputs() []*Output {
	return r.outputs.all
}

// HiddenTags returns hidden's tag state for the given phase. Exported
// mostly for tests: it's how a caller observes that RemoveOutput carried
// a fully-evacuated output's pending tags onto hidden's.
func (r *Root) HiddenTags(phase Phase) uint32 {
	switch phase {
	case PhasePending:
		return r.hidden.Pending.Tags
	case PhaseInflight:
		return r.hidden.Inflight.Tags
	case PhaseCurrent:
		return r.hidden.Current.Tags
	default:
		panic("tessera: invalid phase")
	}
}
