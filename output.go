package tessera

// Mode is one display mode a physical output can be driven at.
type Mode struct {
	Width, Height  int32
	RefreshMilliHz int32
}

// Transform is a clockwise rotation/flip applied to an output's image,
// matching the wire values of the output-management protocol.
type Transform uint8

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// HeadState is a proposed (or committed) configuration for one output:
// everything OutputConfigProtocol negotiates.
type HeadState struct {
	Enabled      bool
	Mode         Mode
	X, Y         int32
	Transform    Transform
	Scale        float64
	AdaptiveSync bool
}

// WlrOutput is the backend handle for one physical or virtual display. The
// core never touches pixels through it; it only asks it to test/commit
// configuration and to republish protocol-visible state.
type WlrOutput interface {
	Name() string
	// EffectiveResolution returns the output's usable size in layout
	// coordinates (post-transform, post-scale).
	EffectiveResolution() (width, height int32)
	// TestState reports whether state would be accepted, without applying
	// it.
	TestState(state HeadState) bool
	// CommitState applies state. Returns false if the backend rejected it.
	CommitState(state HeadState) bool
	// ArrangeLayers re-flows this output's layer-shell surfaces against
	// its current usable area.
	ArrangeLayers()
	// UpdateBackgroundRect recomputes the non-layer-shell usable area.
	UpdateBackgroundRect()
	// PublishStatus reports this output's current tags/urgency over
	// whatever status protocol the compositor exposes.
	PublishStatus(tags uint32, urgent bool)
}

// OutputLayers are the per-output layer-shell-ordered scene subtrees,
// bottom to top.
type OutputLayers struct {
	Background *Node
	Bottom     *Node
	Layout     *Node
	Float      *Node
	Top        *Node
	Fullscreen *Node
	Overlay    *Node
	Popups     *Node
}

// StackState is one phase's snapshot of an output's (or Hidden's) view
// membership: which tags are visible, which view (if any) is fullscreen,
// and the focus/wm ordering.
type StackState struct {
	Tags       uint32
	Fullscreen *View
	FocusStack *viewList
	WMStack    *viewList
}

func newStackState() StackState {
	return StackState{FocusStack: newViewList(), WMStack: newViewList()}
}

// LayoutDemand is an outstanding request to an output's layout generator,
// live only while that output is Inflight.
type LayoutDemand struct {
	Count int
}

// LayoutGenerator computes geometry for an output's tileable views. One
// is attached per output by policy external to this package; a nil
// Generator means no layout demand is ever started for the output.
type LayoutGenerator interface {
	// StartLayoutDemand asks the generator to produce geometry for count
	// tileable views. Completion or error must eventually call
	// Root.NotifyLayoutDemandDone for the output this generator is
	// attached to.
	StartLayoutDemand(count int)
	// Cancel aborts an outstanding demand, e.g. because the output was
	// removed before the generator replied.
	Cancel()
	// Destroy releases the generator entirely, called once when its
	// output is removed from the registry.
	Destroy()
}

// Output is one physical or virtual display. The core manipulates the
// fields below directly; Backend and Generator are the external
// collaborators it calls through.
type Output struct {
	Backend   WlrOutput
	Generator LayoutGenerator

	Tree   *Node
	Layers OutputLayers

	Pending, Inflight, Current StackState

	// LayoutDemand is non-nil only while Inflight has an outstanding
	// request to Generator.
	LayoutDemand *LayoutDemand

	// Urgent is published alongside Current.Tags on every commit; set by
	// policy external to this package (e.g. a view requesting attention).
	Urgent bool
}

// NewOutput constructs an Output with its scene subtree and empty phase
// stacks, not yet added to any registry.
func NewOutput(backend WlrOutput) *Output {
	o := &Output{Backend: backend}
	o.Tree = NewNode("output:" + backend.Name())

	o.Layers = OutputLayers{
		Background: NewNode("background"),
		Bottom:     NewNode("bottom"),
		Layout:     NewNode("layout"),
		Float:      NewNode("float"),
		Top:        NewNode("top"),
		Fullscreen: NewNode("fullscreen"),
		Overlay:    NewNode("overlay"),
		Popups:     NewNode("popups"),
	}
	for _, n := range []*Node{
		o.Layers.Background, o.Layers.Bottom, o.Layers.Layout,
		o.Layers.Float, o.Layers.Top, o.Layers.Fullscreen,
		o.Layers.Overlay, o.Layers.Popups,
	} {
		n.Enabled = true
		o.Tree.AddChild(n)
	}
	// Starts disabled; enabled only while a view is actually fullscreen.
	o.Layers.Fullscreen.Enabled = false

	o.Pending = newStackState()
	o.Inflight = newStackState()
	o.Current = newStackState()
	return o
}

// EffectiveBox returns the output's usable area at the origin, in layout
// coordinates: the box a fullscreen view fills and floating geometry is
// clamped to.
func (o *Output) EffectiveBox() Box {
	w, h := o.Backend.EffectiveResolution()
	return Box{X: 0, Y: 0, Width: w, Height: h}
}

// State returns a pointer to the snapshot for the given phase.
func (o *Output) State(phase Phase) *StackState {
	switch phase {
	case PhasePending:
		return &o.Pending
	case PhaseInflight:
		return &o.Inflight
	case PhaseCurrent:
		return &o.Current
	default:
		panic("tessera: invalid phase")
	}
}
