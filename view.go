package tessera

// Phase identifies one of the three state snapshots every View and Output
// carries.
type Phase int

const (
	PhasePending Phase = iota
	PhaseInflight
	PhaseCurrent
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseInflight:
		return "inflight"
	case PhaseCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// ViewState is one phase's snapshot of a view's placement.
type ViewState struct {
	Output     *Output
	Tags       uint32
	Float      bool
	Fullscreen bool
	Box        Box
}

// ViewImpl is the per-protocol behavior backing a View (XDG toplevel,
// layer-shell popup grab, X11 bridge, ...). The core only ever calls
// through this interface, never type-switches on the concrete protocol.
type ViewImpl interface {
	// NeedsConfigure reports whether v requires a new configure this
	// transaction (its pending geometry/state differs from what the
	// client was last told).
	NeedsConfigure(v *View) bool
	// Configure sends a new configure to the client and returns the serial
	// it was sent with.
	Configure(v *View) (serial uint32, err error)
	// SaveSurfaceTree snapshots the client's current surface tree so the
	// pre-commit frame can still be presented if the timeout fires before
	// the client acks.
	SaveSurfaceTree(v *View)
	// SendFrameDone notifies the client its last frame was presented.
	SendFrameDone(v *View)
	// UpdateCurrent applies v.Current's geometry/state to the live scene
	// representation after View.UpdateCurrent has copied inflight into
	// current.
	UpdateCurrent(v *View)
	// ClampToOutput adjusts v.Pending.Box in protocol-specific ways after
	// the core has clamped it to o's bounds (e.g. re-requesting a
	// decoration recalculation).
	ClampToOutput(v *View, o *Output)
	// Destroy releases protocol-level resources. Called when a destroying
	// view is reclaimed on commit.
	Destroy(v *View)
	// IsX11 exempts the view from the configure-ack count during
	// AwaitingConfigures: X11 clients don't support frame-perfect resize.
	IsX11() bool
}

// viewPhaseLinks holds the six intrusive-list links a View needs: one
// focus_stack and one wm_stack membership per phase.
type viewPhaseLinks struct {
	focus viewLink
	wm    viewLink
}

// View is a mapped (or mapping) application window. The core manipulates
// the fields below directly; everything protocol-specific lives behind
// Impl.
type View struct {
	ID   uint64
	Impl ViewImpl

	Pending, Inflight, Current ViewState

	// FloatBox is the last floating geometry, saved when a view stops
	// floating so it can be restored when it floats again.
	FloatBox Box
	// PostFullscreenBox is the geometry to restore when a view leaves
	// fullscreen.
	PostFullscreenBox Box
	// InflightSerial is the configure serial the transaction engine is
	// waiting to see acked. Cleared on commit.
	InflightSerial uint32

	Mapped     bool
	Destroying bool

	// Tree holds the view's surface and decorations; PopupTree holds its
	// popups. Both are reparented between output layers and Hidden as the
	// view's output changes.
	Tree      *Node
	PopupTree *Node

	links [3]viewPhaseLinks
}

// NewView constructs an unmapped view with no output (callers map it to
// Hidden's stacks before use; see Root.AddView).
func NewView(id uint64, impl ViewImpl) *View {
	v := &View{ID: id, Impl: impl}
	for p := range v.links {
		v.links[p].focus.view = v
		v.links[p].wm.view = v
	}
	return v
}

// State returns a pointer to the snapshot for the given phase, so callers
// can both read and mutate it in place.
func (v *View) State(phase Phase) *ViewState {
	switch phase {
	case PhasePending:
		return &v.Pending
	case PhaseInflight:
		return &v.Inflight
	case PhaseCurrent:
		return &v.Current
	default:
		panic("tessera: invalid phase")
	}
}

// FocusLink returns v's focus_stack membership link for the given phase.
func (v *View) FocusLink(phase Phase) *viewLink {
	return &v.links[phase].focus
}

// WMLink returns v's wm_stack membership link for the given phase.
func (v *View) WMLink(phase Phase) *viewLink {
	return &v.links[phase].wm
}

// SetPendingOutput moves v's pending focus_stack/wm_stack membership to
// output's pending stacks and updates v.Pending.Output.
func (v *View) SetPendingOutput(output *Output) {
	v.Pending.Output = output
	v.links[PhasePending].focus.MoveTo(output.Pending.FocusStack)
	v.links[PhasePending].wm.MoveTo(output.Pending.WMStack)
}

// ClampToOutput clamps v.Pending.Box to output's effective bounds and lets
// Impl react.
func (v *View) ClampToOutput(output *Output) {
	v.Pending.Box = v.Pending.Box.Clamp(output.EffectiveBox())
	if v.Impl != nil {
		v.Impl.ClampToOutput(v, output)
	}
}

// UpdateCurrent copies Inflight into Current and lets Impl apply the
// resulting geometry/state to the live scene representation.
func (v *View) UpdateCurrent() {
	v.Current = v.Inflight
	if v.Impl != nil {
		v.Impl.UpdateCurrent(v)
	}
}

// NeedsConfigure reports whether v must be sent a new configure this
// transaction.
func (v *View) NeedsConfigure() bool {
	return v.Impl.NeedsConfigure(v)
}

// Configure sends v's client a new configure and records the serial it
// must ack.
func (v *View) Configure() (uint32, error) {
	serial, err := v.Impl.Configure(v)
	if err == nil {
		v.InflightSerial = serial
	}
	return serial, err
}

// SaveSurfaceTree snapshots the client's current surface tree.
func (v *View) SaveSurfaceTree() {
	v.Impl.SaveSurfaceTree(v)
}

// SendFrameDone notifies the client its last frame was presented.
func (v *View) SendFrameDone() {
	v.Impl.SendFrameDone(v)
}

// Destroy releases v's protocol-level resources.
func (v *View) Destroy() {
	v.Impl.Destroy(v)
}

// IsX11 reports whether v is exempt from the configure-ack count.
func (v *View) IsX11() bool {
	return v.Impl.IsX11()
}
