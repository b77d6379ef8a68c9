// Package harness provides synthetic backend, view, layout-generator, and
// seat implementations for driving a tessera.Root without a real Wayland
// compositor underneath it, plus a YAML scenario runner built on top of
// them. It exists for tests and the tesserasim demo binary; nothing in
// the root tessera package imports it.
package harness

import (
	"fmt"

	"github.com/quietfjord/tessera"
)

// Backend is a synthetic tessera.WlrOutput: it tracks whatever state was
// last committed and always accepts test/commit unless Reject is set.
type Backend struct {
	NameValue  string
	Width      int32
	Height     int32
	Reject     bool
	Committed  tessera.HeadState
	Published  []PublishedStatus
	Arranged   int
	BGUpdates  int
}

// PublishedStatus records one PublishStatus call, for assertions.
type PublishedStatus struct {
	Tags   uint32
	Urgent bool
}

// NewBackend returns a Backend of the given name and resolution.
func NewBackend(name string, width, height int32) *Backend {
	return &Backend{NameValue: name, Width: width, Height: height}
}

func (b *Backend) Name() string { return b.NameValue }

func (b *Backend) EffectiveResolution() (int32, int32) { return b.Width, b.Height }

func (b *Backend) TestState(state tessera.HeadState) bool {
	return !b.Reject
}

func (b *Backend) CommitState(state tessera.HeadState) bool {
	if b.Reject {
		return false
	}
	b.Committed = state
	if state.Mode.Width != 0 {
		b.Width = state.Mode.Width
	}
	if state.Mode.Height != 0 {
		b.Height = state.Mode.Height
	}
	return true
}

func (b *Backend) ArrangeLayers() { b.Arranged++ }

func (b *Backend) UpdateBackgroundRect() { b.BGUpdates++ }

func (b *Backend) PublishStatus(tags uint32, urgent bool) {
	b.Published = append(b.Published, PublishedStatus{Tags: tags, Urgent: urgent})
}

// Generator is a synthetic tessera.LayoutGenerator. StartLayoutDemand does
// not resolve on its own: callers (or the scenario runner) call Resolve to
// simulate the generator finishing, which notifies root.
type Generator struct {
	root      *tessera.Root
	output    *tessera.Output
	Demands   int
	Cancelled int
	Destroyed bool
}

// NewGenerator returns a Generator that reports completions back to root
// for the given output. The output field is set by Attach since
// the output doesn't exist yet when a Generator is first constructed in
// some call orders.
func NewGenerator(root *tessera.Root) *Generator {
	return &Generator{root: root}
}

// Attach binds g to the output it serves. Must be called before
// g.Resolve can locate which output to notify.
func (g *Generator) Attach(o *tessera.Output) {
	g.output = o
}

func (g *Generator) StartLayoutDemand(count int) { g.Demands++ }

func (g *Generator) Cancel() { g.Cancelled++ }

func (g *Generator) Destroy() { g.Destroyed = true }

// Resolve simulates the generator finishing its outstanding demand.
func (g *Generator) Resolve() {
	if g.output != nil {
		g.root.NotifyLayoutDemandDone(g.output)
	}
}

// ViewImpl is a synthetic tessera.ViewImpl. NeedsConfigure reports true
// from construction, and after any call to Dirty, until the next
// Configure; after that it reports false until Dirty is called again.
type ViewImpl struct {
	root      *tessera.Root
	view      *tessera.View
	x11       bool
	dirty     bool
	nextSeq   uint32
	Destroyed bool
	Configs   int
}

// NewViewImpl returns a ViewImpl bound to root, for a view attached with
// Attach.
func NewViewImpl(root *tessera.Root, isX11 bool) *ViewImpl {
	return &ViewImpl{root: root, x11: isX11, dirty: true}
}

// Attach binds i to the view it backs.
func (i *ViewImpl) Attach(v *tessera.View) {
	i.view = v
}

// Dirty marks the view as needing a configure on the next transaction.
func (i *ViewImpl) Dirty() {
	i.dirty = true
}

func (i *ViewImpl) NeedsConfigure(v *tessera.View) bool {
	return i.dirty
}

func (i *ViewImpl) Configure(v *tessera.View) (uint32, error) {
	i.dirty = false
	i.Configs++
	i.nextSeq++
	v.InflightSerial = i.nextSeq
	return i.nextSeq, nil
}

func (i *ViewImpl) SaveSurfaceTree(v *tessera.View) {}

func (i *ViewImpl) SendFrameDone(v *tessera.View) {}

func (i *ViewImpl) UpdateCurrent(v *tessera.View) {}

func (i *ViewImpl) ClampToOutput(v *tessera.View, o *tessera.Output) {}

func (i *ViewImpl) Destroy(v *tessera.View) { i.Destroyed = true }

func (i *ViewImpl) IsX11() bool { return i.x11 }

// Ack simulates the client acking its last configure.
func (i *ViewImpl) Ack() {
	if i.view != nil {
		i.root.NotifyConfigured(i.view, i.view.InflightSerial)
	}
}

// Seat is a synthetic tessera.Seat: it records focus/cursor calls and
// lets a scenario assert against them, without implementing real input
// routing.
type Seat struct {
	FocusCalls  int
	LastFocus   *tessera.Node
	focusedOut  *tessera.Output
	CursorCalls int
}

// NewSeat returns an unfocused Seat.
func NewSeat() *Seat { return &Seat{} }

func (s *Seat) Focus(surface *tessera.Node) {
	s.FocusCalls++
	s.LastFocus = surface
}

func (s *Seat) FocusOutput(output *tessera.Output) { s.focusedOut = output }

func (s *Seat) FocusedOutput() *tessera.Output { return s.focusedOut }

func (s *Seat) UpdateCursorState() { s.CursorCalls++ }

// String renders b for debug output, matching the demo's plain-text trace
// style.
func (b *Backend) String() string {
	return fmt.Sprintf("%s(%dx%d)", b.NameValue, b.Width, b.Height)
}
