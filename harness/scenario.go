package harness

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/quietfjord/tessera"
)

// step is one action in a scenario script, the YAML analogue of willow's
// JSON testStep. Only the fields a given Action uses are meaningful.
type step struct {
	Action     string  `yaml:"action"`
	Output     string  `yaml:"output,omitempty"`
	View       string  `yaml:"view,omitempty"`
	Tags       *uint32 `yaml:"tags,omitempty"`
	Float      *bool   `yaml:"float,omitempty"`
	Fullscreen *bool   `yaml:"fullscreen,omitempty"`
	Width      int32   `yaml:"width,omitempty"`
	Height     int32   `yaml:"height,omitempty"`
	X11        bool    `yaml:"x11,omitempty"`
}

// script is the top-level YAML structure for a scenario file.
type script struct {
	Steps []step `yaml:"steps"`
}

// ParseScript parses a YAML scenario document into an ordered step list.
func ParseScript(data []byte) ([]step, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse scenario: no steps")
	}
	return s.Steps, nil
}

// World holds a Root plus every named fake the scenario has created so
// far, letting a script refer to "A" or "1" instead of Go values. Its
// exported methods double as the building blocks ParseScript/Run drive
// and as a plain Go API for property-based tests that want to generate
// random action sequences without going through YAML.
type World struct {
	Root *tessera.Root

	outputs    map[string]*tessera.Output
	backends   map[string]*Backend
	generators map[string]*Generator
	views      map[string]*tessera.View
	impls      map[string]*ViewImpl
	seats      []*Seat
}

// NewWorld returns an empty World driving root.
func NewWorld(root *tessera.Root) *World {
	return &World{
		Root:       root,
		outputs:    make(map[string]*tessera.Output),
		backends:   make(map[string]*Backend),
		generators: make(map[string]*Generator),
		views:      make(map[string]*tessera.View),
		impls:      make(map[string]*ViewImpl),
	}
}

// AddSeat creates a fake seat, registers it with the root, and returns it.
func (w *World) AddSeat() *Seat {
	s := NewSeat()
	w.Root.AddSeat(s)
	w.seats = append(w.seats, s)
	return s
}

// Output returns the named output, or nil.
func (w *World) Output(name string) *tessera.Output { return w.outputs[name] }

// View returns the named view, or nil.
func (w *World) View(name string) *tessera.View { return w.views[name] }

// Impl returns the named view's fake implementation, or nil.
func (w *World) Impl(name string) *ViewImpl { return w.impls[name] }

// Backend returns the named output's fake backend, or nil.
func (w *World) Backend(name string) *Backend { return w.backends[name] }

// Generator returns the named output's fake generator, or nil.
func (w *World) Generator(name string) *Generator { return w.generators[name] }

// OutputNames returns every output name currently known to w, including
// ones that have since been removed from the registry.
func (w *World) OutputNames() []string {
	names := make([]string, 0, len(w.outputs))
	for name := range w.outputs {
		names = append(names, name)
	}
	return names
}

// ViewNames returns every view name currently known to w.
func (w *World) ViewNames() []string {
	names := make([]string, 0, len(w.views))
	for name := range w.views {
		names = append(names, name)
	}
	return names
}

// HiddenPendingTags returns hidden's pending tag state, for asserting the
// tag-restoration behavior RemoveOutput performs when the last output is
// removed.
func (w *World) HiddenPendingTags() uint32 {
	return w.Root.HiddenTags(tessera.PhasePending)
}

// AddOutput constructs a fake output of the given resolution, names it,
// and adds it to the root.
func (w *World) AddOutput(name string, width, height int32) *tessera.Output {
	if width == 0 {
		width = 1920
	}
	if height == 0 {
		height = 1080
	}
	backend := NewBackend(name, width, height)
	output := tessera.NewOutput(backend)
	gen := NewGenerator(w.Root)
	gen.Attach(output)
	output.Generator = gen
	w.outputs[name] = output
	w.backends[name] = backend
	w.generators[name] = gen
	w.Root.AddOutput(output)
	return output
}

// RemoveOutput removes the named output from the root.
func (w *World) RemoveOutput(name string) error {
	output, ok := w.outputs[name]
	if !ok {
		return fmt.Errorf("unknown output %q", name)
	}
	w.Root.RemoveOutput(output)
	return nil
}

// AddView constructs a fake view (optionally X11) and maps it via
// Root.AddView.
func (w *World) AddView(name string, isX11 bool) *tessera.View {
	impl := NewViewImpl(w.Root, isX11)
	v := tessera.NewView(uint64(len(w.views)+1), impl)
	impl.Attach(v)
	w.views[name] = v
	w.impls[name] = impl
	w.Root.AddView(v)
	return v
}

// SetViewOutput moves the named view's pending membership to the named
// output.
func (w *World) SetViewOutput(view, output string) error {
	v, ok := w.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	o, ok := w.outputs[output]
	if !ok {
		return fmt.Errorf("unknown output %q", output)
	}
	v.SetPendingOutput(o)
	return nil
}

// SetViewTags sets the named view's pending tags.
func (w *World) SetViewTags(view string, tags uint32) error {
	v, ok := w.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	v.Pending.Tags = tags
	return nil
}

// SetOutputTags sets the named output's pending tags.
func (w *World) SetOutputTags(output string, tags uint32) error {
	o, ok := w.outputs[output]
	if !ok {
		return fmt.Errorf("unknown output %q", output)
	}
	o.Pending.Tags = tags
	return nil
}

// SetViewFloat sets the named view's pending float flag.
func (w *World) SetViewFloat(view string, float bool) error {
	v, ok := w.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	v.Pending.Float = float
	return nil
}

// SetViewFullscreen sets the named view's pending fullscreen flag.
func (w *World) SetViewFullscreen(view string, fullscreen bool) error {
	v, ok := w.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	v.Pending.Fullscreen = fullscreen
	return nil
}

// DirtyView marks the named view as needing a configure next transaction.
func (w *World) DirtyView(view string) error {
	impl, ok := w.impls[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	impl.Dirty()
	return nil
}

// ApplyPending calls Root.ApplyPending.
func (w *World) ApplyPending() {
	w.Root.ApplyPending()
}

// ResolveLayout simulates the named output's generator finishing its
// outstanding demand.
func (w *World) ResolveLayout(output string) error {
	gen, ok := w.generators[output]
	if !ok {
		return fmt.Errorf("unknown output %q", output)
	}
	gen.Resolve()
	return nil
}

// AckConfigure simulates the named view's client acking its last
// configure.
func (w *World) AckConfigure(view string) error {
	impl, ok := w.impls[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	impl.Ack()
	return nil
}

// DrainTurns repeatedly resolves every outstanding layout demand and acks
// every dirtied view's configure until the root returns to rest (no
// outstanding layout demands or configures), or maxTurns is exhausted.
// Used by tests that don't care about interleaving order, only about the
// state once a sequence of mutations has fully settled.
func (w *World) DrainTurns(maxTurns int) {
	for turn := 0; turn < maxTurns; turn++ {
		progressed := false
		for name, gen := range w.generators {
			if gen.output != nil && gen.output.LayoutDemand != nil {
				gen.Resolve()
				progressed = true
			}
			_ = name
		}
		for _, impl := range w.impls {
			if impl.view != nil && impl.view.InflightSerial != 0 {
				impl.Ack()
				progressed = true
			}
		}
		if !progressed {
			return
		}
	}
}

// Run executes every step in order against w, driving the root's
// transaction pipeline exactly as an external mutator would: each step
// writes to pending state or fires a pipeline event, never touches
// inflight/current directly.
func (w *World) Run(steps []step) error {
	for i, st := range steps {
		if err := w.runStep(st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Action, err)
		}
	}
	return nil
}

func (w *World) runStep(st step) error {
	switch st.Action {
	case "add_output":
		w.AddOutput(st.Output, st.Width, st.Height)
	case "remove_output":
		return w.RemoveOutput(st.Output)
	case "add_view":
		w.AddView(st.View, st.X11)
	case "set_view_output":
		return w.SetViewOutput(st.View, st.Output)
	case "set_view_tags":
		if st.Tags != nil {
			return w.SetViewTags(st.View, *st.Tags)
		}
	case "set_output_tags":
		if st.Tags != nil {
			return w.SetOutputTags(st.Output, *st.Tags)
		}
	case "set_view_float":
		if st.Float != nil {
			return w.SetViewFloat(st.View, *st.Float)
		}
	case "set_view_fullscreen":
		if st.Fullscreen != nil {
			return w.SetViewFullscreen(st.View, *st.Fullscreen)
		}
	case "dirty_view":
		return w.DirtyView(st.View)
	case "apply_pending":
		w.ApplyPending()
	case "layout_done":
		return w.ResolveLayout(st.Output)
	case "ack_configure":
		return w.AckConfigure(st.View)
	case "wait":
		// No-op placeholder step: scenarios use it purely for readability
		// between a mutation and the assertions that follow it.
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}
