package tessera

// SceneTopology is the fixed three-tier scene layout constructed once per
// Root: interactive content, drag icons, and a disabled holding area for
// views attached to no output.
type SceneTopology struct {
	root *Node

	// InteractiveContent receives pointer/keyboard input. Its direct
	// children are Outputs (parent of per-output subtrees) and, when X11
	// support is enabled, XwaylandOverrideRedirect.
	InteractiveContent *Node
	// Outputs is the parent of every active output's scene subtree.
	Outputs *Node
	// XwaylandOverrideRedirect holds legacy layout-positioned X11 surfaces.
	// Nil when X11 support is compiled out.
	XwaylandOverrideRedirect *Node

	// DragIcons holds DnD icons: never hit-tested, always on top.
	DragIcons *Node

	// Hidden is always disabled: the holding area for views attached to no
	// output.
	Hidden *Node
}

// TopologyOptions configures optional tiers of the scene topology.
type TopologyOptions struct {
	// EnableXwayland creates the XwaylandOverrideRedirect tier. Leave false
	// when X11 support is compiled out of the surrounding compositor.
	EnableXwayland bool
}

// NewSceneTopology constructs the fixed tier layout. Z-order (bottom to
// top) follows append order: InteractiveContent, then DragIcons, then
// Hidden (Hidden's Z-order is irrelevant since it is always disabled).
func NewSceneTopology(opts TopologyOptions) *SceneTopology {
	root := NewNode("root")
	root.Enabled = true

	interactive := NewNode("interactive-content")
	interactive.Enabled = true
	root.AddChild(interactive)

	outputs := NewNode("outputs")
	outputs.Enabled = true
	interactive.AddChild(outputs)

	t := &SceneTopology{
		root:               root,
		InteractiveContent: interactive,
		Outputs:            outputs,
	}

	if opts.EnableXwayland {
		xwl := NewNode("xwayland-override-redirect")
		xwl.Enabled = true
		interactive.AddChild(xwl)
		t.XwaylandOverrideRedirect = xwl
	}

	dragIcons := NewNode("drag-icons")
	dragIcons.Enabled = true
	root.AddChild(dragIcons)
	t.DragIcons = dragIcons

	hidden := NewNode("hidden")
	hidden.Enabled = false // always disabled
	root.AddChild(hidden)
	t.Hidden = hidden

	return t
}

// Root returns the scene root node, mostly useful for diagnostics.
func (t *SceneTopology) Root() *Node {
	return t.root
}
