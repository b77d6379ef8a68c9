package tessera

// NodeKind tags a scene node with what kind of thing it represents,
// mirroring node.go's Type+UserData pair: Type picks the switch, UserData
// carries the payload. Here the "type" distinguishes the four things a
// compositor scene node can be the root of.
type NodeKind uint8

const (
	// NodeKindContainer is a plain interior node: a tier, an output's
	// subtree, a layer. It has no UserData and is never itself a hit-test
	// result, though its children may be.
	NodeKindContainer NodeKind = iota
	// NodeKindView tags a node rooted at a mapped application window.
	// UserData holds the owning *View.
	NodeKindView
	// NodeKindLayerSurface tags a node rooted at a layer-shell surface
	// (panel, wallpaper, notification). UserData is an opaque handle owned
	// by the layer-shell protocol implementation.
	NodeKindLayerSurface
	// NodeKindLockSurface tags a node rooted at a session-lock surface.
	// UserData is an opaque handle owned by the lock protocol
	// implementation.
	NodeKindLockSurface
	// NodeKindXwaylandOverrideRedirect tags a node rooted at a legacy X11
	// override-redirect surface positioned directly in layout coordinates.
	// UserData is an opaque handle owned by the Xwayland bridge.
	NodeKindXwaylandOverrideRedirect
)

// Node is one element of the scene graph: a tree of leaves (buffers or
// rectangles) and interior subtrees. Reparenting never copies content;
// disabling a subtree makes it render nothing and receive no input.
type Node struct {
	// Name is a human-readable label for debugging; not used for lookups.
	Name string
	// Kind and UserData together form the tagged-variant node metadata
	// hit-testing decodes.
	Kind     NodeKind
	UserData any

	Parent   *Node
	children []*Node

	// X, Y position this node relative to Parent, in the parent's
	// coordinate space. Compositor geometry has no rotation or scale, so
	// unlike node.go's full affine transform this is a plain offset.
	X, Y int32

	// Enabled mirrors scene graph contract 2: a disabled subtree renders
	// nothing and is excluded from hit testing, regardless of its own
	// Enabled value if any ancestor is disabled.
	Enabled bool

	// InputRegion, when non-nil, makes this node eligible as a hit-test
	// result: a point falling inside the region (in this node's local
	// coordinates) selects this node, provided no enabled descendant claims
	// it first (topmost wins). A nil InputRegion means this node is purely
	// a container for input-routing purposes.
	InputRegion *Box

	disposed bool
}

// NewNode constructs a disabled container node with the given name.
// Interactive-content tiers enable themselves; Hidden never does.
func NewNode(name string) *Node {
	return &Node{Name: name, Kind: NodeKindContainer}
}

// AddChild appends child to this node's children, reparenting it first if
// it already has a parent. Panics if child is nil or would create a cycle,
// following node.go's AddChild contract.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("tessera: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("tessera: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node. Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("tessera: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent. No-op if it has
// none.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Reparent moves this node to be a child of newParent, preserving content
// (scene graph contract 1). Equivalent to newParent.AddChild(n) but named
// for the call sites that are specifically reparenting a view's trees
// during Collecting/Committing.
func (n *Node) Reparent(newParent *Node) {
	newParent.AddChild(n)
}

// Children returns this node's children. The returned slice must not be
// mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// SetEnabled sets whether this node (and, transitively through effective
// visibility during hit-testing, its subtree) is enabled.
func (n *Node) SetEnabled(enabled bool) {
	n.Enabled = enabled
}

// Dispose marks n as destroyed and detaches it from its parent. Disposed
// nodes must not be reused.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.disposed = true
}

// Disposed reports whether Dispose has been called on n.
func (n *Node) Disposed() bool {
	return n.disposed
}
