package tessera

// AtResult is the result of a hit test: the topmost node under the point,
// its kind, and the point translated into the node's local (surface)
// coordinates.
type AtResult struct {
	Node *Node
	Kind NodeKind
	SX   int32
	SY   int32

	// Exactly one of these is non-nil/non-zero, selected by Kind.
	View                     *View
	LayerSurface             any
	LockSurface              any
	XwaylandOverrideRedirect any
}

// HitTester answers "what is at this point" queries against a scene
// topology's interactive-content tier. It holds no state of its own; it is
// a thin, reusable view over the topology.
type HitTester struct {
	topology *SceneTopology
}

// NewHitTester returns a HitTester bound to topology.
func NewHitTester(topology *SceneTopology) *HitTester {
	return &HitTester{topology: topology}
}

// At maps a layout coordinate to the topmost interactive node plus
// surface-local coordinates. Returns false if the point is outside every
// enabled interactive subtree, or if the topmost node carries no tagged
// metadata (a plain container with an input region, which cannot happen
// through normal construction but is defensively rejected here rather than
// asserted, since it reflects caller misuse rather than an invariant this
// package maintains).
func (h *HitTester) At(lx, ly int32) (AtResult, bool) {
	node, sx, sy, ok := hitTestSubtree(h.topology.InteractiveContent, lx, ly)
	if !ok {
		return AtResult{}, false
	}
	result := AtResult{Node: node, Kind: node.Kind, SX: sx, SY: sy}
	switch node.Kind {
	case NodeKindView:
		v, _ := node.UserData.(*View)
		if v == nil {
			return AtResult{}, false
		}
		result.View = v
	case NodeKindLayerSurface:
		result.LayerSurface = node.UserData
	case NodeKindLockSurface:
		result.LockSurface = node.UserData
	case NodeKindXwaylandOverrideRedirect:
		result.XwaylandOverrideRedirect = node.UserData
	default:
		return AtResult{}, false
	}
	return result, true
}

// hitTestSubtree walks n and its descendants depth-first, testing children
// from last to first so the topmost (last-drawn) node under the point wins
// ties, per the scene graph's bottom-to-top Z-order convention.
func hitTestSubtree(n *Node, x, y int32) (*Node, int32, int32, bool) {
	if !n.Enabled {
		return nil, 0, 0, false
	}
	lx, ly := x-n.X, y-n.Y
	for i := len(n.children) - 1; i >= 0; i-- {
		if node, sx, sy, ok := hitTestSubtree(n.children[i], lx, ly); ok {
			return node, sx, sy, true
		}
	}
	if n.InputRegion != nil && n.InputRegion.Contains(lx, ly) {
		return n, lx, ly, true
	}
	return nil, 0, 0, false
}
