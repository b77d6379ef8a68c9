package tessera

import "testing"

func TestHitTesterTopmostWins(t *testing.T) {
	topo := NewSceneTopology(TopologyOptions{})
	topo.InteractiveContent.Enabled = true

	bottom := NewNode("bottom")
	bottom.Enabled = true
	bottom.Kind = NodeKindView
	bottomView := &View{ID: 1}
	bottom.UserData = bottomView
	bottom.InputRegion = &Box{Width: 100, Height: 100}
	topo.InteractiveContent.AddChild(bottom)

	top := NewNode("top")
	top.Enabled = true
	top.Kind = NodeKindView
	topView := &View{ID: 2}
	top.UserData = topView
	top.InputRegion = &Box{Width: 100, Height: 100}
	topo.InteractiveContent.AddChild(top)

	ht := NewHitTester(topo)
	result, ok := ht.At(50, 50)
	if !ok {
		t.Fatal("expected a hit")
	}
	if result.View != topView {
		t.Fatalf("expected last-added (topmost) node to win, got view %v", result.View.ID)
	}
}

func TestHitTesterMissOutsideRegion(t *testing.T) {
	topo := NewSceneTopology(TopologyOptions{})
	topo.InteractiveContent.Enabled = true
	n := NewNode("n")
	n.Enabled = true
	n.Kind = NodeKindView
	n.UserData = &View{ID: 1}
	n.InputRegion = &Box{Width: 10, Height: 10}
	topo.InteractiveContent.AddChild(n)

	ht := NewHitTester(topo)
	if _, ok := ht.At(50, 50); ok {
		t.Fatal("expected a miss outside the input region")
	}
}

func TestHitTesterMissDisabledSubtree(t *testing.T) {
	topo := NewSceneTopology(TopologyOptions{})
	topo.InteractiveContent.Enabled = true
	n := NewNode("n")
	n.Enabled = false
	n.Kind = NodeKindView
	n.UserData = &View{ID: 1}
	n.InputRegion = &Box{Width: 100, Height: 100}
	topo.InteractiveContent.AddChild(n)

	ht := NewHitTester(topo)
	if _, ok := ht.At(5, 5); ok {
		t.Fatal("expected a miss against a disabled subtree")
	}
}

func TestHitTesterContainerNeverMatches(t *testing.T) {
	topo := NewSceneTopology(TopologyOptions{})
	topo.InteractiveContent.Enabled = true
	n := NewNode("n") // NodeKindContainer, no UserData
	n.Enabled = true
	n.InputRegion = &Box{Width: 100, Height: 100}
	topo.InteractiveContent.AddChild(n)

	ht := NewHitTester(topo)
	if _, ok := ht.At(5, 5); ok {
		t.Fatal("a plain container should never be a hit-test result")
	}
}

func TestHitTesterTranslatesLocalCoordinates(t *testing.T) {
	topo := NewSceneTopology(TopologyOptions{})
	topo.InteractiveContent.Enabled = true
	n := NewNode("n")
	n.Enabled = true
	n.Kind = NodeKindView
	n.UserData = &View{ID: 1}
	n.X, n.Y = 100, 50
	n.InputRegion = &Box{Width: 100, Height: 100}
	topo.InteractiveContent.AddChild(n)

	ht := NewHitTester(topo)
	result, ok := ht.At(130, 70)
	if !ok {
		t.Fatal("expected a hit")
	}
	if result.SX != 30 || result.SY != 20 {
		t.Fatalf("surface-local coords = (%d,%d), want (30,20)", result.SX, result.SY)
	}
}
