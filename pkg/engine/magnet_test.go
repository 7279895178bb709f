package engine

import (
	"fmt"
	"slices"
	"testing"
)

// Pull scenarios run on a 100x100 screen with the identity transform, so the
// world viewport is [0,100]x[0,100], pull bounds [8,92]x[8,92] and the
// extended viewport [-25,125]x[-25,125].
func pullQuery() PullQuery {
	return PullQuery{Transform: identity, ScreenW: 100, ScreenH: 100}
}

func newPullEngine(t *testing.T, nodes []NodeInput, edges []EdgeInput) *Engine {
	t.Helper()
	eng, err := New(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	eng.LoadSnapshot(nodes, edges, PrecisionFloat32)
	return eng
}

func TestPullAnchorValidation(t *testing.T) {
	eng := newPullEngine(t, []NodeInput{
		{ID: "interior", Kind: KindKeyword, Position: pos(50, 50)},
		// Cliff node with no adjacency at all.
		{ID: "orphan", Kind: KindContent, Position: pos(-10, 50)},
		// A chain of cliff nodes that only reference each other.
		{ID: "chain1", Kind: KindContent, Position: pos(-12, 40)},
		{ID: "chain2", Kind: KindContent, Position: pos(-18, 40)},
	}, []EdgeInput{
		{Source: "chain1", Target: "chain2", Weight: 0.9},
	})

	res := eng.Pull(pullQuery())

	for _, id := range []string{"orphan", "chain1", "chain2"} {
		if _, ok := res.Pulled[id]; ok {
			t.Errorf("%s has no anchor path and must not be pulled", id)
		}
		if _, ok := res.Primary[id]; ok {
			t.Errorf("%s must not be primary", id)
		}
	}
	if _, ok := res.Primary["interior"]; !ok {
		t.Error("interior node missing from primary set")
	}
}

func TestPullAnchorPreservation(t *testing.T) {
	eng := newPullEngine(t, []NodeInput{
		{ID: "interior", Kind: KindKeyword, Position: pos(50, 50)},
		{ID: "cliff", Kind: KindContent, Position: pos(-10, 60)},
	}, []EdgeInput{
		{Source: "cliff", Target: "interior", Weight: 0.8},
	})

	res := eng.Pull(pullQuery())

	pulled, ok := res.Pulled["cliff"]
	if !ok {
		t.Fatal("anchored cliff node missing from pulled set")
	}
	if !slices.Contains(pulled.ConnectedPrimaryIDs, "interior") {
		t.Errorf("connected primaries = %v, want [interior]", pulled.ConnectedPrimaryIDs)
	}
}

func TestPullClampingAndPositionFidelity(t *testing.T) {
	eng := newPullEngine(t, []NodeInput{
		{ID: "interior", Kind: KindKeyword, Position: pos(50, 50)},
		{ID: "cliff", Kind: KindContent, Position: pos(-10, 60)},
		{ID: "far", Kind: KindContent, Position: pos(300, -200)},
	}, []EdgeInput{
		{Source: "cliff", Target: "interior", Weight: 0.8},
		{Source: "far", Target: "interior", Weight: 0.7},
	})

	res := eng.Pull(pullQuery())
	bounds := res.Zones.PullBounds

	cases := []struct {
		id           string
		realX, realY float64
	}{
		{"cliff", -10, 60},
		{"far", 300, -200},
	}
	for _, c := range cases {
		p, ok := res.Pulled[c.id]
		if !ok {
			t.Fatalf("%s missing from pulled set", c.id)
		}
		// Display position clamped into pull bounds on both axes.
		if p.DisplayX < bounds.MinX || p.DisplayX > bounds.MaxX ||
			p.DisplayY < bounds.MinY || p.DisplayY > bounds.MaxY {
			t.Errorf("%s display (%f,%f) escapes pull bounds %+v", c.id, p.DisplayX, p.DisplayY, bounds)
		}
		// Real position untouched regardless of zone.
		if p.RealX != c.realX || p.RealY != c.realY {
			t.Errorf("%s real position = (%f,%f), want (%f,%f)", c.id, p.RealX, p.RealY, c.realX, c.realY)
		}
	}
}

func TestPullCapacityRanking(t *testing.T) {
	// One primary and five off-screen neighbors with distinct weights;
	// capacity three must keep exactly the three strongest.
	nodes := []NodeInput{{ID: "hub", Kind: KindKeyword, Position: pos(50, 50)}}
	var edges []EdgeInput
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("sat%d", i)
		nodes = append(nodes, NodeInput{ID: id, Kind: KindContent, Position: pos(-10, float64(10*i))})
		edges = append(edges, EdgeInput{Source: "hub", Target: id, Weight: float32(i) / 10})
	}
	eng := newPullEngine(t, nodes, edges)

	q := pullQuery()
	q.MaxPulled = 3
	res := eng.Pull(q)

	if len(res.Pulled) != 3 {
		t.Fatalf("pulled %d nodes, want 3", len(res.Pulled))
	}
	for _, id := range []string{"sat5", "sat4", "sat3"} {
		if _, ok := res.Pulled[id]; !ok {
			t.Errorf("top-ranked %s missing from pulled set", id)
		}
	}
	for _, id := range []string{"sat1", "sat2"} {
		if _, ok := res.Pulled[id]; ok {
			t.Errorf("low-ranked %s must not be pulled", id)
		}
	}
}

func TestPullContentDrivenGuarantee(t *testing.T) {
	// A content-driven node is visible in every zone, even with empty
	// adjacency, and never demoted from primary to pulled.
	zones := []struct {
		name string
		p    *NodeInput
	}{
		{"interior", &NodeInput{ID: "cd", Kind: KindContent, Position: pos(50, 50)}},
		{"cliff", &NodeInput{ID: "cd", Kind: KindContent, Position: pos(-10, 50)}},
		{"far", &NodeInput{ID: "cd", Kind: KindContent, Position: pos(900, 900)}},
	}
	for _, z := range zones {
		eng := newPullEngine(t, []NodeInput{*z.p}, nil)

		q := pullQuery()
		q.ContentDriven = []string{"cd"}
		res := eng.Pull(q)

		_, primary := res.Primary["cd"]
		_, pulled := res.Pulled["cd"]
		if !primary && !pulled {
			t.Errorf("%s zone: content-driven node invisible", z.name)
		}
		if primary && pulled {
			t.Errorf("%s zone: content-driven node both primary and pulled", z.name)
		}
	}
}

func TestPullContentDrivenReservesSlot(t *testing.T) {
	// Capacity one, one strongly ranked candidate, one content-driven node
	// with no edges: the content-driven node takes the slot.
	eng := newPullEngine(t, []NodeInput{
		{ID: "hub", Kind: KindKeyword, Position: pos(50, 50)},
		{ID: "ranked", Kind: KindContent, Position: pos(-10, 50)},
		{ID: "wanted", Kind: KindContent, Position: pos(700, 700)},
	}, []EdgeInput{
		{Source: "hub", Target: "ranked", Weight: 0.95},
	})

	q := pullQuery()
	q.MaxPulled = 1
	q.ContentDriven = []string{"wanted"}
	res := eng.Pull(q)

	if _, ok := res.Pulled["wanted"]; !ok {
		t.Error("content-driven node lost its reserved slot")
	}
	if _, ok := res.Pulled["ranked"]; ok {
		t.Error("ranked candidate admitted past exhausted capacity")
	}
}

func TestPullZeroCapacity(t *testing.T) {
	eng := newPullEngine(t, []NodeInput{
		{ID: "hub", Kind: KindKeyword, Position: pos(50, 50)},
		{ID: "ranked", Kind: KindContent, Position: pos(-10, 50)},
		{ID: "wanted", Kind: KindContent, Position: pos(700, 700)},
	}, []EdgeInput{
		{Source: "hub", Target: "ranked", Weight: 0.95},
	})

	q := pullQuery()
	q.MaxPulled = -1 // explicit zero capacity
	q.ContentDriven = []string{"wanted"}
	res := eng.Pull(q)

	if len(res.Pulled) != 1 {
		t.Fatalf("pulled = %v, want only the content-driven node", res.Pulled)
	}
	if _, ok := res.Pulled["wanted"]; !ok {
		t.Error("content-driven node must bypass a zero capacity")
	}
}

func TestPullZeroPrimaries(t *testing.T) {
	// Nothing on screen: there is nothing to anchor to, so every off-screen
	// node is discarded except content-driven ones.
	eng := newPullEngine(t, []NodeInput{
		{ID: "a", Kind: KindContent, Position: pos(-50, -50)},
		{ID: "b", Kind: KindContent, Position: pos(800, 800)},
	}, []EdgeInput{
		{Source: "a", Target: "b", Weight: 0.9},
	})

	res := eng.Pull(pullQuery())
	if len(res.Primary) != 0 || len(res.Pulled) != 0 {
		t.Errorf("expected empty result, got primary=%v pulled=%v", res.Primary, res.Pulled)
	}

	q := pullQuery()
	q.ContentDriven = []string{"a"}
	res = eng.Pull(q)
	if _, ok := res.Pulled["a"]; !ok {
		t.Error("content-driven node must survive a primaryless frame")
	}
}
