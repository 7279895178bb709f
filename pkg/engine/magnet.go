package engine

import (
	"sort"

	"github.com/semlens/semlens/pkg/core/geometry"
)

// PullQuery describes one edge-magnet decision: the camera state plus any
// content-driven node ids whose visibility is externally demanded (search
// results, open documents). Content-driven nodes bypass ranking, anchor
// validation and the capacity cap.
type PullQuery struct {
	Transform geometry.Transform `json:"transform"`
	ScreenW   float64            `json:"screen_w"`
	ScreenH   float64            `json:"screen_h"`

	ContentDriven []string `json:"content_driven,omitempty"`

	// MaxPulled overrides the configured capacity: 0 keeps the configured
	// value, a negative value means zero capacity (only content-driven
	// nodes are pulled).
	MaxPulled int `json:"max_pulled,omitempty"`
}

// PulledNode is one off-screen node dragged into view. DisplayX/Y always lie
// inside the pull bounds; RealX/Y is the untouched simulation position so the
// renderer can animate the node home when it scrolls back on screen.
type PulledNode struct {
	ID                  string   `json:"id"`
	DisplayX            float64  `json:"display_x"`
	DisplayY            float64  `json:"display_y"`
	RealX               float64  `json:"real_x"`
	RealY               float64  `json:"real_y"`
	ConnectedPrimaryIDs []string `json:"connected_primary_ids"`
}

// PullResult is the edge-magnet decision for one frame. It is recomputed
// fully every cycle and never diffed against the previous frame.
type PullResult struct {
	Pulled  map[string]PulledNode `json:"-"`
	Primary map[string]struct{}   `json:"-"`
	Zones   geometry.Zones        `json:"zones"`
}

// pullCandidate is a ranked off-screen node.
type pullCandidate struct {
	node       *Node
	bestWeight float32 // strongest direct edge into the primary set
	primaries  []string
}

// Pull answers "which near-but-off-screen nodes should be dragged into view,
// and where". Interior nodes form the primary set; off-screen nodes survive
// only if some adjacency path links them to a primary node (chains of
// off-screen nodes that only reference each other are discarded whole), are
// ranked by their strongest direct edge into the primary set, capped at the
// configured capacity, and clamped per-axis into the pull bounds.
//
// All edge cases are policy, not errors: with zero primaries everything
// except content-driven nodes is discarded; with zero capacity only
// content-driven nodes are pulled.
func (e *Engine) Pull(q PullQuery) PullResult {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	maxPulled := q.MaxPulled
	if maxPulled == 0 {
		maxPulled = e.pull.MaxPulled
	}
	if maxPulled < 0 {
		maxPulled = 0
	}

	zones := geometry.ComputeZones(geometry.Viewport(q.Transform, q.ScreenW, q.ScreenH))
	res := PullResult{
		Pulled:  make(map[string]PulledNode),
		Primary: make(map[string]struct{}),
		Zones:   zones,
	}

	contentDriven := make(map[string]struct{}, len(q.ContentDriven))
	for _, id := range q.ContentDriven {
		contentDriven[id] = struct{}{}
	}

	// 1. Zone classification. Nodes without a position cannot be placed and
	// are skipped (content-driven ones are handled separately below).
	var offscreen []*Node
	snap.Scan(func(n *Node) bool {
		if !n.HasPosition {
			return true
		}
		if zones.Classify(n.Pos) == geometry.ZoneInterior {
			res.Primary[n.ID] = struct{}{}
		} else {
			offscreen = append(offscreen, n)
		}
		return true
	})

	// 2. Anchor validation: breadth-first reachability from the primary set
	// across the adjacency index. Off-screen nodes the flood never reaches
	// have no contextual link to anything on screen and are discarded —
	// including whole chains that only reference each other.
	reachable := make(map[string]struct{}, len(res.Primary))
	queue := make([]string, 0, len(res.Primary))
	for id := range res.Primary {
		reachable[id] = struct{}{}
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, nb := range snap.Neighbors(id) {
			if _, seen := reachable[nb.ID]; seen {
				continue
			}
			reachable[nb.ID] = struct{}{}
			queue = append(queue, nb.ID)
		}
	}

	// 3. Rank survivors by their strongest direct edge to a primary node.
	var candidates []pullCandidate
	for _, n := range offscreen {
		if _, cd := contentDriven[n.ID]; cd {
			continue // placed unconditionally in step 4
		}
		if _, ok := reachable[n.ID]; !ok {
			continue
		}
		candidates = append(candidates, pullCandidate{
			node:       n,
			bestWeight: bestPrimaryWeight(snap, n.ID, res.Primary),
			primaries:  primaryNeighbors(snap, n.ID, res.Primary),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].bestWeight != candidates[j].bestWeight {
			return candidates[i].bestWeight > candidates[j].bestWeight
		}
		return candidates[i].node.ID < candidates[j].node.ID
	})

	// 4. Content-driven nodes are always visible: primary if interior,
	// pulled otherwise, regardless of ranking, reachability or capacity. A
	// content-driven node with no position yet is displayed at the center of
	// the pull bounds until the simulation places it.
	for _, id := range q.ContentDriven {
		if _, isPrimary := res.Primary[id]; isPrimary {
			continue // never demoted into the pulled set
		}
		n := snap.Node(id)
		if n == nil {
			continue
		}
		real := n.Pos
		if !n.HasPosition {
			real = geometry.Point{
				X: (zones.PullBounds.MinX + zones.PullBounds.MaxX) / 2,
				Y: (zones.PullBounds.MinY + zones.PullBounds.MaxY) / 2,
			}
		}
		res.Pulled[id] = clampIntoBounds(n.ID, real, zones.PullBounds, primaryNeighbors(snap, id, res.Primary))
	}

	// 5. Fill the remaining capacity with ranked candidates.
	remaining := maxPulled - len(res.Pulled)
	for _, c := range candidates {
		if remaining <= 0 {
			break
		}
		res.Pulled[c.node.ID] = clampIntoBounds(c.node.ID, c.node.Pos, zones.PullBounds, c.primaries)
		remaining--
	}

	return res
}

// clampIntoBounds builds the PulledNode for a real position: a simple
// per-axis clamp for display, the untouched position preserved alongside.
func clampIntoBounds(id string, real geometry.Point, bounds geometry.Rect, primaries []string) PulledNode {
	display := bounds.Clamp(real)
	return PulledNode{
		ID:                  id,
		DisplayX:            display.X,
		DisplayY:            display.Y,
		RealX:               real.X,
		RealY:               real.Y,
		ConnectedPrimaryIDs: primaries,
	}
}

// bestPrimaryWeight returns the strongest edge weight from id into the
// primary set, or 0 when id has no direct primary neighbor (it may still be
// reachable through an off-screen chain; those rank last).
func bestPrimaryWeight(snap *Snapshot, id string, primary map[string]struct{}) float32 {
	// Neighbors are sorted by descending weight, so the first hit wins.
	for _, nb := range snap.Neighbors(id) {
		if _, ok := primary[nb.ID]; ok {
			return nb.Weight
		}
	}
	return 0
}

// primaryNeighbors returns the ids of id's direct neighbors inside the
// primary set, in id order.
func primaryNeighbors(snap *Snapshot, id string, primary map[string]struct{}) []string {
	var out []string
	for _, nb := range snap.Neighbors(id) {
		if _, ok := primary[nb.ID]; ok {
			out = append(out, nb.ID)
		}
	}
	sort.Strings(out)
	return out
}
