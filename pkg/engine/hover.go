package engine

import (
	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/core/similarity"
)

// HoverQuery describes one pointer probe: a screen-space circle under the
// cursor plus the camera transform it was measured in.
type HoverQuery struct {
	Center    geometry.Point     `json:"center"`
	RadiusPx  float64            `json:"radius_px,omitempty"`
	Transform geometry.Transform `json:"transform"`
	// Threshold overrides the configured centroid similarity floor when > 0.
	Threshold float64 `json:"threshold,omitempty"`
}

// HoverDebug carries tuning counters for the settings panel. They have no
// effect on rendering.
type HoverDebug struct {
	SpatialCount        int     `json:"spatial_count"`
	SimilarityPassCount int     `json:"similarity_pass_count"`
	NeighborAdds        int     `json:"neighbor_adds"`
	MinSimilarity       float64 `json:"min_similarity"`
	MaxSimilarity       float64 `json:"max_similarity"`
}

// HoverResult is the hover decision for one pointer position.
type HoverResult struct {
	// Highlighted is the final highlight set. Never empty while the cursor
	// is over at least one node.
	Highlighted map[string]struct{} `json:"-"`
	// Spatial is the set of nodes whose position fell inside the probe
	// circle, in id order.
	Spatial []string `json:"spatial"`
	// Centroid is the normalized embedding centroid of the spatial set, nil
	// when no spatial node carries an embedding.
	Centroid []float32 `json:"centroid,omitempty"`
	// IsEmptySpace is true when the probe circle contains no node at all.
	// Renderers use it to restore full opacity.
	IsEmptySpace bool `json:"is_empty_space"`

	Debug HoverDebug `json:"debug"`
}

// Hover answers "what should light up near the cursor". It combines the
// three signals in sequence: screen-space proximity selects the spatial set,
// the spatial set's embedding centroid re-scores the whole graph, and graph
// adjacency re-admits spatial nodes that the centroid scan would have
// dropped — so the thing directly under the cursor is never silently lost.
//
// Pinned-item nodes occupy probe space like any other node but are stripped
// from the highlight set: they are always drawn at full strength and must
// never be dimmed against themselves.
func (e *Engine) Hover(q HoverQuery) HoverResult {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	radius := q.RadiusPx
	if radius <= 0 {
		radius = e.hover.RadiusPx
	}
	threshold := q.Threshold
	if threshold <= 0 {
		threshold = e.hover.Threshold
	}

	res := hoverProbe(snap, q.Center, radius, q.Transform, threshold)

	// Pinned items never appear dimmable.
	for id := range res.Highlighted {
		if n := snap.Node(id); n != nil && n.Kind == KindPinned {
			delete(res.Highlighted, id)
		}
	}
	return res
}

// hoverProbe is the pure filter; Hover wraps it with config defaults and the
// pinned-item exclusion.
func hoverProbe(snap *Snapshot, center geometry.Point, radiusPx float64, t geometry.Transform, threshold float64) HoverResult {
	res := HoverResult{Highlighted: make(map[string]struct{})}

	// 1. Probe circle into world space.
	worldCenter := geometry.ScreenToGraph(center, t)
	worldRadius := geometry.ScreenLengthToWorld(radiusPx, t)
	r2 := worldRadius * worldRadius

	// 2. Spatial set: nodes inside the world circle.
	spatial := make(map[string]struct{})
	snap.Scan(func(n *Node) bool {
		if !n.HasPosition {
			return true
		}
		dx := n.Pos.X - worldCenter.X
		dy := n.Pos.Y - worldCenter.Y
		if dx*dx+dy*dy <= r2 {
			spatial[n.ID] = struct{}{}
			res.Spatial = append(res.Spatial, n.ID)
		}
		return true
	})
	res.Debug.SpatialCount = len(spatial)

	if len(spatial) == 0 {
		res.IsEmptySpace = true
		return res
	}

	// 3. Embedding centroid of the spatial set. Nodes without an embedding
	// are excluded here but can still re-enter through adjacency below.
	var embs [][]float32
	for _, id := range res.Spatial {
		if n := snap.Node(id); n.HasEmbedding() {
			embs = append(embs, n.Embedding())
		}
	}
	res.Centroid = similarity.Centroid(embs)

	// No embeddings anywhere near the cursor: the spatial set is the best
	// answer available.
	if res.Centroid == nil {
		for id := range spatial {
			res.Highlighted[id] = struct{}{}
		}
		return res
	}

	// 4. Score the entire graph against the centroid.
	first := true
	snap.Scan(func(n *Node) bool {
		if !n.HasEmbedding() {
			return true
		}
		sim := similarity.Cosine(n.Embedding(), res.Centroid)
		if first || sim < res.Debug.MinSimilarity {
			res.Debug.MinSimilarity = sim
		}
		if first || sim > res.Debug.MaxSimilarity {
			res.Debug.MaxSimilarity = sim
		}
		first = false
		if sim >= threshold {
			res.Highlighted[n.ID] = struct{}{}
		}
		return true
	})
	res.Debug.SimilarityPassCount = len(res.Highlighted)

	// 5. Re-admit spatial nodes that are direct neighbors of a similarity
	// match. This keeps the node under the cursor highlighted even when its
	// own embedding (or lack of one) scored below threshold.
	for id := range spatial {
		if _, ok := res.Highlighted[id]; ok {
			continue
		}
		for _, nb := range snap.Neighbors(id) {
			if _, ok := res.Highlighted[nb.ID]; ok {
				res.Highlighted[id] = struct{}{}
				res.Debug.NeighborAdds++
				break
			}
		}
	}

	// 6. Never return an empty highlight while the cursor is over something.
	if len(res.Highlighted) == 0 {
		for id := range spatial {
			res.Highlighted[id] = struct{}{}
		}
	}
	return res
}
