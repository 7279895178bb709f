package engine

import (
	"math"
	"math/rand"

	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/core/similarity"
)

// Jitter amplitudes (world units) for recovered positions, so simultaneous
// re-entries don't stack on one pixel.
const (
	neighborJitter = 12.0
	centroidJitter = 60.0
)

// thresholdForZoom maps a camera distance to a similarity threshold.
//
// Below the zoom floor the threshold is MinThreshold, above the ceiling it
// is MaxThreshold. In between the normalized fraction is raised to the power
// 1+2s where s is the steepness: s=0 gives a linear ramp, s=1 a cubic one
// that keeps the threshold low through most of the range and sweeps up late.
func thresholdForZoom(cfg ZoomConfig, z float64) float64 {
	if cfg.ZoomCeiling == cfg.ZoomFloor {
		return cfg.MaxThreshold
	}
	t := geometry.Clamp01(geometry.NormalizeZoom(z, cfg.ZoomFloor, cfg.ZoomCeiling))
	s := geometry.Clamp01(cfg.Steepness)
	t = math.Pow(t, 1+2*s)
	return geometry.Lerp(cfg.MinThreshold, cfg.MaxThreshold, t)
}

// ZoomQuery describes one semantic zoom decision: the camera distance plus
// the transform and screen size needed to locate the viewport center.
type ZoomQuery struct {
	CameraDistance float64            `json:"camera_distance"`
	Transform      geometry.Transform `json:"transform"`
	ScreenW        float64            `json:"screen_w"`
	ScreenH        float64            `json:"screen_h"`
}

// ZoomResult is the zoom-visibility decision.
type ZoomResult struct {
	// Visible is the final zoom-visible set: focal matches extended to all
	// their direct neighbors.
	Visible map[string]struct{} `json:"-"`
	// Focal lists the focal node ids used as semantic anchors, in id order.
	Focal []string `json:"focal"`
	// Threshold is the similarity threshold derived from the camera
	// distance.
	Threshold float64 `json:"threshold"`
}

// VisibleAtZoom answers "what should be visible at this zoom level".
//
// Focal nodes are taken from a small screen-space radius around the viewport
// center, falling back to the single nearest laid-out node when the radius
// is empty. A node is visible when it is similar to ANY focal node above the
// threshold — deliberately a multi-anchor OR rather than one averaged
// centroid, so two distinct topics at screen center don't blend into a
// phantom midpoint that matches neither. The visible set is then extended to
// every direct neighbor, so a visible keyword always brings its content
// along and vice versa.
func (e *Engine) VisibleAtZoom(q ZoomQuery) ZoomResult {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	res := ZoomResult{
		Visible:   make(map[string]struct{}),
		Threshold: thresholdForZoom(e.zoom, q.CameraDistance),
	}

	// 1. Focal candidates within the focal radius of the screen center.
	center := geometry.ScreenToGraph(geometry.Point{X: q.ScreenW / 2, Y: q.ScreenH / 2}, q.Transform)
	worldRadius := geometry.ScreenLengthToWorld(e.zoom.FocalRadiusPx, q.Transform)
	r2 := worldRadius * worldRadius

	var focal []*Node
	var nearest *Node
	nearestDist := math.Inf(1)
	snap.Scan(func(n *Node) bool {
		if !n.HasPosition {
			return true
		}
		dx := n.Pos.X - center.X
		dy := n.Pos.Y - center.Y
		d2 := dx*dx + dy*dy
		if d2 <= r2 {
			focal = append(focal, n)
		}
		if d2 < nearestDist {
			nearestDist = d2
			nearest = n
		}
		return true
	})

	// Fallback: an empty focal radius still needs an anchor.
	if len(focal) == 0 && nearest != nil {
		focal = append(focal, nearest)
	}
	if len(focal) == 0 {
		return res
	}
	for _, f := range focal {
		res.Focal = append(res.Focal, f.ID)
		res.Visible[f.ID] = struct{}{}
	}

	// 2. Multi-anchor similarity pass over the whole graph.
	anchors := make([][]float32, 0, len(focal))
	for _, f := range focal {
		if f.HasEmbedding() {
			anchors = append(anchors, f.Embedding())
		}
	}
	if len(anchors) > 0 {
		snap.Scan(func(n *Node) bool {
			if !n.HasEmbedding() {
				return true
			}
			emb := n.Embedding()
			for _, a := range anchors {
				if similarity.Cosine(emb, a) >= res.Threshold {
					res.Visible[n.ID] = struct{}{}
					break
				}
			}
			return true
		})
	}

	// 3. Neighbor extension: every direct neighbor of a visible node is
	// visible too, in both directions.
	extended := make([]string, 0, len(res.Visible))
	for id := range res.Visible {
		extended = append(extended, id)
	}
	for _, id := range extended {
		for _, nb := range snap.Neighbors(id) {
			res.Visible[nb.ID] = struct{}{}
		}
	}
	return res
}

// RecoverPosition produces a display position for a node re-entering
// visibility. The priority order is fixed: the remembered last-known
// position, else the average position of its currently visible laid-out
// neighbors with small jitter, else the graph's position centroid with
// larger jitter. The result is never undefined — even an empty graph yields
// a jittered origin.
func (e *Engine) RecoverPosition(id string, visible map[string]struct{}) geometry.Point {
	if p, ok := e.posMemory.Get(id); ok {
		return p
	}

	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	// Average of visible, laid-out neighbors.
	var sumX, sumY float64
	count := 0
	for _, nb := range snap.Neighbors(id) {
		if _, ok := visible[nb.ID]; !ok {
			continue
		}
		n := snap.Node(nb.ID)
		if n == nil || !n.HasPosition {
			continue
		}
		sumX += n.Pos.X
		sumY += n.Pos.Y
		count++
	}
	if count > 0 {
		return jitter(geometry.Point{X: sumX / float64(count), Y: sumY / float64(count)}, neighborJitter)
	}

	centroid, _ := snap.PositionCentroid()
	return jitter(centroid, centroidJitter)
}

// jitter displaces p uniformly within ±amplitude on both axes.
func jitter(p geometry.Point, amplitude float64) geometry.Point {
	return geometry.Point{
		X: p.X + (rand.Float64()*2-1)*amplitude,
		Y: p.Y + (rand.Float64()*2-1)*amplitude,
	}
}
