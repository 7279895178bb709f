// Package engine implements the viewport-aware semantic visibility engine:
// the renderer-agnostic computation that decides, every frame, which graph
// nodes are highlighted under the cursor, which are visible at the current
// zoom level, and which near-but-off-screen nodes are pulled to the viewport
// edge.
//
// The engine holds one immutable graph snapshot at a time plus the immutable
// configs; every decision is a pure function over that state. The three
// filters (hover, zoom, pull) never mutate the snapshot and may run in any
// order within one frame. The only cross-frame state is the zoom hysteresis
// anchor and the bounded memory of last-known node positions.
//
// Basic usage:
//
//	eng, err := engine.New(engine.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng.LoadSnapshot(nodes, edges, engine.PrecisionFloat32)
//	res := eng.Hover(engine.HoverQuery{Center: cursor, Transform: cam})
package engine

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/core/zoomphase"
)

// Engine is the main entry point. It is safe for concurrent use: snapshot
// swaps take the write lock, decisions take the read lock.
type Engine struct {
	mu   sync.RWMutex
	snap *Snapshot

	phase zoomphase.Config
	zoom  ZoomConfig
	pull  PullConfig
	hover HoverConfig

	// posMemory remembers the last display position of nodes that left
	// visibility, so they re-enter where the viewer last saw them.
	posMemory *lru.Cache[string, geometry.Point]

	// Zoom hysteresis anchor. Guarded by mu.
	committedZoom    float64
	hasCommittedZoom bool
}

// New creates an Engine with the given options. The zoom-phase config is
// sanitized here once; malformed ranges are repaired, never rejected.
func New(opts Options) (*Engine, error) {
	size := opts.PositionMemorySize
	if size <= 0 {
		size = DefaultOptions().PositionMemorySize
	}
	mem, err := lru.New[string, geometry.Point](size)
	if err != nil {
		return nil, fmt.Errorf("position memory init failed: %w", err)
	}

	zoom := opts.Zoom
	if zoom == (ZoomConfig{}) {
		zoom = DefaultZoomConfig()
	}
	pull := opts.Pull
	if pull.MaxPulled == 0 {
		pull = DefaultPullConfig()
	}
	hover := opts.Hover
	if hover == (HoverConfig{}) {
		hover = DefaultHoverConfig()
	}

	return &Engine{
		snap:      NewSnapshot(nil, nil, PrecisionFloat32),
		phase:     opts.Phase.Sanitized(),
		zoom:      zoom,
		pull:      pull,
		hover:     hover,
		posMemory: mem,
	}, nil
}

// LoadSnapshot replaces the current graph snapshot and returns the new
// snapshot's id. The position memory intentionally survives the swap: nodes
// that existed in the previous graph should still re-enter where they were.
func (e *Engine) LoadSnapshot(nodes []NodeInput, edges []EdgeInput, precision Precision) string {
	if precision != PrecisionFloat16 {
		precision = PrecisionFloat32
	}
	snap := NewSnapshot(nodes, edges, precision)

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
	return snap.ID
}

// Snapshot returns the current snapshot. The returned value is immutable.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// PhaseScalars are the continuous interpolation outputs for one camera
// distance, consumed by the renderer to style every draw call of the frame.
type PhaseScalars struct {
	Threshold                float64 `json:"threshold"`
	ZoomDesaturation         float64 `json:"zoom_desaturation"`
	ClusterLabelDesaturation float64 `json:"cluster_label_desaturation"`
	KeywordScale             float64 `json:"keyword_scale"`
	ContentScale             float64 `json:"content_scale"`
	KeywordLabelOpacity      float64 `json:"keyword_label_opacity"`
	ContentOpacity           float64 `json:"content_opacity"`
	Blur                     float64 `json:"blur"`
}

// PhaseScalars computes every interpolation value for the given camera
// distance. Pure; recomputable on demand.
func (e *Engine) PhaseScalars(cameraDistance float64) PhaseScalars {
	return PhaseScalars{
		Threshold:                thresholdForZoom(e.zoom, cameraDistance),
		ZoomDesaturation:         e.phase.ZoomDesaturation(cameraDistance),
		ClusterLabelDesaturation: e.phase.ClusterLabelDesaturation(cameraDistance),
		KeywordScale:             e.phase.KeywordScale(cameraDistance),
		ContentScale:             e.phase.ContentScale(cameraDistance),
		KeywordLabelOpacity:      e.phase.KeywordLabelOpacity(cameraDistance),
		ContentOpacity:           e.phase.ContentOpacity(cameraDistance),
		Blur:                     e.phase.BlurAmount(cameraDistance),
	}
}

// PhaseConfig returns the sanitized zoom-phase config in use.
func (e *Engine) PhaseConfig() zoomphase.Config { return e.phase }

// ShouldRethreshold reports whether the camera distance has moved beyond the
// hysteresis dead zone since the last committed value, committing the new
// value when it has. The first call always commits. Callers skip the zoom
// filter entirely when this returns false, which is what keeps the visible
// set from flickering on trivial camera jitter.
func (e *Engine) ShouldRethreshold(cameraDistance float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasCommittedZoom {
		e.committedZoom = cameraDistance
		e.hasCommittedZoom = true
		return true
	}

	dead := e.zoom.HysteresisFraction * e.committedZoom
	if dead < 0 {
		dead = 0
	}
	delta := cameraDistance - e.committedZoom
	if delta < 0 {
		delta = -delta
	}
	if delta <= dead {
		return false
	}
	e.committedZoom = cameraDistance
	return true
}

// RememberPosition records where a node was last displayed. Renderers call
// this as nodes leave visibility; RecoverPosition reads it back.
func (e *Engine) RememberPosition(id string, p geometry.Point) {
	e.posMemory.Add(id, p)
}
