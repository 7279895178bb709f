// Package geometry provides the purely geometric half of the visibility
// engine: conversions between screen-pixel space and world (graph) space,
// viewport zone derivation, and camera-distance normalization.
//
// Conventions:
//   - Screen space is in pixels, origin top-left.
//   - World space is whatever the layout simulation uses; the engine never
//     interprets world units beyond relative distances.
//   - A Transform maps world to screen as screen = world*K + T, so the
//     inverse used everywhere here is world = (screen - T) / K.
package geometry

import "math"

// cameraScaleBase converts a 3D renderer's camera distance into the
// equivalent 2D scale factor: K = cameraScaleBase / distance.
const cameraScaleBase = 1000.0

// Margin fractions for the viewport zone rectangles, expressed per side.
const (
	pullMarginFraction   = 0.08 // pull bounds shrink inward
	extendMarginFraction = 0.25 // extended viewport grows outward
)

// Point is a position in screen or world space, depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is the camera state of a 2D renderer: scale factor plus pan
// translation, both in screen pixels.
type Transform struct {
	K  float64 `json:"k"`
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

// ScaleForCameraDistance maps a 3D camera distance onto the equivalent 2D
// scale. Non-positive distances (degenerate camera state) map to scale 1.
func ScaleForCameraDistance(distance float64) float64 {
	if distance <= 0 {
		return 1
	}
	return cameraScaleBase / distance
}

// safeK guards against a zero scale, which only occurs on malformed camera
// input and would otherwise produce infinities in every conversion.
func safeK(k float64) float64 {
	if k == 0 {
		return 1
	}
	return k
}

// ScreenToGraph converts a screen-pixel point into world coordinates.
func ScreenToGraph(p Point, t Transform) Point {
	k := safeK(t.K)
	return Point{X: (p.X - t.TX) / k, Y: (p.Y - t.TY) / k}
}

// GraphToScreen converts a world point into screen pixels.
func GraphToScreen(p Point, t Transform) Point {
	return Point{X: p.X*t.K + t.TX, Y: p.Y*t.K + t.TY}
}

// ScreenLengthToWorld converts a pixel length (e.g. a hover radius) into
// world units under the given transform.
func ScreenLengthToWorld(px float64, t Transform) float64 {
	return px / safeK(t.K)
}

// WorldPerPixel returns how many world units one screen pixel covers.
func WorldPerPixel(t Transform) float64 {
	return 1 / safeK(t.K)
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Contains reports whether p lies inside r (inclusive bounds).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Clamp returns p clamped per-axis into r.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.MinX), r.MaxX),
		Y: math.Min(math.Max(p.Y, r.MinY), r.MaxY),
	}
}

// inset returns r shrunk (positive d) or grown (negative d) by a fraction of
// its own extent on every side.
func (r Rect) inset(fraction float64) Rect {
	dx := r.Width() * fraction
	dy := r.Height() * fraction
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX - dx, MaxY: r.MaxY - dy}
}

// Viewport returns the world rectangle visible on a screen of the given pixel
// dimensions under transform t.
func Viewport(t Transform, screenW, screenH float64) Rect {
	tl := ScreenToGraph(Point{X: 0, Y: 0}, t)
	br := ScreenToGraph(Point{X: screenW, Y: screenH}, t)
	return Rect{
		MinX: math.Min(tl.X, br.X),
		MinY: math.Min(tl.Y, br.Y),
		MaxX: math.Max(tl.X, br.X),
		MaxY: math.Max(tl.Y, br.Y),
	}
}

// Zone classifies a node position relative to the viewport.
type Zone int

const (
	// ZoneInterior: inside the pull bounds. These nodes are "primary" and
	// are never moved by the pull engine.
	ZoneInterior Zone = iota
	// ZoneCliff: between pull bounds and the extended viewport, close
	// enough to be dragged to the edge.
	ZoneCliff
	// ZoneFar: beyond the extended viewport.
	ZoneFar
)

// Zones holds the three derived rectangles of one decision cycle.
type Zones struct {
	Viewport   Rect `json:"viewport"`
	PullBounds Rect `json:"pull_bounds"`
	Extended   Rect `json:"extended"`
}

// ComputeZones derives the pull bounds (shrunk inward) and the extended
// viewport (grown outward) from the visible world rectangle.
func ComputeZones(viewport Rect) Zones {
	return Zones{
		Viewport:   viewport,
		PullBounds: viewport.inset(pullMarginFraction),
		Extended:   viewport.inset(-extendMarginFraction),
	}
}

// Classify returns the zone of a world position.
func (z Zones) Classify(p Point) Zone {
	switch {
	case z.PullBounds.Contains(p):
		return ZoneInterior
	case z.Extended.Contains(p):
		return ZoneCliff
	default:
		return ZoneFar
	}
}

// NormalizeZoom clamps z into [min(near,far), max(near,far)] and returns the
// fraction (z-near)/(far-near), which lands in [0,1] for any orientation of
// the range. A collapsed range normalizes to 0.
func NormalizeZoom(z, near, far float64) float64 {
	if near == far {
		return 0
	}
	lo, hi := near, far
	if lo > hi {
		lo, hi = hi, lo
	}
	z = math.Min(math.Max(z, lo), hi)
	return (z - near) / (far - near)
}

// Lerp interpolates linearly between a and b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
