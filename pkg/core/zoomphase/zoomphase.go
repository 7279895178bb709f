// Package zoomphase models the camera-distance-driven visual crossfades of
// the map: keyword-label fade, keyword/content crossfade and blur, plus the
// derived desaturation and scale curves.
//
// Every curve is a pure function of (cameraDistance, Config). There is no
// internal state and no hysteresis here; hysteresis belongs to the filters
// that consume these values.
package zoomphase

import (
	"math"
	"sort"

	"github.com/semlens/semlens/pkg/core/geometry"
)

// Global camera-distance envelope. Every configured bound is clamped into
// this range during sanitation; values outside it are renderer bugs.
const (
	CameraZMin = 200.0
	CameraZMax = 20000.0
)

// Desaturation anchors for the three semantic zoom levels.
const (
	clusterDesaturation = 0.0
	keywordDesaturation = 0.3
	detailDesaturation  = 0.65
)

// Range is one named (near, far) camera-distance span controlling a single
// visual crossfade.
type Range struct {
	Near float64 `yaml:"near" json:"near"`
	Far  float64 `yaml:"far" json:"far"`
}

// sanitized clamps both bounds into the global envelope and reorders them so
// that Near < Far. Malformed input is repaired, never rejected: the config is
// edited live from a settings panel and a transiently inverted range must not
// take the engine down.
func (r Range) sanitized() Range {
	r.Near = clampEnvelope(r.Near)
	r.Far = clampEnvelope(r.Far)
	if r.Near > r.Far {
		r.Near, r.Far = r.Far, r.Near
	}
	return r
}

func clampEnvelope(v float64) float64 {
	return math.Min(math.Max(v, CameraZMin), CameraZMax)
}

// Config is the immutable zoom-phase input for a decision cycle.
//
// ClusterLevel, KeywordLevel and DetailLevel are the camera distances at
// which the map reads as clusters, keywords, or individual content; they
// anchor the desaturation and scale curves. The three ranges drive the label
// and blur crossfades independently.
type Config struct {
	ClusterLevel float64 `yaml:"cluster_level" json:"cluster_level"`
	KeywordLevel float64 `yaml:"keyword_level" json:"keyword_level"`
	DetailLevel  float64 `yaml:"detail_level" json:"detail_level"`

	MinKeywordScale float64 `yaml:"min_keyword_scale" json:"min_keyword_scale"`

	KeywordLabelFade Range `yaml:"keyword_label_fade" json:"keyword_label_fade"`
	ContentCrossfade Range `yaml:"content_crossfade" json:"content_crossfade"`
	Blur             Range `yaml:"blur" json:"blur"`

	BlurRadius float64 `yaml:"blur_radius" json:"blur_radius"`
}

// DefaultConfig returns the tuning shipped with the map frontend.
func DefaultConfig() Config {
	return Config{
		ClusterLevel:     13961,
		KeywordLevel:     3736,
		DetailLevel:      2052,
		MinKeywordScale:  0.3,
		KeywordLabelFade: Range{Near: 2052, Far: 6000},
		ContentCrossfade: Range{Near: 2052, Far: 4500},
		Blur:             Range{Near: 2500, Far: 9000},
		BlurRadius:       6,
	}
}

// Sanitized returns a copy with every range repaired (near < far, bounds
// clamped into the envelope) and the three level anchors clamped and ordered
// detail < keyword < cluster. Call once at construction; the curves assume a
// sanitized config.
func (c Config) Sanitized() Config {
	levels := []float64{
		clampEnvelope(c.DetailLevel),
		clampEnvelope(c.KeywordLevel),
		clampEnvelope(c.ClusterLevel),
	}
	sort.Float64s(levels)
	c.DetailLevel, c.KeywordLevel, c.ClusterLevel = levels[0], levels[1], levels[2]

	if c.MinKeywordScale <= 0 || c.MinKeywordScale > 1 {
		c.MinKeywordScale = DefaultConfig().MinKeywordScale
	}
	if c.BlurRadius < 0 {
		c.BlurRadius = 0
	}

	c.KeywordLabelFade = c.KeywordLabelFade.sanitized()
	c.ContentCrossfade = c.ContentCrossfade.sanitized()
	c.Blur = c.Blur.sanitized()
	return c
}

// ZoomDesaturation returns how strongly content colors are washed out at the
// given camera distance: 0 at the cluster level, 0.3 at the keyword level,
// 0.65 at the detail level, linear between adjacent anchors and clamped
// outside them.
func (c Config) ZoomDesaturation(z float64) float64 {
	switch {
	case z >= c.ClusterLevel:
		return clusterDesaturation
	case z >= c.KeywordLevel:
		t := geometry.NormalizeZoom(z, c.ClusterLevel, c.KeywordLevel)
		return geometry.Lerp(clusterDesaturation, keywordDesaturation, t)
	case z >= c.DetailLevel:
		t := geometry.NormalizeZoom(z, c.KeywordLevel, c.DetailLevel)
		return geometry.Lerp(keywordDesaturation, detailDesaturation, t)
	default:
		return detailDesaturation
	}
}

// ClusterLabelDesaturation is the inverse relationship over the outer anchor
// pair: cluster labels are fully gray (1.0) at the cluster level and fully
// saturated (0.0) by the keyword level.
func (c Config) ClusterLabelDesaturation(z float64) float64 {
	t := geometry.NormalizeZoom(z, c.KeywordLevel, c.ClusterLevel)
	return geometry.Clamp01(t)
}

// zoomFraction is the normalized position of z between the detail and
// cluster anchors: 0 fully zoomed in, 1 fully zoomed out.
func (c Config) zoomFraction(z float64) float64 {
	return geometry.Clamp01(geometry.NormalizeZoom(z, c.DetailLevel, c.ClusterLevel))
}

// KeywordScale interpolates keyword node scale linearly from MinKeywordScale
// (camera at the detail level) up to 1.0 (camera at the cluster level).
func (c Config) KeywordScale(z float64) float64 {
	return geometry.Lerp(c.MinKeywordScale, 1.0, c.zoomFraction(z))
}

// ContentScale interpolates content node scale quadratically: (1-t)^2 over
// the same fraction, so content stays tiny while zoomed out and pops into
// focus late as the camera approaches. The asymmetry against KeywordScale is
// what makes the crossfade read smoothly.
func (c Config) ContentScale(z float64) float64 {
	inv := 1 - c.zoomFraction(z)
	return inv * inv
}

// KeywordLabelOpacity fades keyword labels out as the camera descends through
// the keyword-label-fade range: 1 at and beyond the far bound, 0 at and
// below the near bound.
func (c Config) KeywordLabelOpacity(z float64) float64 {
	return geometry.Clamp01(geometry.NormalizeZoom(z, c.KeywordLabelFade.Near, c.KeywordLabelFade.Far))
}

// ContentOpacity is the opposing side of the crossfade: content fades in as
// the camera descends through the content-crossfade range.
func (c Config) ContentOpacity(z float64) float64 {
	return 1 - geometry.Clamp01(geometry.NormalizeZoom(z, c.ContentCrossfade.Near, c.ContentCrossfade.Far))
}

// BlurAmount returns the blur radius applied to content at the given camera
// distance: zero at and below the near bound, growing linearly to BlurRadius
// at the far bound. Content is blurred while it is still a backdrop and
// sharpens as it becomes the subject.
func (c Config) BlurAmount(z float64) float64 {
	return c.BlurRadius * geometry.Clamp01(geometry.NormalizeZoom(z, c.Blur.Near, c.Blur.Far))
}
