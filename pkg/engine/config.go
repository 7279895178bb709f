package engine

import "github.com/semlens/semlens/pkg/core/zoomphase"

// ZoomConfig parameterizes the semantic zoom filter: the camera-distance to
// similarity-threshold curve, the focal probe, and the recompute dead zone.
type ZoomConfig struct {
	// MinThreshold applies at and below ZoomFloor, MaxThreshold at and above
	// ZoomCeiling. In between the two, the threshold follows a power-law
	// blend controlled by Steepness.
	MinThreshold float64 `yaml:"min_threshold" json:"min_threshold"`
	MaxThreshold float64 `yaml:"max_threshold" json:"max_threshold"`
	ZoomFloor    float64 `yaml:"zoom_floor" json:"zoom_floor"`
	ZoomCeiling  float64 `yaml:"zoom_ceiling" json:"zoom_ceiling"`

	// Steepness in [0, 1] blends the curve shape: 0 is linear, 1 is cubic.
	Steepness float64 `yaml:"steepness" json:"steepness"`

	// FocalRadiusPx is the screen-space radius around the viewport center
	// from which focal nodes are taken.
	FocalRadiusPx float64 `yaml:"focal_radius_px" json:"focal_radius_px"`

	// HysteresisFraction is the dead zone for re-thresholding, expressed as
	// a fraction of the last committed camera distance. Camera jitter below
	// this fraction does not trigger a recompute.
	HysteresisFraction float64 `yaml:"hysteresis_fraction" json:"hysteresis_fraction"`
}

// DefaultZoomConfig returns the semantic zoom tuning shipped with the map.
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		MinThreshold:       0.30,
		MaxThreshold:       0.75,
		ZoomFloor:          2052,
		ZoomCeiling:        13961,
		Steepness:          0.6,
		FocalRadiusPx:      160,
		HysteresisFraction: 0.04,
	}
}

// PullConfig parameterizes the edge-magnet pull engine.
type PullConfig struct {
	// MaxPulled caps how many off-screen nodes are dragged to the viewport
	// edge in one cycle. Content-driven nodes bypass the cap.
	MaxPulled int `yaml:"max_pulled" json:"max_pulled"`
}

// DefaultPullConfig returns the default pull capacity.
func DefaultPullConfig() PullConfig {
	return PullConfig{MaxPulled: 12}
}

// HoverConfig parameterizes the spatial-semantic hover filter.
type HoverConfig struct {
	// RadiusPx is the screen-space radius of the hover probe circle.
	RadiusPx float64 `yaml:"radius_px" json:"radius_px"`
	// Threshold is the centroid similarity floor for the highlight set.
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// DefaultHoverConfig returns the default hover probe tuning.
func DefaultHoverConfig() HoverConfig {
	return HoverConfig{RadiusPx: 48, Threshold: 0.55}
}

// Options bundles everything an Engine needs at construction.
type Options struct {
	Phase zoomphase.Config
	Zoom  ZoomConfig
	Pull  PullConfig
	Hover HoverConfig

	// PositionMemorySize bounds the LRU of last-known positions used by
	// position recovery. Zero selects the default.
	PositionMemorySize int
}

// DefaultOptions returns a standard configuration suitable for most graphs.
func DefaultOptions() Options {
	return Options{
		Phase:              zoomphase.DefaultConfig(),
		Zoom:               DefaultZoomConfig(),
		Pull:               DefaultPullConfig(),
		Hover:              DefaultHoverConfig(),
		PositionMemorySize: 4096,
	}
}
