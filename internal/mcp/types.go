package mcp

import (
	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/engine"
)

// --- Tool Arguments ---

// Camera describes the screen-to-world mapping shared by every probe tool.
// Scale and the translations follow screen = world*scale + translation.
type Camera struct {
	Scale      float64 `json:"scale" jsonschema:"Zoom factor of the camera transform,required"`
	TranslateX float64 `json:"translate_x,omitempty" jsonschema:"Horizontal pan of the camera transform"`
	TranslateY float64 `json:"translate_y,omitempty" jsonschema:"Vertical pan of the camera transform"`
	ScreenW    float64 `json:"screen_w" jsonschema:"Viewport width in pixels,required"`
	ScreenH    float64 `json:"screen_h" jsonschema:"Viewport height in pixels,required"`
}

func (c Camera) transform() geometry.Transform {
	return geometry.Transform{K: c.Scale, TX: c.TranslateX, TY: c.TranslateY}
}

type LoadGraphArgs struct {
	Nodes     []engine.NodeInput `json:"nodes" jsonschema:"Graph nodes with optional layout positions and embeddings,required"`
	Edges     []engine.EdgeInput `json:"edges,omitempty" jsonschema:"Undirected similarity edges with weights in [0,1]"`
	Precision string             `json:"precision,omitempty" jsonschema:"Embedding storage precision: 'float32' (default) or 'float16',enum=float32,enum=float16"`
}

type LoadGraphResult struct {
	SnapshotID string `json:"snapshot_id"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
}

type ProbeHoverArgs struct {
	Camera    Camera  `json:"camera" jsonschema:"required"`
	X         float64 `json:"x" jsonschema:"Cursor x in screen pixels,required"`
	Y         float64 `json:"y" jsonschema:"Cursor y in screen pixels,required"`
	RadiusPx  float64 `json:"radius_px,omitempty" jsonschema:"Probe radius in pixels (default from config)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"Centroid similarity threshold override (0.0-1.0)"`
}

type ProbeHoverResult struct {
	Highlighted  []string `json:"highlighted"`
	Spatial      []string `json:"spatial"`
	IsEmptySpace bool     `json:"is_empty_space"`
}

type VisibleAtZoomArgs struct {
	Camera         Camera  `json:"camera" jsonschema:"required"`
	CameraDistance float64 `json:"camera_distance" jsonschema:"Camera distance driving the similarity threshold,required"`
}

type VisibleAtZoomResult struct {
	Visible   []string `json:"visible"`
	Focal     []string `json:"focal"`
	Threshold float64  `json:"threshold"`
}

type PullCandidatesArgs struct {
	Camera        Camera   `json:"camera" jsonschema:"required"`
	ContentDriven []string `json:"content_driven,omitempty" jsonschema:"Node IDs that must be visible regardless of ranking (e.g. open documents)"`
	MaxPulled     int      `json:"max_pulled,omitempty" jsonschema:"Capacity override: 0 keeps the configured value, negative means zero capacity"`
}

type PulledCandidate struct {
	ID                  string   `json:"id"`
	DisplayX            float64  `json:"display_x"`
	DisplayY            float64  `json:"display_y"`
	RealX               float64  `json:"real_x"`
	RealY               float64  `json:"real_y"`
	ConnectedPrimaryIDs []string `json:"connected_primary_ids"`
}

type PullCandidatesResult struct {
	Pulled  []PulledCandidate `json:"pulled"`
	Primary []string          `json:"primary"`
}

type PhaseScalarsArgs struct {
	CameraDistance float64 `json:"camera_distance" jsonschema:"Camera distance to evaluate the interpolation curves at,required"`
}

type PhaseScalarsResult struct {
	Threshold                float64 `json:"threshold"`
	ZoomDesaturation         float64 `json:"zoom_desaturation"`
	ClusterLabelDesaturation float64 `json:"cluster_label_desaturation"`
	KeywordScale             float64 `json:"keyword_scale"`
	ContentScale             float64 `json:"content_scale"`
	KeywordLabelOpacity      float64 `json:"keyword_label_opacity"`
	ContentOpacity           float64 `json:"content_opacity"`
	Blur                     float64 `json:"blur"`
}
