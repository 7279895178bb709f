package server

import (
	"sort"

	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/engine"
)

// Request and response DTOs of the REST API. Engine results carry their node
// sets as maps for O(1) membership checks; the wire form flattens them into
// sorted id slices so responses are deterministic and diffable.

// SnapshotLoadRequest replaces the resident graph snapshot.
type SnapshotLoadRequest struct {
	Nodes []engine.NodeInput `json:"nodes"`
	Edges []engine.EdgeInput `json:"edges"`
	// Precision is "float32" (default) or "float16".
	Precision string `json:"precision,omitempty"`
}

// SnapshotInfoResponse describes the currently loaded snapshot.
type SnapshotInfoResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
}

// HoverResponse is the wire form of engine.HoverResult.
type HoverResponse struct {
	SnapshotID   string            `json:"snapshot_id"`
	Highlighted  []string          `json:"highlighted"`
	Spatial      []string          `json:"spatial"`
	Centroid     []float32         `json:"centroid,omitempty"`
	IsEmptySpace bool              `json:"is_empty_space"`
	Debug        engine.HoverDebug `json:"debug"`
}

// ZoomResponse is the wire form of engine.ZoomResult.
type ZoomResponse struct {
	SnapshotID string   `json:"snapshot_id"`
	Visible    []string `json:"visible"`
	Focal      []string `json:"focal"`
	Threshold  float64  `json:"threshold"`
}

// PullResponse is the wire form of engine.PullResult.
type PullResponse struct {
	SnapshotID string              `json:"snapshot_id"`
	Pulled     []engine.PulledNode `json:"pulled"`
	Primary    []string            `json:"primary"`
	Zones      geometry.Zones      `json:"zones"`
}

// FrameRequest bundles one full per-frame decision cycle: phase scalars and
// the pull pass always run, the zoom filter only when the camera moved past
// the hysteresis dead zone, the hover probe only when a cursor is given.
type FrameRequest struct {
	CameraDistance float64            `json:"camera_distance"`
	Transform      geometry.Transform `json:"transform"`
	ScreenW        float64            `json:"screen_w"`
	ScreenH        float64            `json:"screen_h"`

	Cursor        *geometry.Point `json:"cursor,omitempty"`
	ContentDriven []string        `json:"content_driven,omitempty"`
	MaxPulled     int             `json:"max_pulled,omitempty"`
}

// FrameResponse is the combined decision for one frame. Zoom is nil when the
// hysteresis gate held the previous visible set; Hover is nil when the
// request carried no cursor.
type FrameResponse struct {
	SnapshotID string              `json:"snapshot_id"`
	Phase      engine.PhaseScalars `json:"phase"`
	Zoom       *ZoomResponse       `json:"zoom,omitempty"`
	Pull       PullResponse        `json:"pull"`
	Hover      *HoverResponse      `json:"hover,omitempty"`
}

// PhaseScalarsResponse wraps the interpolation outputs for one camera
// distance.
type PhaseScalarsResponse struct {
	CameraDistance float64             `json:"camera_distance"`
	Phase          engine.PhaseScalars `json:"phase"`
}

// sortedIDs flattens a set into a sorted slice. Returns an empty slice, not
// nil, so the JSON field is always an array.
func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func hoverResponse(snapID string, res engine.HoverResult) *HoverResponse {
	if res.Spatial == nil {
		res.Spatial = []string{}
	}
	return &HoverResponse{
		SnapshotID:   snapID,
		Highlighted:  sortedIDs(res.Highlighted),
		Spatial:      res.Spatial,
		Centroid:     res.Centroid,
		IsEmptySpace: res.IsEmptySpace,
		Debug:        res.Debug,
	}
}

func zoomResponse(snapID string, res engine.ZoomResult) *ZoomResponse {
	if res.Focal == nil {
		res.Focal = []string{}
	}
	return &ZoomResponse{
		SnapshotID: snapID,
		Visible:    sortedIDs(res.Visible),
		Focal:      res.Focal,
		Threshold:  res.Threshold,
	}
}

func pullResponse(snapID string, res engine.PullResult) PullResponse {
	pulled := make([]engine.PulledNode, 0, len(res.Pulled))
	for _, p := range res.Pulled {
		pulled = append(pulled, p)
	}
	sort.Slice(pulled, func(i, j int) bool { return pulled[i].ID < pulled[j].ID })
	return PullResponse{
		SnapshotID: snapID,
		Pulled:     pulled,
		Primary:    sortedIDs(res.Primary),
		Zones:      res.Zones,
	}
}
