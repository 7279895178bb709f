package mcp

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/engine"
)

type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// --- Tool Handlers ---

func (s *Service) LoadGraph(ctx context.Context, req *mcp.CallToolRequest, args LoadGraphArgs) (*mcp.CallToolResult, LoadGraphResult, error) {
	precision := engine.Precision(args.Precision)
	if precision != engine.PrecisionFloat16 {
		precision = engine.PrecisionFloat32
	}

	id := s.engine.LoadSnapshot(args.Nodes, args.Edges, precision)
	snap := s.engine.Snapshot()

	return nil, LoadGraphResult{
		SnapshotID: id,
		Nodes:      snap.NodeCount(),
		Edges:      snap.EdgeCount(),
	}, nil
}

func (s *Service) ProbeHover(ctx context.Context, req *mcp.CallToolRequest, args ProbeHoverArgs) (*mcp.CallToolResult, ProbeHoverResult, error) {
	res := s.engine.Hover(engine.HoverQuery{
		Center:    geometry.Point{X: args.X, Y: args.Y},
		RadiusPx:  args.RadiusPx,
		Transform: args.Camera.transform(),
		Threshold: args.Threshold,
	})

	return nil, ProbeHoverResult{
		Highlighted:  setToSorted(res.Highlighted),
		Spatial:      res.Spatial,
		IsEmptySpace: res.IsEmptySpace,
	}, nil
}

func (s *Service) VisibleAtZoom(ctx context.Context, req *mcp.CallToolRequest, args VisibleAtZoomArgs) (*mcp.CallToolResult, VisibleAtZoomResult, error) {
	res := s.engine.VisibleAtZoom(engine.ZoomQuery{
		CameraDistance: args.CameraDistance,
		Transform:      args.Camera.transform(),
		ScreenW:        args.Camera.ScreenW,
		ScreenH:        args.Camera.ScreenH,
	})

	return nil, VisibleAtZoomResult{
		Visible:   setToSorted(res.Visible),
		Focal:     res.Focal,
		Threshold: res.Threshold,
	}, nil
}

func (s *Service) PullCandidates(ctx context.Context, req *mcp.CallToolRequest, args PullCandidatesArgs) (*mcp.CallToolResult, PullCandidatesResult, error) {
	res := s.engine.Pull(engine.PullQuery{
		Transform:     args.Camera.transform(),
		ScreenW:       args.Camera.ScreenW,
		ScreenH:       args.Camera.ScreenH,
		ContentDriven: args.ContentDriven,
		MaxPulled:     args.MaxPulled,
	})

	pulled := make([]PulledCandidate, 0, len(res.Pulled))
	for _, p := range res.Pulled {
		pulled = append(pulled, PulledCandidate{
			ID:                  p.ID,
			DisplayX:            p.DisplayX,
			DisplayY:            p.DisplayY,
			RealX:               p.RealX,
			RealY:               p.RealY,
			ConnectedPrimaryIDs: p.ConnectedPrimaryIDs,
		})
	}
	sort.Slice(pulled, func(i, j int) bool { return pulled[i].ID < pulled[j].ID })

	return nil, PullCandidatesResult{
		Pulled:  pulled,
		Primary: setToSorted(res.Primary),
	}, nil
}

func (s *Service) PhaseScalars(ctx context.Context, req *mcp.CallToolRequest, args PhaseScalarsArgs) (*mcp.CallToolResult, PhaseScalarsResult, error) {
	p := s.engine.PhaseScalars(args.CameraDistance)

	return nil, PhaseScalarsResult{
		Threshold:                p.Threshold,
		ZoomDesaturation:         p.ZoomDesaturation,
		ClusterLabelDesaturation: p.ClusterLabelDesaturation,
		KeywordScale:             p.KeywordScale,
		ContentScale:             p.ContentScale,
		KeywordLabelOpacity:      p.KeywordLabelOpacity,
		ContentOpacity:           p.ContentOpacity,
		Blur:                     p.Blur,
	}, nil
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
