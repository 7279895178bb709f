// Package mcp exposes the visibility engine as Model Context Protocol tools,
// so an agent can load a graph and probe the same decisions a renderer gets.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/semlens/semlens/pkg/engine"
)

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "SemLens Visibility",
		Version: "0.3.0",
	}, nil) // Options can be nil for default

	// Register Tools using the Generic AddTool which inspects structs!

	mcp.AddTool(s, &mcp.Tool{
		Name:        "load_graph",
		Description: "Replace the resident graph snapshot with the given nodes and edges.",
	}, service.LoadGraph)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "probe_hover",
		Description: "Probe a cursor position and return the nodes that would be highlighted there.",
	}, service.ProbeHover)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "visible_at_zoom",
		Description: "Return the node set visible at a camera distance, with the focal anchors and similarity threshold used.",
	}, service.VisibleAtZoom)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "pull_candidates",
		Description: "Return which off-screen nodes would be pulled to the viewport edge for the given camera, and where.",
	}, service.PullCandidates)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "phase_scalars",
		Description: "Return the continuous zoom-phase interpolation values (desaturation, scale, opacity, blur) for a camera distance.",
	}, service.PhaseScalars)

	return s
}
