package server

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/semlens/semlens/pkg/engine"
	"github.com/semlens/semlens/pkg/metrics"
)

// registerHTTPHandlers sets up the routes for the REST API.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", s.router)
}

// router is the main manual router. It inspects the URL and delegates to the
// correct handler.
func (s *Server) router(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// --- Debug endpoints (pprof) ---
	if strings.HasPrefix(path, "/debug/pprof") {
		switch {
		case path == "/debug/pprof/":
			pprof.Index(w, r)
		case path == "/debug/pprof/cmdline":
			pprof.Cmdline(w, r)
		case path == "/debug/pprof/profile":
			pprof.Profile(w, r)
		case path == "/debug/pprof/symbol":
			pprof.Symbol(w, r)
		case path == "/debug/pprof/trace":
			pprof.Trace(w, r)
		default:
			s.writeHTTPError(w, http.StatusNotFound, "pprof endpoint not found")
		}
		return
	}

	if path == "/metrics" {
		promhttp.Handler().ServeHTTP(w, r)
		return
	}

	// --- Graph snapshot ---
	if path == "/graph/snapshot" {
		s.handleSnapshotRequest(w, r)
		return
	}

	// --- Decision endpoints ---
	switch path {
	case "/decide/hover":
		s.handleHover(w, r)
		return
	case "/decide/zoom":
		s.handleZoom(w, r)
		return
	case "/decide/pull":
		s.handlePull(w, r)
		return
	case "/decide/frame":
		s.handleFrame(w, r)
		return
	case "/phase/scalars":
		s.handlePhaseScalars(w, r)
		return
	}

	s.writeHTTPError(w, http.StatusNotFound, "endpoint not found")
}

// handleSnapshotRequest handles both inspection and replacement.
func (s *Server) handleSnapshotRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleSnapshotInfo(w, r)
	case http.MethodPost, http.MethodPut:
		s.handleSnapshotLoad(w, r)
	default:
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only GET, POST and PUT are allowed on /graph/snapshot")
	}
}

func (s *Server) handleSnapshotInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	s.writeHTTPResponse(w, http.StatusOK, SnapshotInfoResponse{
		SnapshotID: snap.ID,
		Nodes:      snap.NodeCount(),
		Edges:      snap.EdgeCount(),
	})
}

func (s *Server) handleSnapshotLoad(w http.ResponseWriter, r *http.Request) {
	var req SnapshotLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected an object with 'nodes' and 'edges'")
		return
	}

	precision := s.precision
	if req.Precision != "" {
		precision = engine.Precision(req.Precision)
	}

	id := s.Engine.LoadSnapshot(req.Nodes, req.Edges, precision)

	snap := s.Engine.Snapshot()
	metrics.SnapshotNodes.Set(float64(snap.NodeCount()))
	metrics.SnapshotEdges.Set(float64(snap.EdgeCount()))

	s.writeHTTPResponse(w, http.StatusOK, SnapshotInfoResponse{
		SnapshotID: id,
		Nodes:      snap.NodeCount(),
		Edges:      snap.EdgeCount(),
	})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use the POST method")
		return
	}

	var q engine.HoverQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON for hover query")
		return
	}

	start := time.Now()
	res := s.Engine.Hover(q)
	metrics.DecisionDuration.WithLabelValues("hover").Observe(time.Since(start).Seconds())

	s.writeHTTPResponse(w, http.StatusOK, hoverResponse(s.Engine.Snapshot().ID, res))
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use the POST method")
		return
	}

	var q engine.ZoomQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON for zoom query")
		return
	}

	start := time.Now()
	res := s.Engine.VisibleAtZoom(q)
	metrics.DecisionDuration.WithLabelValues("zoom").Observe(time.Since(start).Seconds())

	s.writeHTTPResponse(w, http.StatusOK, zoomResponse(s.Engine.Snapshot().ID, res))
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use the POST method")
		return
	}

	var q engine.PullQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON for pull query")
		return
	}

	start := time.Now()
	res := s.Engine.Pull(q)
	metrics.DecisionDuration.WithLabelValues("pull").Observe(time.Since(start).Seconds())
	metrics.PulledNodes.Observe(float64(len(res.Pulled)))

	s.writeHTTPResponse(w, http.StatusOK, pullResponse(s.Engine.Snapshot().ID, res))
}

// handleFrame runs one combined decision cycle. The zoom filter is gated by
// the hysteresis anchor: when the camera only jittered, the response omits
// the zoom section and the renderer keeps its previous visible set.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use the POST method")
		return
	}

	var req FrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON for frame request")
		return
	}

	start := time.Now()
	snapID := s.Engine.Snapshot().ID
	resp := FrameResponse{
		SnapshotID: snapID,
		Phase:      s.Engine.PhaseScalars(req.CameraDistance),
	}

	if s.Engine.ShouldRethreshold(req.CameraDistance) {
		zoomRes := s.Engine.VisibleAtZoom(engine.ZoomQuery{
			CameraDistance: req.CameraDistance,
			Transform:      req.Transform,
			ScreenW:        req.ScreenW,
			ScreenH:        req.ScreenH,
		})
		resp.Zoom = zoomResponse(snapID, zoomRes)
	}

	pullRes := s.Engine.Pull(engine.PullQuery{
		Transform:     req.Transform,
		ScreenW:       req.ScreenW,
		ScreenH:       req.ScreenH,
		ContentDriven: req.ContentDriven,
		MaxPulled:     req.MaxPulled,
	})
	metrics.PulledNodes.Observe(float64(len(pullRes.Pulled)))
	resp.Pull = pullResponse(snapID, pullRes)

	if req.Cursor != nil {
		hoverRes := s.Engine.Hover(engine.HoverQuery{
			Center:    *req.Cursor,
			Transform: req.Transform,
		})
		resp.Hover = hoverResponse(snapID, hoverRes)
	}

	metrics.DecisionDuration.WithLabelValues("frame").Observe(time.Since(start).Seconds())
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

func (s *Server) handlePhaseScalars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use the GET method")
		return
	}

	raw := r.URL.Query().Get("camera_distance")
	dist, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "camera_distance must be a number")
		return
	}

	s.writeHTTPResponse(w, http.StatusOK, PhaseScalarsResponse{
		CameraDistance: dist,
		Phase:          s.Engine.PhaseScalars(dist),
	})
}

// --- Response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
