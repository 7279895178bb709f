package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/engine"
)

func TestHealthzAndAuth(t *testing.T) {
	eng, err := engine.New(engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.HTTP.Addr = ":9265"
	cfg.HTTP.AuthToken = "test-secret-token"
	s, err := NewServer(eng, cfg)
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error)
	go func() {
		errCh <- s.Run()
	}()

	time.Sleep(500 * time.Millisecond)

	resp, err := http.Get("http://localhost:9265/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("healthz expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get("http://localhost:9265/graph/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Errorf("protected expected 401, got %d", resp.StatusCode)
	}

	req, err := http.NewRequest("GET", "http://localhost:9265/graph/snapshot", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Add("Authorization", "Bearer test-secret-token")

	client := &http.Client{}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("protected with token expected 200, got %d", resp.StatusCode)
	}

	// Clean shutdown
	s.Shutdown()
	<-errCh
}

func TestSnapshotAndDecisionRoundTrip(t *testing.T) {
	eng, err := engine.New(engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.HTTP.Addr = ":9266"
	s, err := NewServer(eng, cfg)
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error)
	go func() {
		errCh <- s.Run()
	}()
	defer func() {
		s.Shutdown()
		<-errCh
	}()

	time.Sleep(500 * time.Millisecond)

	// 1. Load a tiny graph.
	load := SnapshotLoadRequest{
		Nodes: []engine.NodeInput{
			{ID: "kw", Kind: engine.KindKeyword, Position: &geometry.Point{X: 50, Y: 50}, Embedding: []float32{1, 0}},
			{ID: "doc", Kind: engine.KindContent, Position: &geometry.Point{X: 52, Y: 50}, Embedding: []float32{0.98, 0.2}},
		},
		Edges: []engine.EdgeInput{{Source: "kw", Target: "doc", Weight: 0.7}},
	}
	body, _ := json.Marshal(load)
	resp, err := http.Post("http://localhost:9266/graph/snapshot", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("snapshot load expected 200, got %d", resp.StatusCode)
	}
	var info SnapshotInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Nodes != 2 || info.Edges != 1 {
		t.Errorf("snapshot info = %+v, want 2 nodes / 1 edge", info)
	}
	if info.SnapshotID == "" {
		t.Error("snapshot id missing from load response")
	}

	// 2. Hover over the keyword.
	hover := engine.HoverQuery{
		Center:    geometry.Point{X: 50, Y: 50},
		RadiusPx:  10,
		Transform: geometry.Transform{K: 1},
	}
	body, _ = json.Marshal(hover)
	resp, err = http.Post("http://localhost:9266/decide/hover", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var hoverOut HoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&hoverOut); err != nil {
		t.Fatal(err)
	}
	if hoverOut.IsEmptySpace {
		t.Error("hover over a node reported empty space")
	}
	if hoverOut.SnapshotID != info.SnapshotID {
		t.Errorf("decision snapshot id %s != loaded %s", hoverOut.SnapshotID, info.SnapshotID)
	}

	// 3. A full frame decision: first call always carries a zoom section.
	frame := FrameRequest{
		CameraDistance: 2052,
		Transform:      geometry.Transform{K: 1},
		ScreenW:        100, ScreenH: 100,
	}
	body, _ = json.Marshal(frame)
	resp, err = http.Post("http://localhost:9266/decide/frame", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var frameOut FrameResponse
	if err := json.NewDecoder(resp.Body).Decode(&frameOut); err != nil {
		t.Fatal(err)
	}
	if frameOut.Zoom == nil {
		t.Fatal("first frame must re-threshold and include the zoom section")
	}
	if len(frameOut.Zoom.Visible) == 0 {
		t.Error("zoom section has an empty visible set")
	}
	if frameOut.Phase.KeywordScale <= 0 {
		t.Errorf("phase scalars missing: %+v", frameOut.Phase)
	}

	// 4. Same camera again: hysteresis suppresses the zoom section.
	resp, err = http.Post("http://localhost:9266/decide/frame", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	frameOut = FrameResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&frameOut); err != nil {
		t.Fatal(err)
	}
	if frameOut.Zoom != nil {
		t.Error("unchanged camera must not re-threshold")
	}

	// 5. Phase scalars endpoint.
	resp, err = http.Get("http://localhost:9266/phase/scalars?camera_distance=2052")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("phase scalars expected 200, got %d", resp.StatusCode)
	}
}
