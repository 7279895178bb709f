// Package metrics defines the Prometheus instruments exposed on /metrics.
// 'promauto' registers everything at init, so importing the package is all
// the wiring a caller needs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP traffic, labeled by method, path and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "semlens_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "semlens_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	// Decision-cycle cost per filter (hover, zoom, pull, frame). This is
	// the number that must stay within a frame budget, so the buckets reach
	// well below a millisecond.
	DecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "semlens_decision_duration_seconds",
			Help:    "Duration of one visibility decision by operation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"op"},
	)

	// Size of the currently loaded graph snapshot.
	SnapshotNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "semlens_snapshot_nodes",
			Help: "Nodes in the current graph snapshot",
		},
	)

	SnapshotEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "semlens_snapshot_edges",
			Help: "Deduplicated undirected edges in the current graph snapshot",
		},
	)

	// How many nodes each pull decision dragged to the viewport edge;
	// persistent saturation means MaxPulled is too low for the graph.
	PulledNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "semlens_pulled_nodes",
			Help:    "Off-screen nodes pulled into view per decision",
			Buckets: []float64{0, 1, 2, 4, 8, 12, 16, 24, 32},
		},
	)
)
