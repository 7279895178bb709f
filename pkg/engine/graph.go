package engine

import (
	"sort"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/semlens/semlens/pkg/core/geometry"
	"github.com/semlens/semlens/pkg/core/similarity"
)

// NodeKind separates the three populations on the map. Pinned items are
// excluded from semantic highlighting but still occupy viewport space.
type NodeKind string

const (
	KindKeyword NodeKind = "keyword"
	KindContent NodeKind = "content"
	KindPinned  NodeKind = "pinned"
)

// Precision selects how the snapshot stores embeddings.
type Precision string

const (
	// PrecisionFloat32 keeps embeddings as delivered.
	PrecisionFloat32 Precision = "float32"
	// PrecisionFloat16 stores embeddings at half precision, halving resident
	// memory on large graphs. Similarity is always computed in float32 after
	// decode.
	PrecisionFloat16 Precision = "float16"
)

// NodeInput is the wire-level form of a node in a graph snapshot.
// Position is optional: absent means the simulation has not laid the node
// out yet. Embedding is optional: nodes without one are excluded from
// similarity comparisons but stay eligible via spatial and adjacency rules.
type NodeInput struct {
	ID        string          `json:"id"`
	Kind      NodeKind        `json:"kind"`
	Position  *geometry.Point `json:"position,omitempty"`
	Embedding []float32       `json:"embedding,omitempty"`
}

// EdgeInput is an unordered node pair with a similarity weight in [0, 1].
type EdgeInput struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float32 `json:"weight"`
}

// Node is the resident record for one graph entity.
type Node struct {
	ID          string
	Kind        NodeKind
	HasPosition bool
	Pos         geometry.Point

	emb     []float32
	embHalf similarity.HalfVector
}

// HasEmbedding reports whether the node carries a usable embedding.
func (n *Node) HasEmbedding() bool {
	return len(n.emb) > 0 || len(n.embHalf) > 0
}

// Embedding returns the node's embedding in float32, decoding half-precision
// storage on demand. Returns nil when the node has none.
func (n *Node) Embedding() []float32 {
	if n.emb != nil {
		return n.emb
	}
	if n.embHalf != nil {
		return n.embHalf.Decode()
	}
	return nil
}

// Neighbor is one adjacency entry: the peer node id and the edge weight.
type Neighbor struct {
	ID     string  `json:"id"`
	Weight float32 `json:"weight"`
}

// Snapshot is one immutable graph state consumed by the decision cycle. All
// derived structures (adjacency index, position centroid) are built once at
// construction and read-only afterwards, so the three filters may run over
// the same snapshot in any order.
type Snapshot struct {
	// ID identifies this snapshot in API responses so a renderer can detect
	// decisions computed against a stale graph.
	ID string

	byID    map[string]*Node
	ordered *btree.BTreeG[*Node]

	// adjacency maps node id to its neighbor list, sorted by descending
	// weight. Edges are undirected: both endpoints list each other.
	adjacency map[string][]Neighbor
	edgeCount int

	// posCentroid is the mean position of all laid-out nodes, the last-resort
	// anchor for position recovery.
	posCentroid    geometry.Point
	hasPosCentroid bool
}

func nodeLess(a, b *Node) bool { return a.ID < b.ID }

// NewSnapshot builds a snapshot from wire-level nodes and edges.
//
// Degenerate input degrades instead of erroring: duplicate node ids keep the
// last occurrence, edges referencing unknown nodes or a node to itself are
// dropped, duplicate edges keep the strongest weight, weights are clamped
// into [0, 1], and non-finite embeddings are discarded.
func NewSnapshot(nodes []NodeInput, edges []EdgeInput, precision Precision) *Snapshot {
	s := &Snapshot{
		ID:        uuid.New().String(),
		byID:      make(map[string]*Node, len(nodes)),
		ordered:   btree.NewBTreeG(nodeLess),
		adjacency: make(map[string][]Neighbor),
	}

	for _, in := range nodes {
		if in.ID == "" {
			continue
		}
		n := &Node{ID: in.ID, Kind: in.Kind}
		if n.Kind == "" {
			n.Kind = KindContent
		}
		if in.Position != nil {
			n.HasPosition = true
			n.Pos = *in.Position
		}
		if len(in.Embedding) > 0 && similarity.IsFinite(in.Embedding) {
			if precision == PrecisionFloat16 {
				n.embHalf = similarity.CompressHalf(in.Embedding)
			} else {
				emb := make([]float32, len(in.Embedding))
				copy(emb, in.Embedding)
				n.emb = emb
			}
		}
		s.byID[n.ID] = n
		s.ordered.Set(n)
	}

	// Deduplicate undirected edges by canonical pair, strongest weight wins.
	type pair struct{ a, b string }
	weights := make(map[pair]float32, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := s.byID[e.Source]; !ok {
			continue
		}
		if _, ok := s.byID[e.Target]; !ok {
			continue
		}
		a, b := e.Source, e.Target
		if a > b {
			a, b = b, a
		}
		w := e.Weight
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		key := pair{a, b}
		if prev, ok := weights[key]; !ok || w > prev {
			weights[key] = w
		}
	}
	for key, w := range weights {
		s.adjacency[key.a] = append(s.adjacency[key.a], Neighbor{ID: key.b, Weight: w})
		s.adjacency[key.b] = append(s.adjacency[key.b], Neighbor{ID: key.a, Weight: w})
		s.edgeCount++
	}
	for id := range s.adjacency {
		sortNeighbors(s.adjacency[id])
	}

	// Position centroid over laid-out nodes.
	var sumX, sumY float64
	placed := 0
	s.ordered.Scan(func(n *Node) bool {
		if n.HasPosition {
			sumX += n.Pos.X
			sumY += n.Pos.Y
			placed++
		}
		return true
	})
	if placed > 0 {
		s.posCentroid = geometry.Point{X: sumX / float64(placed), Y: sumY / float64(placed)}
		s.hasPosCentroid = true
	}

	return s
}

// sortNeighbors orders by descending weight, id ascending on ties, so the
// pull engine's ranking is deterministic.
func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Weight != ns[j].Weight {
			return ns[i].Weight > ns[j].Weight
		}
		return ns[i].ID < ns[j].ID
	})
}

// Node returns the node with the given id, or nil.
func (s *Snapshot) Node(id string) *Node {
	return s.byID[id]
}

// Scan visits every node in ascending id order until fn returns false.
func (s *Snapshot) Scan(fn func(*Node) bool) {
	s.ordered.Scan(fn)
}

// Neighbors returns the adjacency list of id, sorted by descending weight.
// The returned slice is shared and must not be modified.
func (s *Snapshot) Neighbors(id string) []Neighbor {
	return s.adjacency[id]
}

// NodeCount returns the number of nodes in the snapshot.
func (s *Snapshot) NodeCount() int { return len(s.byID) }

// EdgeCount returns the number of deduplicated undirected edges.
func (s *Snapshot) EdgeCount() int { return s.edgeCount }

// PositionCentroid returns the mean position of laid-out nodes and whether
// any node is laid out at all.
func (s *Snapshot) PositionCentroid() (geometry.Point, bool) {
	return s.posCentroid, s.hasPosCentroid
}
