// Package roadnet turns raw road centerline geometry into the routable
// CityGraph used for planning, and loads or generates that geometry.
package roadnet

import (
	"encoding/binary"
	"math"
	"sync"

	"hivemind-service/internal/domain"

	"github.com/cespare/xxhash/v2"
)

// Segment is one road centerline. Point order defines traversal order for
// edge generation; fewer than two points contribute nothing.
type Segment struct {
	Points []domain.Point
}

// GraphNode is a planar position. Identity is positional.
type GraphNode struct {
	X float64
	Y float64
}

func (n GraphNode) Point() domain.Point { return domain.Point{X: n.X, Y: n.Y} }

// GraphEdge is a directed connection. Edges are always created in
// reciprocal pairs of equal length.
type GraphEdge struct {
	From   int
	To     int
	Length float64
}

// CityGraph is read-only after Build and safe for concurrent readers.
type CityGraph struct {
	Nodes []GraphNode
	Edges []GraphEdge
	// Adjacency[i] lists the indices of edges leaving node i, in edge order.
	Adjacency [][]int

	fingerprintOnce sync.Once
	fingerprint     uint64
}

// Fingerprint is a content hash of nodes and edges, used in route cache keys.
func (g *CityGraph) Fingerprint() uint64 {
	g.fingerprintOnce.Do(func() {
		g.fingerprint = computeFingerprint(g)
	})
	return g.fingerprint
}

func computeFingerprint(g *CityGraph) uint64 {
	d := xxhash.New()
	var buf [8]byte
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	putInt := func(i int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		_, _ = d.Write(buf[:])
	}

	putInt(len(g.Nodes))
	for _, n := range g.Nodes {
		putFloat(n.X)
		putFloat(n.Y)
	}
	putInt(len(g.Edges))
	for _, e := range g.Edges {
		putInt(e.From)
		putInt(e.To)
		putFloat(e.Length)
	}
	return d.Sum64()
}

// BuildAdjacency groups edge indices by their From node.
func BuildAdjacency(nodeCount int, edges []GraphEdge) [][]int {
	adjacency := make([][]int, nodeCount)
	for i, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], i)
	}
	return adjacency
}
