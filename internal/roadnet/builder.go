package roadnet

import (
	"math"

	"hivemind-service/internal/domain"

	"github.com/dhconnelly/rtreego"
	log "github.com/sirupsen/logrus"
)

// DefaultEpsilon is the distance under which two endpoints are the same node.
const DefaultEpsilon = 1.0

// Below epsilon/|coordinate| = indexPrecision the spatial index cannot
// resolve epsilon boxes reliably and lookups fall back to a linear scan.
// With DefaultEpsilon the index covers coordinates up to 1e10.
const indexPrecision = 1e-10

// Build converts segments into a deduplicated CityGraph.
//
// Each endpoint resolves to the first existing node (lowest index) strictly
// closer than epsilon, not the nearest one, so the result depends on segment
// order and chained near-threshold points can drift across merges.
func Build(segments []Segment, epsilon float64) *CityGraph {
	idx := newNodeIndex(epsilon)
	var edges []GraphEdge

	for _, seg := range segments {
		if len(seg.Points) < 2 {
			continue
		}
		for i := 0; i+1 < len(seg.Points); i++ {
			from := idx.findOrAdd(seg.Points[i])
			to := idx.findOrAdd(seg.Points[i+1])
			length := idx.nodes[from].Point().Distance(idx.nodes[to].Point())

			edges = append(edges,
				GraphEdge{From: from, To: to, Length: length},
				GraphEdge{From: to, To: from, Length: length},
			)
		}
	}

	g := &CityGraph{
		Nodes:     idx.nodes,
		Edges:     edges,
		Adjacency: BuildAdjacency(len(idx.nodes), edges),
	}

	log.WithFields(log.Fields{
		"segments": len(segments),
		"nodes":    len(g.Nodes),
		"edges":    len(g.Edges),
	}).Debug("road graph built")

	return g
}

// nodeIndex answers first-match-within-epsilon queries. The R-tree only
// narrows candidates; the winner is the lowest index whose true distance is
// below epsilon, which is what a linear scan in insertion order returns.
type nodeIndex struct {
	epsilon float64
	nodes   []GraphNode
	tree    *rtreego.Rtree
}

type nodeEntry struct {
	index int
	box   rtreego.Rect
}

func (e *nodeEntry) Bounds() rtreego.Rect { return e.box }

func newNodeIndex(epsilon float64) *nodeIndex {
	return &nodeIndex{
		epsilon: epsilon,
		tree:    rtreego.NewTree(2, 25, 50),
	}
}

func (ni *nodeIndex) findOrAdd(p domain.Point) int {
	if i := ni.find(p); i >= 0 {
		return i
	}

	ni.nodes = append(ni.nodes, GraphNode{X: p.X, Y: p.Y})
	i := len(ni.nodes) - 1

	if ni.epsilon > 0 {
		box, err := rtreego.NewRect(
			rtreego.Point{p.X - ni.epsilon, p.Y - ni.epsilon},
			[]float64{2 * ni.epsilon, 2 * ni.epsilon},
		)
		if err == nil {
			ni.tree.Insert(&nodeEntry{index: i, box: box})
		}
	}
	return i
}

func (ni *nodeIndex) find(p domain.Point) int {
	if ni.epsilon <= 0 || len(ni.nodes) == 0 {
		return -1
	}
	if scale := math.Max(math.Abs(p.X), math.Abs(p.Y)); ni.epsilon <= scale*indexPrecision {
		return firstMatch(ni.nodes, p, ni.epsilon)
	}

	// Tiny query box; any node box containing p is a candidate.
	const probe = 1e-9
	query, err := rtreego.NewRect(rtreego.Point{p.X, p.Y}, []float64{probe, probe})
	if err != nil {
		return firstMatch(ni.nodes, p, ni.epsilon)
	}

	best := -1
	for _, s := range ni.tree.SearchIntersect(query) {
		e := s.(*nodeEntry)
		if best >= 0 && e.index >= best {
			continue
		}
		if ni.nodes[e.index].Point().Distance(p) < ni.epsilon {
			best = e.index
		}
	}
	return best
}

// firstMatch is the reference linear scan.
func firstMatch(nodes []GraphNode, p domain.Point, epsilon float64) int {
	for i, n := range nodes {
		if n.Point().Distance(p) < epsilon {
			return i
		}
	}
	return -1
}
