package roadnet

import (
	"math"
	"math/rand"
	"testing"

	"hivemind-service/internal/domain"
)

func seg(pts ...[2]float64) Segment {
	s := Segment{}
	for _, p := range pts {
		s.Points = append(s.Points, domain.Point{X: p[0], Y: p[1]})
	}
	return s
}

func TestBuildStraightLine(t *testing.T) {
	g := Build([]Segment{
		seg([2]float64{0, 0}, [2]float64{100, 0}, [2]float64{200, 0}),
	}, DefaultEpsilon)

	if len(g.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(g.Nodes))
	}
	if len(g.Edges) != 4 {
		t.Fatalf("edges = %d, want 4", len(g.Edges))
	}
	for i, e := range g.Edges {
		if e.Length != 100 {
			t.Errorf("edge %d length = %v, want 100", i, e.Length)
		}
	}
	if len(g.Adjacency[1]) != 2 {
		t.Fatalf("middle node adjacency = %v, want 2 edges", g.Adjacency[1])
	}
}

func TestBuildEdgesAreSymmetric(t *testing.T) {
	g := Build(GenerateGrid(42, DefaultBlockSize), DefaultEpsilon)

	type key struct{ from, to int }
	lengths := make(map[key][]float64, len(g.Edges))
	for _, e := range g.Edges {
		lengths[key{e.From, e.To}] = append(lengths[key{e.From, e.To}], e.Length)
	}

	for _, e := range g.Edges {
		back, ok := lengths[key{e.To, e.From}]
		if !ok {
			t.Fatalf("edge %d->%d has no reciprocal", e.From, e.To)
		}
		found := false
		for _, l := range back {
			if l == e.Length {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("edge %d->%d length %v has no equal-length reciprocal (%v)", e.From, e.To, e.Length, back)
		}
	}
}

func TestBuildIgnoresShortSegments(t *testing.T) {
	g := Build([]Segment{
		seg(),
		seg([2]float64{5, 5}),
		seg([2]float64{0, 0}, [2]float64{10, 0}),
	}, DefaultEpsilon)

	if len(g.Nodes) != 2 || len(g.Edges) != 2 {
		t.Fatalf("nodes=%d edges=%d, want 2 and 2", len(g.Nodes), len(g.Edges))
	}
}

func TestBuildMergesWithinEpsilon(t *testing.T) {
	g := Build([]Segment{
		seg([2]float64{0, 0}, [2]float64{100, 0}),
		seg([2]float64{100.5, 0.3}, [2]float64{100, 100}),
	}, DefaultEpsilon)

	if len(g.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3 (endpoint within epsilon must merge)", len(g.Nodes))
	}
	// The second segment starts at the merged node, so its edge is measured
	// from the resolved coordinates (100,0), not the raw point.
	if e := g.Edges[2]; e.From != 1 || e.Length != 100 {
		t.Fatalf("edge = %+v, want from node 1 with length 100", e)
	}
}

func TestBuildFirstMatchNotNearest(t *testing.T) {
	g := Build([]Segment{
		seg([2]float64{0, 0}, [2]float64{1.5, 0}),
		seg([2]float64{0.9, 0}, [2]float64{50, 0}),
	}, DefaultEpsilon)

	// (0.9,0) is 0.9 from node 0 and 0.6 from node 1; first match wins.
	if got := g.Edges[2].From; got != 0 {
		t.Fatalf("resolved node = %d, want 0", got)
	}
	if got := g.Edges[2].Length; got != 50 {
		t.Fatalf("length = %v, want 50", got)
	}
}

func TestNodeIndexMatchesLinearScan(t *testing.T) {
	tests := []struct {
		name    string
		offset  float64
		epsilon float64
	}{
		{"origin", 0, DefaultEpsilon},
		{"far from origin", 2e7, DefaultEpsilon},
		{"fine epsilon", 2e7, 1e-3},
		{"coarse epsilon", 2e7, 50},
		{"beyond float precision", 1e12, 1e-3},
		{"negative coordinates", -1e12, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			idx := newNodeIndex(tt.epsilon)
			var linear []GraphNode

			// Points spread over 30 epsilons so that many of them merge.
			span := 30 * tt.epsilon
			for i := 0; i < 2000; i++ {
				p := domain.Point{X: tt.offset + rng.Float64()*span, Y: tt.offset + rng.Float64()*span}

				want := firstMatch(linear, p, tt.epsilon)
				if want < 0 {
					linear = append(linear, GraphNode{X: p.X, Y: p.Y})
					want = len(linear) - 1
				}

				if got := idx.findOrAdd(p); got != want {
					t.Fatalf("point %d (%v): index = %d, linear = %d", i, p, got, want)
				}
			}
		})
	}
}

func TestBuildZeroEpsilonNeverMerges(t *testing.T) {
	g := Build([]Segment{
		seg([2]float64{0, 0}, [2]float64{10, 0}),
		seg([2]float64{0, 0}, [2]float64{0, 10}),
	}, 0)

	if len(g.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(g.Nodes))
	}
}

func TestFingerprintTracksContent(t *testing.T) {
	a := Build([]Segment{seg([2]float64{0, 0}, [2]float64{10, 0})}, DefaultEpsilon)
	b := Build([]Segment{seg([2]float64{0, 0}, [2]float64{10, 0})}, DefaultEpsilon)
	c := Build([]Segment{seg([2]float64{0, 0}, [2]float64{0, 10})}, DefaultEpsilon)

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical graphs have different fingerprints")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different graphs share a fingerprint")
	}
}

func TestGenerateGridIsDeterministic(t *testing.T) {
	a := GenerateGrid(1234, DefaultBlockSize)
	b := GenerateGrid(1234, DefaultBlockSize)

	if len(a) != len(b) {
		t.Fatalf("segment counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i].Points) != len(b[i].Points) {
			t.Fatalf("segment %d differs", i)
		}
		for j := range a[i].Points {
			if a[i].Points[j] != b[i].Points[j] {
				t.Fatalf("segment %d point %d differs", i, j)
			}
		}
	}

	// Generated streets sit on the block grid, so endpoints merge exactly.
	g := Build(a, DefaultEpsilon)
	for _, n := range g.Nodes {
		if r := math.Mod(math.Abs(n.X), DefaultBlockSize/2); r > 1e-6 && DefaultBlockSize/2-r > 1e-6 {
			t.Fatalf("node %v is off the half-block grid", n)
		}
	}
}
