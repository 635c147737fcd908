package services

import (
	"container/heap"
	"context"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/ports"
	"hivemind-service/internal/roadnet"
	"math"

	log "github.com/sirupsen/logrus"
)

// Return the index of the graph node closest to p.
//
// Linear scan; ties resolve to the lowest index. Returns -1 for an empty graph.
func NearestNode(g *roadnet.CityGraph, p domain.Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, n := range g.Nodes {
		if d := n.Point().Distance(p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Compute the waypoint route between two arbitrary points.
//
// Both points snap to their nearest nodes and Dijkstra's algorithm finds the
// shortest node path. Returns false when the destination is unreachable or
// both points snap to the same node.
func ComputePath(g *roadnet.CityGraph, start, dest domain.Point) ([]domain.Waypoint, bool) {
	from := NearestNode(g, start)
	to := NearestNode(g, dest)
	if from < 0 || to < 0 {
		return nil, false
	}
	return pathBetween(g, from, to)
}

func pathBetween(g *roadnet.CityGraph, from, to int) ([]domain.Waypoint, bool) {
	nodes, ok := shortestPath(g, from, to)
	if !ok {
		return nil, false
	}

	nodes = dropCoincident(g, nodes)
	if len(nodes) < 2 {
		return nil, false
	}

	return toWaypoints(g, nodes), true
}

type frontierItem struct {
	node int
	cost float64
}

// frontier is a min-heap on accumulated cost.
type frontier []frontierItem

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// shortestPath runs Dijkstra from start and stops as soon as goal is popped.
func shortestPath(g *roadnet.CityGraph, start, goal int) ([]int, bool) {
	n := len(g.Nodes)
	dist := make([]float64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[start] = 0

	pq := &frontier{{node: start, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(frontierItem)
		if cur.node == goal {
			break
		}
		// Stale entry: a cheaper route to this node was already expanded.
		if cur.cost > dist[cur.node] {
			continue
		}
		if cur.node >= len(g.Adjacency) {
			continue
		}

		for _, ei := range g.Adjacency[cur.node] {
			e := g.Edges[ei]
			next := cur.cost + e.Length
			if next < dist[e.To] {
				dist[e.To] = next
				prev[e.To] = cur.node
				heap.Push(pq, frontierItem{node: e.To, cost: next})
			}
		}
	}

	if math.IsInf(dist[goal], 1) {
		return nil, false
	}

	var path []int
	for cur := goal; cur != -1; cur = prev[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, true
}

// dropCoincident removes hops between nodes at the same position, which
// would otherwise produce an undefined direction.
func dropCoincident(g *roadnet.CityGraph, nodes []int) []int {
	out := nodes[:1:1]
	for _, n := range nodes[1:] {
		if g.Nodes[n] == g.Nodes[out[len(out)-1]] {
			continue
		}
		out = append(out, n)
	}
	return out
}

func toWaypoints(g *roadnet.CityGraph, nodes []int) []domain.Waypoint {
	waypoints := make([]domain.Waypoint, 0, len(nodes))
	for i := 0; i+1 < len(nodes); i++ {
		a := g.Nodes[nodes[i]]
		b := g.Nodes[nodes[i+1]]
		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Hypot(dx, dy)

		waypoints = append(waypoints, domain.Waypoint{
			X:          a.X,
			Y:          a.Y,
			DirX:       dx / dist,
			DirY:       dy / dist,
			DistToNext: dist,
		})
	}

	last := g.Nodes[nodes[len(nodes)-1]]
	return append(waypoints, domain.Waypoint{X: last.X, Y: last.Y})
}

// Planner computes routes over one immutable graph, optionally memoising
// them in a RouteCache. Safe for concurrent use.
type Planner struct {
	Graph *roadnet.CityGraph
	Cache ports.RouteCache
}

// Plan behaves like ComputePath. Cache errors are logged and never change
// the result; only successful routes are cached.
func (p *Planner) Plan(ctx context.Context, start, dest domain.Point) ([]domain.Waypoint, bool) {
	from := NearestNode(p.Graph, start)
	to := NearestNode(p.Graph, dest)
	if from < 0 || to < 0 {
		return nil, false
	}

	key := ports.RouteKey{Graph: p.Graph.Fingerprint(), From: from, To: to}

	if p.Cache != nil {
		route, hit, err := p.Cache.GetRoute(ctx, key)
		if err != nil {
			log.WithError(err).WithField("route", key.String()).Warn("route cache read failed")
		} else if hit {
			return route, true
		}
	}

	route, ok := pathBetween(p.Graph, from, to)
	if !ok {
		return nil, false
	}

	if p.Cache != nil {
		if err := p.Cache.PutRoute(ctx, key, route); err != nil {
			log.WithError(err).WithField("route", key.String()).Warn("route cache write failed")
		}
	}

	return route, true
}
