package roadnet

import (
	"encoding/xml"
	"fmt"

	"hivemind-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/osm"
)

// FromOSM converts highway ways of an OSM XML extract into segments.
// Node positions are projected to Web Mercator meters and re-centered on
// the extract's bounding box so coordinates stay small.
func FromOSM(data []byte) ([]Segment, error) {
	var o osm.OSM
	if err := xml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse osm: %w", err)
	}

	positions := make(map[osm.NodeID]orb.Point, len(o.Nodes))
	var bound orb.Bound
	first := true
	for _, n := range o.Nodes {
		p := project.WGS84.ToMercator(orb.Point{n.Lon, n.Lat})
		positions[n.ID] = p
		if first {
			bound = orb.Bound{Min: p, Max: p}
			first = false
			continue
		}
		bound = bound.Extend(p)
	}
	center := bound.Center()

	var out []Segment
	for _, w := range o.Ways {
		if w.Tags.Find("highway") == "" {
			continue
		}

		seg := Segment{Points: make([]domain.Point, 0, len(w.Nodes))}
		for _, wn := range w.Nodes {
			p, ok := positions[wn.ID]
			if !ok {
				// Ways clipped at the extract boundary reference missing nodes.
				continue
			}
			seg.Points = append(seg.Points, domain.Point{X: p.X() - center.X(), Y: p.Y() - center.Y()})
		}
		if len(seg.Points) >= 2 {
			out = append(out, seg)
		}
	}

	return out, nil
}
