package roadnet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hivemind-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

// rawMap is the on-disk road map: {"segments":[{"pts":[[x,y],...]}]}.
type rawMap struct {
	Segments *[]rawSegment `json:"segments" yaml:"segments"`
}

type rawSegment struct {
	Pts *[][]float64 `json:"pts" yaml:"pts"`
}

// LoadFile reads a road map, picking the decoder from the file extension:
// .geojson for GeoJSON, .yaml/.yml for YAML, anything else as JSON.
func LoadFile(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load road map: read %q: %w", path, err)
	}

	var segs []Segment
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson":
		segs, err = ParseGeoJSON(data)
	case ".yaml", ".yml":
		segs, err = ParseYAML(data)
	default:
		segs, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("load road map %q: %w", path, err)
	}

	return segs, nil
}

// Parse the native JSON road map format.
func ParseJSON(data []byte) ([]Segment, error) {
	var raw rawMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse road map json: %w", err)
	}
	return raw.toSegments()
}

// Parse the native format written as YAML.
func ParseYAML(data []byte) ([]Segment, error) {
	var raw rawMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse road map yaml: %w", err)
	}
	return raw.toSegments()
}

func (m rawMap) toSegments() ([]Segment, error) {
	if m.Segments == nil {
		return nil, errors.New("road map: missing \"segments\"")
	}

	out := make([]Segment, 0, len(*m.Segments))
	for i, rs := range *m.Segments {
		if rs.Pts == nil {
			return nil, fmt.Errorf("road map: segment %d: missing \"pts\"", i)
		}
		seg := Segment{Points: make([]domain.Point, 0, len(*rs.Pts))}
		for j, pt := range *rs.Pts {
			if len(pt) != 2 {
				return nil, fmt.Errorf("road map: segment %d point %d: want [x, y], got %d values", i, j, len(pt))
			}
			seg.Points = append(seg.Points, domain.Point{X: pt[0], Y: pt[1]})
		}
		out = append(out, seg)
	}

	return out, nil
}

// ParseGeoJSON reads LineString and MultiLineString features as segments.
// Other geometry types are skipped, but a collection without any line
// features is an error. Coordinates are used as-is, so the collection
// should already be in a planar projection.
func ParseGeoJSON(data []byte) ([]Segment, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse road map geojson: %w", err)
	}

	var out []Segment
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			out = append(out, segmentFromLine(g))
		case orb.MultiLineString:
			for _, ls := range g {
				out = append(out, segmentFromLine(ls))
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("parse road map geojson: no LineString or MultiLineString features")
	}

	return out, nil
}

func segmentFromLine(ls orb.LineString) Segment {
	seg := Segment{Points: make([]domain.Point, 0, len(ls))}
	for _, p := range ls {
		seg.Points = append(seg.Points, domain.Point{X: p.X(), Y: p.Y()})
	}
	return seg
}
