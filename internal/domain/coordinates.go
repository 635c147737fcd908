package domain

import "math"

// Planar map coordinates (same units as the road map, typically meters).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}
