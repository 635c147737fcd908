package domain

// Represents one point of a planned drive route.
// DirX/DirY is the unit vector toward the next waypoint and DistToNext the
// distance to it. The final waypoint of a route is a sentinel with zero
// direction and zero distance, marking completion.
type Waypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	DirX       float64 `json:"dir_x"`
	DirY       float64 `json:"dir_y"`
	DistToNext float64 `json:"dist_to_next"`
}

// Return the waypoint position.
func (w Waypoint) Position() Point { return Point{X: w.X, Y: w.Y} }

// Report whether this is the terminal sentinel of a route.
func (w Waypoint) IsFinal() bool {
	return w.DirX == 0 && w.DirY == 0 && w.DistToNext == 0
}
