package roadnet

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"hivemind-service/internal/domain"
)

// DefaultBlockSize is the grid spacing of generated cities, in map units.
const DefaultBlockSize = 100.0

// GenerateGrid builds a deterministic grid city for the given seed: full-length
// arterials every few rows and columns, a handful of partial local streets on
// the rest, an outer loop, an inner ring and a downtown loop, plus long avenues.
// The same seed always yields the same segments.
func GenerateGrid(seed int64, blockSize float64) []Segment {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	rng := rand.New(rand.NewSource(seed))
	between := func(lo, hi int) int { return lo + rng.Intn(hi-lo+1) }

	cols := between(10, 15)
	rows := between(10, 15)
	width := float64(cols-1) * blockSize
	height := float64(rows-1) * blockSize
	ox, oy := -width/2, -height/2
	at := func(c, r int) domain.Point {
		return domain.Point{X: ox + float64(c)*blockSize, Y: oy + float64(r)*blockSize}
	}
	line := func(a, b domain.Point) Segment { return Segment{Points: []domain.Point{a, b}} }

	var segs []Segment
	arterialStep := between(4, 5)

	for r := 0; r < rows; r++ {
		if r%arterialStep == 0 || r == rows/2 {
			segs = append(segs, line(at(0, r), at(cols-1, r)))
			continue
		}
		for n := between(1, 3); n > 0; n-- {
			left := between(0, cols-2)
			segs = append(segs, line(at(left, r), at(between(left+1, cols-1), r)))
		}
	}

	for c := 0; c < cols; c++ {
		if c%arterialStep == 0 || c == cols/2 {
			segs = append(segs, line(at(c, 0), at(c, rows-1)))
			continue
		}
		for n := between(1, 3); n > 0; n-- {
			bottom := between(0, rows-2)
			segs = append(segs, line(at(c, bottom), at(c, between(bottom+1, rows-1))))
		}
	}

	segs = append(segs,
		rectLoop(at(0, 0), at(cols-1, rows-1)),
		rectLoop(at(1, 1), at(cols-2, rows-2)),
		rectLoop(at(cols/2-1, rows/2-1), at(cols/2+1, rows/2+1)),
	)

	for n := (cols + rows) / 3; n > 0; n-- {
		if rng.Intn(2) == 0 {
			r := between(1, rows-2)
			segs = append(segs, line(at(between(0, cols/3), r), at(between(2*cols/3, cols-1), r)))
		} else {
			c := between(1, cols-2)
			segs = append(segs, line(at(c, between(0, rows/3)), at(c, between(2*rows/3, rows-1))))
		}
	}

	return segs
}

func rectLoop(lo, hi domain.Point) Segment {
	return Segment{Points: []domain.Point{
		{X: lo.X, Y: lo.Y},
		{X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y},
		{X: lo.X, Y: hi.Y},
		{X: lo.X, Y: lo.Y},
	}}
}

type outSegment struct {
	ID  int          `json:"id"`
	Pts [][2]float64 `json:"pts"`
}

// WriteJSON writes segments in the native road map format.
func WriteJSON(path string, segs []Segment) error {
	out := struct {
		Segments []outSegment `json:"segments"`
	}{Segments: make([]outSegment, 0, len(segs))}

	for i, s := range segs {
		seg := outSegment{ID: i + 1, Pts: make([][2]float64, 0, len(s.Points))}
		for _, p := range s.Points {
			seg.Pts = append(seg.Pts, [2]float64{p.X, p.Y})
		}
		out.Segments = append(out.Segments, seg)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("write road map: encode: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write road map: %q: %w", path, err)
	}
	return nil
}
