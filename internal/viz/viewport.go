package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/universe"
)

// Viewport maps simulation coordinates onto canvas sub-pixels. Y grows
// upward in the simulation and downward on screen.
type Viewport struct {
	CenterX, CenterY float64
	// Scale is sub-pixels per simulation unit.
	Scale float64
	W, H  int
}

func NewViewport(w, h int) Viewport {
	return Viewport{Scale: 1, W: w, H: h}
}

// Project returns the sub-pixel of (x, y) and whether it lies on the canvas.
func (v Viewport) Project(x, y float64) (int, int, bool) {
	px := int(math.Floor(float64(v.W)/2 + (x-v.CenterX)*v.Scale))
	py := int(math.Floor(float64(v.H)/2 - (y-v.CenterY)*v.Scale))
	return px, py, px >= 0 && py >= 0 && px < v.W && py < v.H
}

func (v *Viewport) Zoom(factor float64) {
	if factor > 0 {
		v.Scale *= factor
	}
}

// Fit centers the viewport on the bounding box of s with a 10% margin.
func (v *Viewport) Fit(s universe.Snapshot) {
	if s.Len() == 0 {
		return
	}
	minX, maxX := s.X[0], s.X[0]
	minY, maxY := s.Y[0], s.Y[0]
	for i := 1; i < s.Len(); i++ {
		minX, maxX = math.Min(minX, s.X[i]), math.Max(maxX, s.X[i])
		minY, maxY = math.Min(minY, s.Y[i]), math.Max(maxY, s.Y[i])
	}

	v.CenterX = (minX + maxX) / 2
	v.CenterY = (minY + maxY) / 2

	spanX := (maxX - minX) * 1.2
	spanY := (maxY - minY) * 1.2
	scale := math.Inf(1)
	if spanX > 0 {
		scale = float64(v.W) / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, float64(v.H)/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	v.Scale = scale
}
