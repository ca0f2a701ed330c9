package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/universe"
)

// Escape reports the fraction of bodies within radius of the center of mass
// at the last observation. An empty universe counts as fully bound.
type Escape struct {
	name   string
	radius float64
	bound  int
	total  int
}

func NewEscape(radius float64) *Escape {
	return &Escape{
		name:   "bound_fraction",
		radius: radius,
	}
}

func (s *Escape) Name() string {
	return s.name
}

func (s *Escape) Observe(u *universe.Universe, t float64) {
	c := u.CenterOfMass()
	xs, ys := u.PositionsX(), u.PositionsY()
	s.total = len(xs)
	s.bound = 0
	for i := range xs {
		if math.Hypot(xs[i]-c.X, ys[i]-c.Y) <= s.radius {
			s.bound++
		}
	}
}

func (s *Escape) Value() float64 {
	if s.total == 0 {
		return 1.0
	}
	return float64(s.bound) / float64(s.total)
}

func (s *Escape) Reset() {
	s.bound = 0
	s.total = 0
}

// BodyCount reports the number of bodies at the last observation, which
// drops as merges happen.
type BodyCount struct {
	last int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (b *BodyCount) Name() string { return "bodies" }

func (b *BodyCount) Observe(u *universe.Universe, t float64) { b.last = u.Len() }

func (b *BodyCount) Value() float64 { return float64(b.last) }

func (b *BodyCount) Reset() { b.last = 0 }
