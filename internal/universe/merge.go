package universe

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/sirupsen/logrus"
)

// Radius is the radius of a sphere of the given mass and uniform density.
func Radius(mass, density float64) float64 {
	return math.Cbrt(mass / density)
}

// Merge treats every body as a uniform sphere of the given density and
// fuses overlapping bodies, conserving mass and momentum. It returns the
// number of bodies removed.
//
// Bodies are resolved greedily: the first remaining body absorbs every
// remaining body it overlaps, judged against its own pre-merge position and
// radius, and the process repeats on what is left. When three or more
// bodies overlap in a chain the outcome depends on index order. Indices are
// compacted afterwards, so they are not stable across a merging tick.
func (u *Universe) Merge(density float64) (int, error) {
	if !(density > 0) || math.IsInf(density, 0) {
		return 0, fmt.Errorf("merge density %v: %w", density, dynamo.ErrParameterBounds)
	}

	n := len(u.mass)
	if n < 2 {
		return 0, nil
	}

	radius := make([]float64, n)
	for i, m := range u.mass {
		radius[i] = Radius(m, density)
	}

	absorbed := make([]bool, n)
	out := &Universe{params: u.params, parallel: u.parallel}
	for i := 0; i < n; i++ {
		if absorbed[i] {
			continue
		}

		m := u.mass[i]
		px, py := u.px[i]*m, u.py[i]*m
		vx, vy := u.vx[i]*m, u.vy[i]*m
		for j := i + 1; j < n; j++ {
			if absorbed[j] || !u.overlaps(i, j, radius[i]+radius[j]) {
				continue
			}
			absorbed[j] = true
			mj := u.mass[j]
			m += mj
			px += u.px[j] * mj
			py += u.py[j] * mj
			vx += u.vx[j] * mj
			vy += u.vy[j] * mj
		}

		out.mass = append(out.mass, m)
		out.px = append(out.px, px/m)
		out.py = append(out.py, py/m)
		out.vx = append(out.vx, vx/m)
		out.vy = append(out.vy, vy/m)
	}

	removed := n - len(out.mass)
	if removed > 0 {
		logrus.Infof("universe: merged %d bodies, %d remain", removed, len(out.mass))
		*u = *out
	}
	return removed, nil
}

func (u *Universe) overlaps(i, j int, reach float64) bool {
	dx := u.px[j] - u.px[i]
	dy := u.py[j] - u.py[i]
	return dx*dx+dy*dy < reach*reach
}
