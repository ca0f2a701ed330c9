package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
	"gonum.org/v1/gonum/floats"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos; an
// integrable orbit tends to zero as duration grows.
//
// The first body of a clone is displaced along x by perturbation. Both
// copies are stepped together, and after every step the log growth of their
// phase-space separation is accumulated and the separation is rescaled back
// to perturbation. The sum is divided by the simulated time.
func LyapunovExponent(
	u *universe.Universe,
	solver integrators.Solver[*universe.Universe],
	dt, duration float64,
	perturbation float64,
) float64 {
	if u.Len() == 0 || perturbation <= 0 || dt <= 0 {
		return 0
	}
	steps := int(math.Round(duration / dt))
	if steps <= 0 {
		return 0
	}

	x := u.Clone()
	xp := u.Clone()
	xp.PositionsX()[0] += perturbation

	d0 := perturbation
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		solver.Step(x, dt)
		solver.Step(xp, dt)

		sep := separation(x, xp)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return math.NaN()
		}
		sumLog += math.Log(sep / d0)
		renormalize(x, xp, d0/sep)
	}

	return sumLog / (float64(steps) * dt)
}

func separation(a, b *universe.Universe) float64 {
	sum := 0.0
	for _, pair := range phase(a, b) {
		d := floats.Distance(pair[0], pair[1], 2)
		sum += d * d
	}
	return math.Sqrt(sum)
}

// renormalize moves b toward a so their separation is scaled by scale.
func renormalize(a, b *universe.Universe, scale float64) {
	for _, pair := range phase(a, b) {
		floats.Sub(pair[1], pair[0])
		floats.Scale(scale, pair[1])
		floats.Add(pair[1], pair[0])
	}
}

func phase(a, b *universe.Universe) [4][2][]float64 {
	return [4][2][]float64{
		{a.PositionsX(), b.PositionsX()},
		{a.PositionsY(), b.PositionsY()},
		{a.VelocitiesX(), b.VelocitiesX()},
		{a.VelocitiesY(), b.VelocitiesY()},
	}
}
