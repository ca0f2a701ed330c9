package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
)

// ConvergencePoint is the outcome of one run at a fixed step size.
type ConvergencePoint struct {
	Dt          float64
	Steps       int
	EnergyError float64
	// Order is log(err_prev/err)/log(dt_prev/dt) against the previous
	// point, NaN for the first.
	Order float64
}

// Convergence integrates a fresh universe from build for duration at every
// step size in dts and reports the relative energy error of each run.
func Convergence(
	build func() (*universe.Universe, error),
	solver integrators.Solver[*universe.Universe],
	dts []float64,
	duration float64,
) ([]ConvergencePoint, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %g", dynamo.ErrParameterBounds, duration)
	}

	points := make([]ConvergencePoint, 0, len(dts))
	for i, dt := range dts {
		if dt <= 0 {
			return nil, fmt.Errorf("%w: dt %g", dynamo.ErrParameterBounds, dt)
		}
		u, err := build()
		if err != nil {
			return nil, err
		}

		e0 := u.Energy()
		steps := int(math.Round(duration / dt))
		for s := 0; s < steps; s++ {
			solver.Step(u, dt)
		}
		if !u.IsValid() {
			return nil, &dynamo.SimulationError{Step: steps, Time: duration, Wrapped: dynamo.ErrInvalidState}
		}

		p := ConvergencePoint{
			Dt:          dt,
			Steps:       steps,
			EnergyError: relative(u.Energy(), e0),
			Order:       math.NaN(),
		}
		if i > 0 {
			p.Order = ObservedOrder(points[i-1].Dt, points[i-1].EnergyError, dt, p.EnergyError)
		}
		points = append(points, p)
	}
	return points, nil
}

// ObservedOrder estimates the order of accuracy from two runs.
func ObservedOrder(dt1, err1, dt2, err2 float64) float64 {
	if err1 <= 0 || err2 <= 0 || dt1 == dt2 {
		return math.NaN()
	}
	return math.Log(err1/err2) / math.Log(dt1/dt2)
}

func relative(value, reference float64) float64 {
	if reference == 0 {
		return math.Abs(value)
	}
	return math.Abs(value-reference) / math.Abs(reference)
}
