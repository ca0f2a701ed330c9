package universe

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Universe is the authoritative ensemble of point masses, stored as
// parallel arrays: index i of every slice describes the same body.
type Universe struct {
	mass   []float64
	px, py []float64
	vx, vy []float64

	params   gravity.Params
	parallel bool
}

// New returns an empty universe with the given force parameters.
func New(p gravity.Params) *Universe {
	return &Universe{params: p}
}

// AddMassPoint appends a body and returns its index.
func (u *Universe) AddMassPoint(mass float64, pos, vel dynamo.Vec2) (int, error) {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || !pos.IsValid() || !vel.IsValid() {
		return -1, fmt.Errorf("body %d: %w", len(u.mass), dynamo.ErrInvalidState)
	}
	if mass <= 0 {
		return -1, fmt.Errorf("body %d has mass %v: %w", len(u.mass), mass, dynamo.ErrNonPositiveMass)
	}

	u.mass = append(u.mass, mass)
	u.px = append(u.px, pos.X)
	u.py = append(u.py, pos.Y)
	u.vx = append(u.vx, vel.X)
	u.vy = append(u.vy, vel.Y)
	return len(u.mass) - 1, nil
}

func (u *Universe) Params() gravity.Params { return u.params }

// SetParams replaces every force parameter at once.
func (u *Universe) SetParams(p gravity.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	u.params = p
	return nil
}

func (u *Universe) SetGravityConstant(g float64) error {
	p := u.params
	p.G = g
	return u.SetParams(p)
}

func (u *Universe) SetAccuracy(accuracy float64) error {
	p := u.params
	p.Accuracy = accuracy
	return u.SetParams(p)
}

func (u *Universe) SetSoftening(softening float64) error {
	p := u.params
	p.Softening = softening
	return u.SetParams(p)
}

// SetParallel enables fanning the per-body force queries out across
// goroutines. Results are identical to the serial path.
func (u *Universe) SetParallel(on bool) { u.parallel = on }

func (u *Universe) Parallel() bool { return u.parallel }

// Len is the number of bodies.
func (u *Universe) Len() int { return len(u.mass) }

// The readout accessors return the live arrays for zero-copy rendering.
// Callers must not modify them, and must not hold them across a tick that
// merges bodies.

func (u *Universe) Masses() []float64      { return u.mass }
func (u *Universe) PositionsX() []float64  { return u.px }
func (u *Universe) PositionsY() []float64  { return u.py }
func (u *Universe) VelocitiesX() []float64 { return u.vx }
func (u *Universe) VelocitiesY() []float64 { return u.vy }

// PointMass returns a copy of body i.
func (u *Universe) PointMass(i int) dynamo.PointMass {
	return dynamo.PointMass{
		Mass:     u.mass[i],
		Position: dynamo.Vec2{X: u.px[i], Y: u.py[i]},
		Velocity: dynamo.Vec2{X: u.vx[i], Y: u.vy[i]},
	}
}

// IsValid reports whether every position and velocity is finite.
func (u *Universe) IsValid() bool {
	for _, s := range [][]float64{u.mass, u.px, u.py, u.vx, u.vy} {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
