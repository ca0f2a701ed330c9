package universe

import (
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/quadtree"
)

// Diff is the rate of change of a Universe: VX/VY are the position rates
// and AX/AY the velocity rates, index-aligned with the bodies.
type Diff struct {
	VX, VY []float64
	AX, AY []float64
}

// Derive builds a fresh tree from the current positions and queries it for
// every body. The tree does not outlive the call.
func (u *Universe) Derive() Diff {
	n := len(u.mass)
	d := Diff{
		VX: append([]float64(nil), u.vx...),
		VY: append([]float64(nil), u.vy...),
		AX: make([]float64, n),
		AY: make([]float64, n),
	}

	bodies := u.Bodies()
	root := quadtree.Build(bodies)
	if u.parallel {
		gravity.AccelerationsParallel(bodies, root, u.params, d.AX, d.AY)
	} else {
		gravity.Accelerations(bodies, root, u.params, d.AX, d.AY)
	}
	return d
}

// Advance moves every body along d for dt.
func (u *Universe) Advance(dt float64, d Diff) {
	for i := range u.mass {
		u.px[i] += dt * d.VX[i]
		u.py[i] += dt * d.VY[i]
		u.vx[i] += dt * d.AX[i]
		u.vy[i] += dt * d.AY[i]
	}
}

// Clone returns an independent copy sharing no arrays with u.
func (u *Universe) Clone() *Universe {
	return &Universe{
		mass:     append([]float64(nil), u.mass...),
		px:       append([]float64(nil), u.px...),
		py:       append([]float64(nil), u.py...),
		vx:       append([]float64(nil), u.vx...),
		vy:       append([]float64(nil), u.vy...),
		params:   u.params,
		parallel: u.parallel,
	}
}

// Delta scales d by dt into a state increment for Accumulate. Masses are
// not part of an increment.
func (u *Universe) Delta(d Diff, dt float64) *Universe {
	n := len(d.VX)
	delta := &Universe{
		px:     make([]float64, n),
		py:     make([]float64, n),
		vx:     make([]float64, n),
		vy:     make([]float64, n),
		params: u.params,
	}
	for i := 0; i < n; i++ {
		delta.px[i] = d.VX[i] * dt
		delta.py[i] = d.VY[i] * dt
		delta.vx[i] = d.AX[i] * dt
		delta.vy[i] = d.AY[i] * dt
	}
	return delta
}

// Accumulate adds the positions and velocities of delta to u.
func (u *Universe) Accumulate(delta *Universe) {
	for i := range u.mass {
		u.px[i] += delta.px[i]
		u.py[i] += delta.py[i]
		u.vx[i] += delta.vx[i]
		u.vy[i] += delta.vy[i]
	}
}

// Bodies returns the static mass points the tree is built from.
func (u *Universe) Bodies() []quadtree.Body {
	bodies := make([]quadtree.Body, len(u.mass))
	for i := range bodies {
		bodies[i].Mass = u.mass[i]
		bodies[i].Position.X = u.px[i]
		bodies[i].Position.Y = u.py[i]
	}
	return bodies
}
