package universe

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Energy returns kinetic plus potential energy. The pair potential is the
// exact potential of the softened force law, so it is conserved by the
// dynamics: -G·m₁m₂/r without softening and
// -G·m₁m₂·(π/2 - atan(r/ε))/ε with softening ε.
func (u *Universe) Energy() float64 {
	return u.KineticEnergy() + u.PotentialEnergy()
}

func (u *Universe) KineticEnergy() float64 {
	ke := 0.0
	for i, m := range u.mass {
		ke += 0.5 * m * (u.vx[i]*u.vx[i] + u.vy[i]*u.vy[i])
	}
	return ke
}

// PotentialEnergy sums every pair directly. Coincident pairs are skipped,
// matching the force law.
func (u *Universe) PotentialEnergy() float64 {
	eps := u.params.Softening
	pe := 0.0
	for i := range u.mass {
		for j := i + 1; j < len(u.mass); j++ {
			rx := u.px[j] - u.px[i]
			ry := u.py[j] - u.py[i]
			r := math.Sqrt(rx*rx + ry*ry)
			if r == 0 {
				continue
			}
			gm := u.params.G * u.mass[i] * u.mass[j]
			if eps == 0 {
				pe -= gm / r
			} else {
				pe -= gm * (math.Pi/2 - math.Atan(r/eps)) / eps
			}
		}
	}
	return pe
}

func (u *Universe) TotalMass() float64 {
	m := 0.0
	for _, v := range u.mass {
		m += v
	}
	return m
}

func (u *Universe) Momentum() dynamo.Vec2 {
	var p dynamo.Vec2
	for i, m := range u.mass {
		p.X += m * u.vx[i]
		p.Y += m * u.vy[i]
	}
	return p
}

// AngularMomentum is taken about the origin.
func (u *Universe) AngularMomentum() float64 {
	L := 0.0
	for i, m := range u.mass {
		L += m * (u.px[i]*u.vy[i] - u.py[i]*u.vx[i])
	}
	return L
}

// CenterOfMass returns the zero vector for an empty universe.
func (u *Universe) CenterOfMass() dynamo.Vec2 {
	total := u.TotalMass()
	if total == 0 {
		return dynamo.Vec2{}
	}
	var c dynamo.Vec2
	for i, m := range u.mass {
		c.X += m * u.px[i]
		c.Y += m * u.py[i]
	}
	return c.Scale(1 / total)
}
