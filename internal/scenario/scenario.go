// Package scenario builds initial universes for named set-ups.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
)

const (
	DefaultBodies      = 64
	DefaultCentralMass = 1000.0
	DefaultBodyMass    = 1.0
	DefaultRadius      = 10.0
)

// Params shapes a scenario. Builders read only the fields they need.
type Params struct {
	Bodies      int
	Seed        int64
	CentralMass float64
	BodyMass    float64
	Radius      float64
	Explicit    []dynamo.PointMass
}

func DefaultParams() Params {
	return Params{
		Bodies:      DefaultBodies,
		CentralMass: DefaultCentralMass,
		BodyMass:    DefaultBodyMass,
		Radius:      DefaultRadius,
	}
}

// Builder creates a populated universe under the given gravity parameters.
type Builder func(p Params, g gravity.Params) (*universe.Universe, error)

// CircularSpeed is the speed of a circular orbit of radius r about mass m
// under the softened force law.
func CircularSpeed(m, r float64, g gravity.Params) float64 {
	if r <= 0 {
		return 0
	}
	eps2 := g.Softening * g.Softening
	return math.Sqrt(g.G * m * r * r / (r*r + eps2) / r)
}

// TwoBody places CentralMass and BodyMass Radius apart on a circular orbit
// about their common center of mass, which sits at rest at the origin.
func TwoBody(p Params, g gravity.Params) (*universe.Universe, error) {
	if p.Radius <= 0 {
		return nil, fmt.Errorf("%w: two_body radius %g", dynamo.ErrParameterBounds, p.Radius)
	}
	m1, m2 := p.CentralMass, p.BodyMass
	total := m1 + m2
	v := CircularSpeed(total, p.Radius, g)

	u := universe.New(g)
	if _, err := u.AddMassPoint(m1,
		dynamo.Vec2{X: -p.Radius * m2 / total},
		dynamo.Vec2{Y: -v * m2 / total}); err != nil {
		return nil, err
	}
	if _, err := u.AddMassPoint(m2,
		dynamo.Vec2{X: p.Radius * m1 / total},
		dynamo.Vec2{Y: v * m1 / total}); err != nil {
		return nil, err
	}
	return u, nil
}

// Ring places Bodies evenly on a circle of Radius around a central mass,
// each moving at the circular speed of the central mass alone.
func Ring(p Params, g gravity.Params) (*universe.Universe, error) {
	if err := checkBodies(p); err != nil {
		return nil, err
	}
	u := universe.New(g)
	if _, err := u.AddMassPoint(p.CentralMass, dynamo.Vec2{}, dynamo.Vec2{}); err != nil {
		return nil, err
	}

	v := CircularSpeed(p.CentralMass, p.Radius, g)
	for i := 0; i < p.Bodies; i++ {
		angle := 2 * math.Pi * float64(i) / float64(p.Bodies)
		if err := addOrbiting(u, p.BodyMass, p.Radius, angle, v); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Cluster scatters Bodies uniformly over a disc of Radius, at rest. The
// layout is fixed by Seed.
func Cluster(p Params, g gravity.Params) (*universe.Universe, error) {
	if err := checkBodies(p); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Seed))
	u := universe.New(g)

	for i := 0; i < p.Bodies; i++ {
		r := p.Radius * math.Sqrt(rng.Float64())
		angle := 2 * math.Pi * rng.Float64()
		pos := dynamo.Vec2{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
		if _, err := u.AddMassPoint(p.BodyMass, pos, dynamo.Vec2{}); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Disk puts a central mass at the origin and Bodies on circular orbits at
// random radii between a fifth of Radius and Radius.
func Disk(p Params, g gravity.Params) (*universe.Universe, error) {
	if err := checkBodies(p); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Seed))
	u := universe.New(g)
	if _, err := u.AddMassPoint(p.CentralMass, dynamo.Vec2{}, dynamo.Vec2{}); err != nil {
		return nil, err
	}

	inner := p.Radius / 5
	for i := 0; i < p.Bodies; i++ {
		r := inner + (p.Radius-inner)*rng.Float64()
		angle := 2 * math.Pi * rng.Float64()
		if err := addOrbiting(u, p.BodyMass, r, angle, CircularSpeed(p.CentralMass, r, g)); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Explicit adds the listed bodies as given.
func Explicit(p Params, g gravity.Params) (*universe.Universe, error) {
	u := universe.New(g)
	for i, b := range p.Explicit {
		if _, err := u.AddMassPoint(b.Mass, b.Position, b.Velocity); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	return u, nil
}

// addOrbiting adds a body at radius r and angle, moving counter-clockwise
// at speed v.
func addOrbiting(u *universe.Universe, mass, r, angle, v float64) error {
	sin, cos := math.Sincos(angle)
	pos := dynamo.Vec2{X: r * cos, Y: r * sin}
	vel := dynamo.Vec2{X: -v * sin, Y: v * cos}
	_, err := u.AddMassPoint(mass, pos, vel)
	return err
}

func checkBodies(p Params) error {
	if p.Bodies < 0 {
		return fmt.Errorf("%w: bodies %d", dynamo.ErrParameterBounds, p.Bodies)
	}
	if p.Radius <= 0 {
		return fmt.Errorf("%w: radius %g", dynamo.ErrParameterBounds, p.Radius)
	}
	return nil
}
