package dynamo

import "math"

// Vec2 is a 2D coordinate or vector. Positions, velocities and
// accelerations all use it; the field they live in names the dimension.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Norm2 returns the squared length.
func (v Vec2) Norm2() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Norm() float64 { return math.Sqrt(v.Norm2()) }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// PointMass is a single body of the ensemble.
type PointMass struct {
	Mass     float64
	Position Vec2
	Velocity Vec2
}

// Momentum returns mass times velocity.
func (p PointMass) Momentum() Vec2 { return p.Velocity.Scale(p.Mass) }
