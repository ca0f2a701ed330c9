package universe_test

import (
	"encoding/json"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
)

func randomUniverse(n int, seed int64) *universe.Universe {
	r := rand.New(rand.NewSource(seed))
	u := universe.New(gravity.DefaultParams())
	for i := 0; i < n; i++ {
		_, err := u.AddMassPoint(0.5+r.Float64(),
			dynamo.Vec2{X: r.NormFloat64() * 5, Y: r.NormFloat64() * 5},
			dynamo.Vec2{X: r.NormFloat64() * 0.1, Y: r.NormFloat64() * 0.1})
		Expect(err).NotTo(HaveOccurred())
	}
	return u
}

// circularBinary puts two bodies on a circular orbit about the origin.
func circularBinary(m1, m2, a float64) *universe.Universe {
	p := gravity.DefaultParams()
	p.Softening = 0
	p.Accuracy = math.Inf(1)
	u := universe.New(p)

	M := m1 + m2
	omega := math.Sqrt(p.G * M / (a * a * a))
	r1, r2 := a*m2/M, a*m1/M
	_, err := u.AddMassPoint(m1, dynamo.Vec2{X: -r1}, dynamo.Vec2{Y: -omega * r1})
	Expect(err).NotTo(HaveOccurred())
	_, err = u.AddMassPoint(m2, dynamo.Vec2{X: r2}, dynamo.Vec2{Y: omega * r2})
	Expect(err).NotTo(HaveOccurred())
	return u
}

var _ = Describe("Universe", func() {
	var u *universe.Universe

	BeforeEach(func() {
		u = universe.New(gravity.DefaultParams())
	})

	Describe("ingestion", func() {
		It("appends bodies to every array in step", func() {
			i, err := u.AddMassPoint(2, dynamo.Vec2{X: 1, Y: 2}, dynamo.Vec2{X: 3, Y: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(i).To(Equal(0))

			Expect(u.Len()).To(Equal(1))
			Expect(u.Masses()).To(Equal([]float64{2}))
			Expect(u.PositionsX()).To(Equal([]float64{1}))
			Expect(u.PositionsY()).To(Equal([]float64{2}))
			Expect(u.VelocitiesX()).To(Equal([]float64{3}))
			Expect(u.VelocitiesY()).To(Equal([]float64{4}))
			Expect(u.PointMass(0)).To(Equal(dynamo.PointMass{
				Mass:     2,
				Position: dynamo.Vec2{X: 1, Y: 2},
				Velocity: dynamo.Vec2{X: 3, Y: 4},
			}))
		})

		It("rejects non-positive masses", func() {
			_, err := u.AddMassPoint(0, dynamo.Vec2{}, dynamo.Vec2{})
			Expect(err).To(MatchError(dynamo.ErrNonPositiveMass))
			_, err = u.AddMassPoint(-3, dynamo.Vec2{}, dynamo.Vec2{})
			Expect(err).To(MatchError(dynamo.ErrNonPositiveMass))
			Expect(u.Len()).To(BeZero())
		})

		It("rejects non-finite values", func() {
			_, err := u.AddMassPoint(1, dynamo.Vec2{X: math.NaN()}, dynamo.Vec2{})
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			_, err = u.AddMassPoint(math.Inf(1), dynamo.Vec2{}, dynamo.Vec2{})
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
		})

		It("validates configuration setters", func() {
			Expect(u.SetGravityConstant(6.674e-11)).To(Succeed())
			Expect(u.SetAccuracy(10)).To(Succeed())
			Expect(u.SetSoftening(0.5)).To(Succeed())
			Expect(u.Params().G).To(Equal(6.674e-11))
			Expect(u.Params().Accuracy).To(Equal(10.0))
			Expect(u.Params().Softening).To(Equal(0.5))

			Expect(u.SetGravityConstant(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(u.SetAccuracy(-1)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(u.SetSoftening(-1)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(u.Params().Softening).To(Equal(0.5))
		})
	})

	Describe("Derive", func() {
		It("handles an empty universe", func() {
			d := u.Derive()
			Expect(d.AX).To(BeEmpty())
			integrators.NewRK4[universe.Diff, *universe.Universe]().Step(u, 0.1)
			Expect(u.Len()).To(BeZero())
		})

		It("reports velocities as position rates", func() {
			u = randomUniverse(20, 1)
			d := u.Derive()
			Expect(d.VX).To(Equal(u.VelocitiesX()))
			Expect(d.VY).To(Equal(u.VelocitiesY()))
		})

		It("does not mutate the state", func() {
			u = randomUniverse(20, 2)
			before := u.Snapshot()
			u.Derive()
			Expect(u.Snapshot()).To(Equal(before))
		})

		It("matches direct summation at infinite accuracy", func() {
			u = randomUniverse(60, 3)
			Expect(u.SetAccuracy(math.Inf(1))).To(Succeed())
			d := u.Derive()

			m, x, y := u.Masses(), u.PositionsX(), u.PositionsY()
			p := u.Params()
			for i := range m {
				var ax, ay float64
				for j := range m {
					if i == j {
						continue
					}
					dx, dy := x[j]-x[i], y[j]-y[i]
					r2 := dx*dx + dy*dy
					f := p.G * m[j] / (r2 + p.Softening*p.Softening) / math.Sqrt(r2)
					ax += f * dx
					ay += f * dy
				}
				Expect(d.AX[i]).To(BeNumerically("~", ax, 1e-9))
				Expect(d.AY[i]).To(BeNumerically("~", ay, 1e-9))
			}
		})

		It("gives identical results in parallel", func() {
			u = randomUniverse(500, 4)
			serial := u.Derive()
			u.SetParallel(true)
			Expect(u.Derive()).To(Equal(serial))
		})
	})

	Describe("Summable arithmetic", func() {
		It("clones without aliasing", func() {
			u = randomUniverse(5, 5)
			c := u.Clone()
			c.Advance(1, c.Derive())
			Expect(c.PositionsX()).NotTo(Equal(u.PositionsX()))
		})

		It("accumulates a delta the same way Advance does", func() {
			u = randomUniverse(10, 6)
			d := u.Derive()
			a := u.Clone()
			a.Advance(0.25, d)
			b := u.Clone()
			b.Accumulate(b.Delta(d, 0.25))
			Expect(b.Snapshot()).To(Equal(a.Snapshot()))
		})
	})

	Describe("two-body circular orbit", func() {
		energyError := func(solver integrators.Solver[*universe.Universe], dt float64) float64 {
			u := circularBinary(1, 1, 1)
			e0 := u.Energy()
			period := 2 * math.Pi / math.Sqrt(2)
			steps := int(math.Round(period / dt))
			for i := 0; i < steps; i++ {
				solver.Step(u, dt)
			}
			return math.Abs((u.Energy() - e0) / e0)
		}

		It("conserves energy better as the step shrinks", func() {
			euler := integrators.NewEuler[universe.Diff, *universe.Universe]()
			rk4 := integrators.NewRK4[universe.Diff, *universe.Universe]()

			eCoarse, eFine := energyError(euler, 0.01), energyError(euler, 0.005)
			rCoarse, rFine := energyError(rk4, 0.01), energyError(rk4, 0.005)

			Expect(eFine).To(BeNumerically("<", eCoarse))
			Expect(rFine).To(BeNumerically("<", rCoarse))
			Expect(rFine).To(BeNumerically("<", eFine))

			eulerOrder := math.Log2(eCoarse / eFine)
			rk4Order := math.Log2(rCoarse / rFine)
			Expect(eulerOrder).To(BeNumerically("~", 1, 0.3))
			Expect(rk4Order).To(BeNumerically(">", 3.5))
		})

		It("conserves momentum", func() {
			u := circularBinary(3, 1, 2)
			rk4 := integrators.NewRK4[universe.Diff, *universe.Universe]()
			for i := 0; i < 200; i++ {
				rk4.Step(u, 0.01)
			}
			p := u.Momentum()
			Expect(p.X).To(BeNumerically("~", 0, 1e-12))
			Expect(p.Y).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("Snapshot", func() {
		It("round-trips to bit-identical accelerations", func() {
			u = randomUniverse(100, 7)
			raw, err := json.Marshal(u.Snapshot())
			Expect(err).NotTo(HaveOccurred())

			var s universe.Snapshot
			Expect(json.Unmarshal(raw, &s)).To(Succeed())
			restored, err := universe.FromSnapshot(s, u.Params())
			Expect(err).NotTo(HaveOccurred())

			Expect(restored.Derive()).To(Equal(u.Derive()))
		})

		It("rejects mismatched arrays", func() {
			s := universe.Snapshot{Mass: []float64{1, 2}, X: []float64{0}, Y: []float64{0, 0}, VX: []float64{0, 0}, VY: []float64{0, 0}}
			_, err := universe.FromSnapshot(s, gravity.DefaultParams())
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("rejects non-positive masses", func() {
			s := universe.Snapshot{Mass: []float64{0}, X: []float64{0}, Y: []float64{0}, VX: []float64{0}, VY: []float64{0}}
			_, err := universe.FromSnapshot(s, gravity.DefaultParams())
			Expect(err).To(MatchError(dynamo.ErrNonPositiveMass))
		})
	})

	Describe("Merge", func() {
		const density = 1.0

		It("fuses an overlapping pair conserving mass and momentum", func() {
			_, _ = u.AddMassPoint(8, dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 1, Y: 0})
			_, _ = u.AddMassPoint(1, dynamo.Vec2{X: 2.5, Y: 0}, dynamo.Vec2{X: 0, Y: 3})
			// radii 2 and 1: centers 2.5 apart overlap
			p0 := u.Momentum()

			removed, err := u.Merge(density)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(1))
			Expect(u.Len()).To(Equal(1))

			m := u.PointMass(0)
			Expect(m.Mass).To(Equal(9.0))
			Expect(m.Position.X).To(BeNumerically("~", 2.5/9, 1e-12))
			Expect(m.Momentum().X).To(BeNumerically("~", p0.X, 1e-12))
			Expect(m.Momentum().Y).To(BeNumerically("~", p0.Y, 1e-12))
		})

		It("leaves distant bodies untouched", func() {
			_, _ = u.AddMassPoint(8, dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 1, Y: 0})
			_, _ = u.AddMassPoint(1, dynamo.Vec2{X: 3.5, Y: 0}, dynamo.Vec2{X: 0, Y: 3})
			before := u.Snapshot()

			removed, err := u.Merge(density)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeZero())
			Expect(u.Snapshot()).To(Equal(before))
		})

		It("resolves chains in index order", func() {
			// A overlaps B, B overlaps C, A does not overlap C.
			_, _ = u.AddMassPoint(1, dynamo.Vec2{X: 0}, dynamo.Vec2{})
			_, _ = u.AddMassPoint(1, dynamo.Vec2{X: 1.5}, dynamo.Vec2{})
			_, _ = u.AddMassPoint(1, dynamo.Vec2{X: 3}, dynamo.Vec2{})

			removed, err := u.Merge(density)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(1))
			Expect(u.Masses()).To(Equal([]float64{2, 1}))
			Expect(u.PositionsX()).To(Equal([]float64{0.75, 3}))
			Expect(u.TotalMass()).To(Equal(3.0))
		})

		It("rejects a non-positive density", func() {
			_, err := u.Merge(0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("diagnostics", func() {
		It("computes the center of mass", func() {
			_, _ = u.AddMassPoint(1, dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{})
			_, _ = u.AddMassPoint(3, dynamo.Vec2{X: 4, Y: 8}, dynamo.Vec2{})
			Expect(u.CenterOfMass()).To(Equal(dynamo.Vec2{X: 3, Y: 6}))
			Expect(universe.New(gravity.DefaultParams()).CenterOfMass()).To(Equal(dynamo.Vec2{}))
		})

		It("matches the Newtonian potential without softening", func() {
			Expect(u.SetSoftening(0)).To(Succeed())
			_, _ = u.AddMassPoint(2, dynamo.Vec2{X: 0}, dynamo.Vec2{X: 1})
			_, _ = u.AddMassPoint(3, dynamo.Vec2{X: 2}, dynamo.Vec2{})
			Expect(u.KineticEnergy()).To(Equal(1.0))
			Expect(u.PotentialEnergy()).To(Equal(-3.0))
		})

		It("approaches the Newtonian potential as softening vanishes", func() {
			Expect(u.SetSoftening(1e-6)).To(Succeed())
			_, _ = u.AddMassPoint(2, dynamo.Vec2{X: 0}, dynamo.Vec2{})
			_, _ = u.AddMassPoint(3, dynamo.Vec2{X: 2}, dynamo.Vec2{})
			Expect(u.PotentialEnergy()).To(BeNumerically("~", -3.0, 1e-5))
		})

		It("computes angular momentum about the origin", func() {
			_, _ = u.AddMassPoint(2, dynamo.Vec2{X: 1}, dynamo.Vec2{Y: 3})
			Expect(u.AngularMomentum()).To(Equal(6.0))
		})

		It("detects invalid states", func() {
			u = randomUniverse(3, 8)
			Expect(u.IsValid()).To(BeTrue())
			u.PositionsX()[1] = math.NaN()
			Expect(u.IsValid()).To(BeFalse())
		})
	})
})
