// Package integrators provides time-stepping schemes that know nothing
// about the physics they advance.
//
// A state type opts in by implementing [System] (enough for [Euler]) or
// [Summable] (needed by [RK4]):
//
//	solver := integrators.NewRK4[universe.Diff, *universe.Universe]()
//	for i := 0; i < steps; i++ {
//	    solver.Step(u, dt)
//	}
package integrators
