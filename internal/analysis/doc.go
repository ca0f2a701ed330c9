// Package analysis measures numerical behaviour of whole simulations.
//
//   - [Convergence]: energy error against step size, with the observed
//     order of accuracy between successive step sizes
//   - [LyapunovExponent]: divergence rate of two nearly identical universes
//
// # Solver Order
//
// Halving the step of an order-p solver divides its error by about 2^p:
//
//	points, _ := analysis.Convergence(build, solver, []float64{0.02, 0.01, 0.005}, 1)
//	fmt.Println(points[len(points)-1].Order) // ~1 for Euler, ~4 for RK4
package analysis
