// Package universe holds the simulated ensemble of point masses.
//
// A [Universe] stores mass, position and velocity as parallel arrays and
// implements [integrators.Summable] over [Diff], so either solver can step
// it. Each [Universe.Derive] builds a new quadtree and runs the gravity
// approximation for every body; nothing is cached between evaluations.
//
// # Readout
//
// [Universe.Masses], [Universe.PositionsX] and friends expose the live
// arrays for renderers. They are index-aligned, read-only by contract, and
// invalidated by [Universe.Merge], which compacts indices.
package universe
