// Package dynamo provides the primitives shared by every layer of the
// gravity simulation:
//
//   - [Vec2]: 2D coordinate/vector arithmetic
//   - [PointMass]: one body of the ensemble
//   - [SimulationError] and the package sentinel errors
//   - [ParallelFor]: chunked fan-out for read-only per-body work
//
// # Errors
//
// Errors returned by the simulation wrap one of the sentinels, so callers
// test for them with [errors.Is]:
//
//	if errors.Is(err, dynamo.ErrInvalidState) {
//	    // state diverged
//	}
package dynamo
