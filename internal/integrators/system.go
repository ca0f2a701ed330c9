package integrators

// System is anything with a rate of change that can be stepped along it.
// D is the type of the rate (the "difference").
type System[D any] interface {
	// Derive returns the instantaneous rate of change without mutating.
	Derive() D
	// Advance adds dt times d to the receiver in place.
	Advance(dt float64, d D)
}

// Summable is the arithmetic RK4 needs on top of System: an independent
// copy, in-place summation, and turning a scaled rate into a state delta.
type Summable[S any, D any] interface {
	System[D]
	Clone() S
	Accumulate(delta S)
	Delta(d D, dt float64) S
}

// Solver progresses a state by dt in place.
type Solver[S any] interface {
	Step(s S, dt float64)
	Name() string
}
