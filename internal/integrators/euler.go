package integrators

// Euler is the first-order forward Euler scheme.
type Euler[D any, S System[D]] struct{}

func NewEuler[D any, S System[D]]() *Euler[D, S] {
	return &Euler[D, S]{}
}

func (e *Euler[D, S]) Name() string { return "euler" }

func (e *Euler[D, S]) Step(s S, dt float64) {
	s.Advance(dt, s.Derive())
}
