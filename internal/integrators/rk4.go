package integrators

// RK4 is the classical fixed-step fourth-order Runge-Kutta scheme. The
// intermediate states are throwaway clones; only the final four
// accumulations touch the state being stepped.
type RK4[D any, S Summable[S, D]] struct{}

func NewRK4[D any, S Summable[S, D]]() *RK4[D, S] {
	return &RK4[D, S]{}
}

func (r *RK4[D, S]) Name() string { return "rk4" }

func (r *RK4[D, S]) Step(s S, dt float64) {
	half := dt * 0.5

	k1 := s.Derive()

	s2 := s.Clone()
	s2.Advance(half, k1)
	k2 := s2.Derive()

	s3 := s.Clone()
	s3.Advance(half, k2)
	k3 := s3.Derive()

	s4 := s.Clone()
	s4.Advance(dt, k3)
	k4 := s4.Derive()

	s.Accumulate(s.Delta(k1, dt*(1.0/6.0)))
	s.Accumulate(s.Delta(k2, dt*(2.0/6.0)))
	s.Accumulate(s.Delta(k3, dt*(2.0/6.0)))
	s.Accumulate(s.Delta(k4, dt*(1.0/6.0)))
}
