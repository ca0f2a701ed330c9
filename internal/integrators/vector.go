package integrators

// Vector is a flat state vector driven by a derivative function. It lets
// the solvers run any small ODE without a dedicated state type.
type Vector struct {
	X []float64
	f func(x []float64) []float64
}

func NewVector(x []float64, f func(x []float64) []float64) *Vector {
	return &Vector{X: x, f: f}
}

func (v *Vector) Derive() []float64 { return v.f(v.X) }

func (v *Vector) Advance(dt float64, d []float64) {
	for i := range v.X {
		v.X[i] += dt * d[i]
	}
}

func (v *Vector) Clone() *Vector {
	x := make([]float64, len(v.X))
	copy(x, v.X)
	return &Vector{X: x, f: v.f}
}

func (v *Vector) Accumulate(delta *Vector) {
	for i := range v.X {
		v.X[i] += delta.X[i]
	}
}

func (v *Vector) Delta(d []float64, dt float64) *Vector {
	x := make([]float64, len(d))
	for i := range d {
		x[i] = d[i] * dt
	}
	return &Vector{X: x, f: v.f}
}
