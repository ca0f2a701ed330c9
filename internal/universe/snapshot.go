package universe

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Snapshot is a detached copy of the ensemble's flat arrays.
type Snapshot struct {
	Mass []float64 `json:"mass"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	VX   []float64 `json:"vx"`
	VY   []float64 `json:"vy"`
}

func (s Snapshot) Len() int { return len(s.Mass) }

func (u *Universe) Snapshot() Snapshot {
	return Snapshot{
		Mass: append([]float64(nil), u.mass...),
		X:    append([]float64(nil), u.px...),
		Y:    append([]float64(nil), u.py...),
		VX:   append([]float64(nil), u.vx...),
		VY:   append([]float64(nil), u.vy...),
	}
}

// FromSnapshot rebuilds a universe from flat arrays. The arrays are copied.
func FromSnapshot(s Snapshot, p gravity.Params) (*Universe, error) {
	n := len(s.Mass)
	if len(s.X) != n || len(s.Y) != n || len(s.VX) != n || len(s.VY) != n {
		return nil, fmt.Errorf("snapshot lengths %d/%d/%d/%d/%d: %w",
			n, len(s.X), len(s.Y), len(s.VX), len(s.VY), dynamo.ErrDimensionMismatch)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	u := New(p)
	for i := 0; i < n; i++ {
		pos := dynamo.Vec2{X: s.X[i], Y: s.Y[i]}
		vel := dynamo.Vec2{X: s.VX[i], Y: s.VY[i]}
		if _, err := u.AddMassPoint(s.Mass[i], pos, vel); err != nil {
			return nil, err
		}
	}
	return u, nil
}
