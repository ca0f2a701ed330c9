package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}

	assert.Equal(t, Vec2{5, 8}, a.Add(b))
	assert.Equal(t, Vec2{3, 4}, b.Sub(a))
	assert.Equal(t, Vec2{2, 4}, a.Scale(2))
	assert.Equal(t, 16.0, a.Dot(b))
	assert.Equal(t, 25.0, b.Sub(a).Norm2())
	assert.Equal(t, 5.0, b.Sub(a).Norm())
}

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", Vec2{1, -2}, true},
		{"NaN", Vec2{math.NaN(), 0}, false},
		{"+Inf", Vec2{0, math.Inf(1)}, false},
		{"-Inf", Vec2{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.v.IsValid())
		})
	}
}

func TestPointMass_Momentum(t *testing.T) {
	p := PointMass{Mass: 3, Velocity: Vec2{1, -2}}
	assert.Equal(t, Vec2{3, -6}, p.Momentum())
}

func TestSimulationError_Unwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.3, Wrapped: ErrInvalidState}
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, ErrInvalidState.Error(), err.Error())
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		seen := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			assert.Equalf(t, int32(1), c, "n=%d index %d visited %d times", n, i, c)
		}
	}
}
