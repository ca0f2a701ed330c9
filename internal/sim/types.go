package sim

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
)

// Solver is the integration scheme driving a universe.
type Solver = integrators.Solver[*universe.Universe]

type Metric interface {
	Name() string
	Observe(u *universe.Universe, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(u *universe.Universe, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
	// Merge enables the post-tick merge pass with MergeDensity.
	Merge        bool
	MergeDensity float64
	// ValidateState stops the run on the first NaN/Inf.
	ValidateState bool
	// RecordEvery keeps one frame every RecordEvery ticks; 0 keeps only the
	// first and last frames.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		MergeDensity:  1.0,
		ValidateState: true,
		RecordEvery:   1,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if c.Merge && !(c.MergeDensity > 0) {
		return fmt.Errorf("merge density must be positive, got %f: %w", c.MergeDensity, dynamo.ErrParameterBounds)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d: %w", c.RecordEvery, dynamo.ErrParameterBounds)
	}
	return nil
}

// Frame is the ensemble at one instant.
type Frame struct {
	Time  float64           `json:"time"`
	State universe.Snapshot `json:"state"`
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Merged      int
	Errors      []error
}
