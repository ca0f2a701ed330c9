package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/universe"
	"gonum.org/v1/gonum/stat"
)

// MeanEnergy averages the total energy over every observed step.
type MeanEnergy struct {
	name    string
	samples []float64
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "energy"}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(u *universe.Universe, t float64) {
	e.samples = append(e.samples, u.Energy())
}

func (e *MeanEnergy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

func (e *MeanEnergy) Reset() {
	e.samples = e.samples[:0]
}

// EnergyDrift tracks the largest relative departure from the first
// observed energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u *universe.Universe, t float64) {
	energy := u.Energy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
