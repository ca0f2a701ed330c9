package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/sirupsen/logrus"
)

type Simulator struct {
	solver    Solver
	metrics   []Metric
	observers []Observer
}

func New(solver Solver) *Simulator {
	return &Simulator{
		solver:    solver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Solver() Solver { return s.solver }

// Tick advances u by dt and, when cfg enables it, runs the merge pass. It
// returns the number of bodies merged away.
func (s *Simulator) Tick(u *universe.Universe, dt float64, cfg Config) (int, error) {
	s.solver.Step(u, dt)
	if !cfg.Merge {
		return 0, nil
	}
	return u.Merge(cfg.MergeDensity)
}

// Run steps u in place for cfg.Duration. Metrics observe the state before
// every tick and once more after the last one. On a NaN/Inf state the run
// stops early, the final observation is skipped, and the returned result
// carries a *dynamo.SimulationError.
func (s *Simulator) Run(ctx context.Context, u *universe.Universe, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Frames:  make([]Frame, 0, frameCapacity(steps, cfg.RecordEvery)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Frames = append(result.Frames, Frame{Time: t, State: u.Snapshot()})
	initialEnergy := u.Energy()

	logrus.Debugf("sim: %s run of %d bodies, %d steps of %g", s.solver.Name(), u.Len(), steps, cfg.Dt)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for _, m := range s.metrics {
			m.Observe(u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(u, t)
		}

		merged, err := s.Tick(u, cfg.Dt, cfg)
		if err != nil {
			return result, err
		}
		result.Merged += merged

		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !u.IsValid() {
			err := &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
			logrus.Warnf("sim: invalid state at step %d (t=%.4f)", i, t)
			result.Errors = append(result.Errors, err)
			break
		}

		last := i == steps-1
		if last || (cfg.RecordEvery > 0 && (i+1)%cfg.RecordEvery == 0) {
			result.Frames = append(result.Frames, Frame{Time: t, State: u.Snapshot()})
		}
	}

	if len(result.Errors) == 0 {
		for _, m := range s.metrics {
			m.Observe(u, t)
		}
	}

	finalEnergy := u.Energy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps u until cfg.Duration elapses or callback returns
// false. It records nothing.
func (s *Simulator) RunWithCallback(ctx context.Context, u *universe.Universe, cfg Config, callback func(*universe.Universe, float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt
		if !callback(u, t) {
			return nil
		}

		if _, err := s.Tick(u, cfg.Dt, cfg); err != nil {
			return err
		}

		if cfg.ValidateState && !u.IsValid() {
			return &dynamo.SimulationError{Step: i, Time: t + cfg.Dt, Wrapped: dynamo.ErrInvalidState}
		}
	}

	return nil
}

func frameCapacity(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}
