package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/sirupsen/logrus"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
	universe  *universe.Universe
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// Setup validates the configuration, builds the initial universe and the
// simulator with the default metrics attached.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	build, err := e.registry.GetScenario(e.cfg.Scenario)
	if err != nil {
		return err
	}
	solver, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	params := e.cfg.ScenarioParams()
	u, err := build(params, e.cfg.GravityParams())
	if err != nil {
		return fmt.Errorf("build %s: %w", e.cfg.Scenario, err)
	}
	u.SetParallel(e.cfg.Parallel)

	e.universe = u
	e.simulator = sim.New(solver)
	for _, m := range e.registry.DefaultMetrics(params) {
		e.simulator.AddMetric(m)
	}

	logrus.Debugf("experiment: %s with %d bodies, %s, dt=%g", e.cfg.Scenario, u.Len(), solver.Name(), e.cfg.Dt)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.universe, e.cfg.SimConfig())
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Universe() *universe.Universe {
	return e.universe
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
