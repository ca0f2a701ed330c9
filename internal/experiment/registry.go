package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
)

type Registry struct {
	scenarios   map[string]scenario.Builder
	integrators map[string]func() sim.Solver
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios:   make(map[string]scenario.Builder),
		integrators: make(map[string]func() sim.Solver),
	}

	r.scenarios["two_body"] = scenario.TwoBody
	r.scenarios["ring"] = scenario.Ring
	r.scenarios["cluster"] = scenario.Cluster
	r.scenarios["disk"] = scenario.Disk
	r.scenarios["explicit"] = scenario.Explicit

	r.integrators["euler"] = func() sim.Solver {
		return integrators.NewEuler[universe.Diff, *universe.Universe]()
	}
	r.integrators["rk4"] = func() sim.Solver {
		return integrators.NewRK4[universe.Diff, *universe.Universe]()
	}

	return r
}

func (r *Registry) GetScenario(name string) (scenario.Builder, error) {
	b, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", name, dynamo.ErrUnknownName)
	}
	return b, nil
}

func (r *Registry) GetIntegrator(name string) (sim.Solver, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("integrator %q: %w", name, dynamo.ErrUnknownName)
	}
	return fn(), nil
}

func (r *Registry) ListScenarios() []string {
	return sortedKeys(r.scenarios)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

// DefaultMetrics are attached to every experiment. Escape uses a radius of
// ten times the scenario radius.
func (r *Registry) DefaultMetrics(p scenario.Params) []sim.Metric {
	return []sim.Metric{
		metrics.NewMeanEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewEscape(10 * p.Radius),
		metrics.NewBodyCount(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
