package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/sirupsen/logrus"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of parameter values and keeps the
// one minimising a result metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination. Combinations whose experiment fails to
// build or run are recorded with their error and skipped. A metric of
// "energy_drift_final" reads the run's end-to-end drift instead of a
// metric. Cancelling ctx stops the search and returns the best so far.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	s := &search{
		grid:   g,
		build:  buildExperiment,
		metric: metricName,
		best:   math.Inf(1),
	}
	s.recurse(ctx, 0, make(map[string]float64))

	if s.bestParams == nil {
		return nil, math.Inf(1), s.trials, fmt.Errorf("grid search: no successful trial for %s", metricName)
	}
	return s.bestParams, s.best, s.trials, ctx.Err()
}

type search struct {
	grid       *GridSearch
	build      func(map[string]float64) (*experiment.Experiment, error)
	metric     string
	best       float64
	bestParams map[string]float64
	trials     []Trial
}

func (s *search) recurse(ctx context.Context, depth int, current map[string]float64) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(s.grid.paramNames) {
		s.evaluate(ctx, current)
		return
	}

	paramName := s.grid.paramNames[depth]
	for _, val := range s.grid.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		s.recurse(ctx, depth+1, newParams)
	}
}

func (s *search) evaluate(ctx context.Context, params map[string]float64) {
	trial := Trial{Params: params, Value: math.NaN()}
	defer func() { s.trials = append(s.trials, trial) }()

	exp, err := s.build(params)
	if err == nil {
		err = exp.Setup()
	}
	if err != nil {
		trial.Err = err
		return
	}

	result, err := exp.Run(ctx)
	if err != nil {
		trial.Err = err
		return
	}
	if len(result.Errors) > 0 {
		trial.Err = result.Errors[0]
		return
	}

	val, ok := result.Metrics[s.metric]
	if s.metric == "energy_drift_final" {
		val, ok = result.EnergyDrift, true
	}
	if !ok {
		trial.Err = fmt.Errorf("no metric %q", s.metric)
		return
	}
	trial.Value = val

	logrus.Debugf("optim: %v -> %s=%g", params, s.metric, val)
	if val < s.best {
		s.best = val
		s.bestParams = params
	}
}
