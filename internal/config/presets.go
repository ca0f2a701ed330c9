package config

import (
	"math"
	"sort"
)

var Presets = map[string]map[string]*Config{
	"two_body": {
		"circular": {
			Scenario: "two_body", Integrator: "rk4", Dt: 0.01, Duration: 20.0, RecordEvery: 5,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0, TraversalOffset: 1},
			Setup:   SetupConfig{CentralMass: 1, BodyMass: 1, Radius: 1},
		},
		"euler": {
			Scenario: "two_body", Integrator: "euler", Dt: 0.01, Duration: 20.0, RecordEvery: 5,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0, TraversalOffset: 1},
			Setup:   SetupConfig{CentralMass: 1, BodyMass: 1, Radius: 1},
		},
		"planet": {
			Scenario: "two_body", Integrator: "rk4", Dt: 0.01, Duration: 50.0, RecordEvery: 10,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0.01, TraversalOffset: 1},
			Setup:   SetupConfig{CentralMass: 1000, BodyMass: 1, Radius: 10},
		},
	},
	"ring": {
		"default": {
			Scenario: "ring", Integrator: "rk4", Dt: 0.01, Duration: 20.0, RecordEvery: 10,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0.05, TraversalOffset: 1},
			Setup:   SetupConfig{Bodies: 32, CentralMass: 1000, BodyMass: 0.1, Radius: 10},
		},
		"heavy": {
			Scenario: "ring", Integrator: "rk4", Dt: 0.005, Duration: 20.0, RecordEvery: 20,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0.05, TraversalOffset: 1},
			Merge:   MergeConfig{Enabled: true, Density: 0.5},
			Setup:   SetupConfig{Bodies: 24, CentralMass: 100, BodyMass: 5, Radius: 8},
		},
	},
	"cluster": {
		"cold": {
			Scenario: "cluster", Integrator: "rk4", Dt: 0.005, Duration: 10.0, RecordEvery: 20, Seed: 1,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0.1, TraversalOffset: 1},
			Merge:   MergeConfig{Enabled: true, Density: 1},
			Setup:   SetupConfig{Bodies: 200, BodyMass: 1, Radius: 20},
		},
		"small": {
			Scenario: "cluster", Integrator: "rk4", Dt: 0.01, Duration: 10.0, RecordEvery: 10, Seed: 1,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0.1, TraversalOffset: 1},
			Setup:   SetupConfig{Bodies: 50, BodyMass: 1, Radius: 10},
		},
	},
	"disk": {
		"galaxy": {
			Scenario: "disk", Integrator: "rk4", Dt: 0.01, Duration: 30.0, RecordEvery: 10, Seed: 1,
			Gravity: GravityConfig{G: 1, Accuracy: 4, Softening: 0.1, TraversalOffset: 1},
			Setup:   SetupConfig{Bodies: 300, CentralMass: 1000, BodyMass: 0.05, Radius: 20},
		},
		"coarse": {
			Scenario: "disk", Integrator: "euler", Dt: 0.01, Duration: 30.0, RecordEvery: 10, Seed: 1,
			Gravity: GravityConfig{G: 1, Accuracy: 1, Softening: 0.1, TraversalOffset: 1},
			Setup:   SetupConfig{Bodies: 300, CentralMass: 1000, BodyMass: 0.05, Radius: 20},
		},
	},
	"explicit": {
		// Periodic three-body orbit of Chenciner and Montgomery.
		"figure_eight": {
			Scenario: "explicit", Integrator: "rk4", Dt: 0.001, Duration: 6.3259, RecordEvery: 20,
			Gravity: GravityConfig{G: 1, Accuracy: math.Inf(1), Softening: 0, TraversalOffset: 1},
			Bodies: []BodyConfig{
				{Mass: 1, X: -0.97000436, Y: 0.24308753, VX: 0.466203685, VY: 0.43236573},
				{Mass: 1, X: 0.97000436, Y: -0.24308753, VX: 0.466203685, VY: 0.43236573},
				{Mass: 1, VX: -0.93240737, VY: -0.86473146},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListScenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
