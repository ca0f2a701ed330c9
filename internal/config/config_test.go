package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ring", cfg.Scenario)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Equal(t, 1.0, cfg.Gravity.TraversalOffset)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("two_body", "circular")
	require.NotNil(t, cfg)
	assert.Equal(t, "two_body", cfg.Scenario)
	assert.Equal(t, 1.0, cfg.Setup.Radius)

	cfg.Setup.Radius = 99
	assert.Equal(t, 1.0, GetPreset("two_body", "circular").Setup.Radius, "presets are copied")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("ring", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "default"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"circular", "euler", "planet"}, ListPresets("two_body"))
	assert.Nil(t, ListPresets("nonexistent"))
	assert.Contains(t, ListScenarios(), "explicit")
}

func TestPresetsAreValid(t *testing.T) {
	for _, scenario := range ListScenarios() {
		for _, name := range ListPresets(scenario) {
			cfg := GetPreset(scenario, name)
			assert.Equal(t, scenario, cfg.Scenario, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", scenario, name)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"negative record", func(c *Config) { c.RecordEvery = -1 }},
		{"merge without density", func(c *Config) { c.Merge = MergeConfig{Enabled: true} }},
		{"zero G", func(c *Config) { c.Gravity.G = 0 }},
		{"negative accuracy", func(c *Config) { c.Gravity.Accuracy = -1 }},
		{"negative softening", func(c *Config) { c.Gravity.Softening = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), dynamo.ErrParameterBounds)
		})
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("explicit", "figure_eight")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, math.IsInf(loaded.Gravity.Accuracy, 1))
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: disk\ndt: 0.002\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "disk", cfg.Scenario)
	assert.Equal(t, 0.002, cfg.Dt)
	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, DefaultConfig().Gravity, cfg.Gravity)
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ini")
	src := `[Run]
Scenario = explicit
Integrator = euler
Dt = 0.005

[Gravity]
Softening = 0.2

[Merge]
Enabled = true
Density = 2

[Body "b"]
Mass = 2
X = 1
VY = 0.5

[Body "a"]
Mass = 1
X = -1
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "explicit", cfg.Scenario)
	assert.Equal(t, "euler", cfg.Integrator)
	assert.Equal(t, 0.005, cfg.Dt)
	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, 0.2, cfg.Gravity.Softening)
	assert.Equal(t, 1.0, cfg.Gravity.G)
	assert.Equal(t, MergeConfig{Enabled: true, Density: 2}, cfg.Merge)
	assert.Equal(t, []BodyConfig{
		{Mass: 1, X: -1},
		{Mass: 2, X: 1, VY: 0.5},
	}, cfg.Bodies)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestScenarioParams(t *testing.T) {
	cfg := GetPreset("explicit", "figure_eight")
	cfg.Seed = 5
	p := cfg.ScenarioParams()

	assert.Equal(t, int64(5), p.Seed)
	require.Len(t, p.Explicit, 3)
	assert.Equal(t, dynamo.Vec2{X: -0.97000436, Y: 0.24308753}, p.Explicit[0].Position)
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge = MergeConfig{Enabled: true, Density: 3}
	sc := cfg.SimConfig()

	assert.True(t, sc.Merge)
	assert.Equal(t, 3.0, sc.MergeDensity)
	assert.True(t, sc.ValidateState)
	assert.Equal(t, cfg.RecordEvery, sc.RecordEvery)
}

func TestLoadIntoLayersOverPreset(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "over.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("duration: 3\n"), 0644))

	cfg := GetPreset("disk", "galaxy")
	require.NoError(t, LoadInto(yamlPath, cfg))
	assert.Equal(t, 3.0, cfg.Duration)
	assert.Equal(t, 300, cfg.Setup.Bodies)

	iniPath := filepath.Join(dir, "over.gcfg")
	require.NoError(t, os.WriteFile(iniPath, []byte("[Setup]\nBodies = 10\n"), 0644))

	cfg = GetPreset("explicit", "figure_eight")
	require.NoError(t, LoadInto(iniPath, cfg))
	assert.Equal(t, 10, cfg.Setup.Bodies)
	assert.Len(t, cfg.Bodies, 3, "bodies survive a file without body sections")
	assert.True(t, math.IsInf(cfg.Gravity.Accuracy, 1))
}
