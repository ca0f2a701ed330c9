package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario     = "ring"
	DefaultIntegrator   = "rk4"
	DefaultDt           = 0.01
	DefaultDuration     = 10.0
	DefaultRecordEvery  = 10
	DefaultMergeDensity = 1.0
)

type Config struct {
	Scenario    string        `yaml:"scenario"`
	Integrator  string        `yaml:"integrator"`
	Dt          float64       `yaml:"dt"`
	Duration    float64       `yaml:"duration"`
	Seed        int64         `yaml:"seed"`
	RecordEvery int           `yaml:"record_every"`
	Parallel    bool          `yaml:"parallel"`
	Gravity     GravityConfig `yaml:"gravity"`
	Merge       MergeConfig   `yaml:"merge"`
	Setup       SetupConfig   `yaml:"setup"`
	Bodies      []BodyConfig  `yaml:"bodies,omitempty"`
}

type GravityConfig struct {
	G               float64 `yaml:"g"`
	Accuracy        float64 `yaml:"accuracy"`
	Softening       float64 `yaml:"softening"`
	TraversalOffset float64 `yaml:"traversal_offset"`
}

type MergeConfig struct {
	Enabled bool    `yaml:"enabled"`
	Density float64 `yaml:"density"`
}

// SetupConfig parameterises the generated scenarios.
type SetupConfig struct {
	Bodies      int     `yaml:"bodies"`
	CentralMass float64 `yaml:"central_mass"`
	BodyMass    float64 `yaml:"body_mass"`
	Radius      float64 `yaml:"radius"`
}

// BodyConfig is one body of the explicit scenario.
type BodyConfig struct {
	Mass float64 `yaml:"mass"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
}

func DefaultConfig() *Config {
	g := gravity.DefaultParams()
	s := scenario.DefaultParams()
	return &Config{
		Scenario:    DefaultScenario,
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		RecordEvery: DefaultRecordEvery,
		Gravity: GravityConfig{
			G:               g.G,
			Accuracy:        g.Accuracy,
			Softening:       g.Softening,
			TraversalOffset: g.TraversalOffset,
		},
		Merge: MergeConfig{Density: DefaultMergeDensity},
		Setup: SetupConfig{
			Bodies:      s.Bodies,
			CentralMass: s.CentralMass,
			BodyMass:    s.BodyMass,
			Radius:      s.Radius,
		},
	}
}

// Load reads a yaml file, or a git-config style file when the extension is
// .ini or .gcfg. Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto layers the values present in the file at path over cfg.
func LoadInto(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return loadINI(path, cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type iniFile struct {
	Run struct {
		Scenario    string
		Integrator  string
		Dt          float64
		Duration    float64
		Seed        int64
		RecordEvery int
		Parallel    bool
	}
	Gravity struct {
		G               float64
		Accuracy        float64
		Softening       float64
		TraversalOffset float64
	}
	Merge struct {
		Enabled bool
		Density float64
	}
	Setup struct {
		Bodies      int
		CentralMass float64
		BodyMass    float64
		Radius      float64
	}
	Body map[string]*struct {
		Mass, X, Y, VX, VY float64
	}
}

func loadINI(path string, cfg *Config) error {
	f := iniFile{}
	f.Run.Scenario = cfg.Scenario
	f.Run.Integrator = cfg.Integrator
	f.Run.Dt = cfg.Dt
	f.Run.Duration = cfg.Duration
	f.Run.Seed = cfg.Seed
	f.Run.RecordEvery = cfg.RecordEvery
	f.Run.Parallel = cfg.Parallel
	f.Gravity.G = cfg.Gravity.G
	f.Gravity.Accuracy = cfg.Gravity.Accuracy
	f.Gravity.Softening = cfg.Gravity.Softening
	f.Gravity.TraversalOffset = cfg.Gravity.TraversalOffset
	f.Merge.Enabled = cfg.Merge.Enabled
	f.Merge.Density = cfg.Merge.Density
	f.Setup.Bodies = cfg.Setup.Bodies
	f.Setup.CentralMass = cfg.Setup.CentralMass
	f.Setup.BodyMass = cfg.Setup.BodyMass
	f.Setup.Radius = cfg.Setup.Radius

	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Scenario = f.Run.Scenario
	cfg.Integrator = f.Run.Integrator
	cfg.Dt = f.Run.Dt
	cfg.Duration = f.Run.Duration
	cfg.Seed = f.Run.Seed
	cfg.RecordEvery = f.Run.RecordEvery
	cfg.Parallel = f.Run.Parallel
	cfg.Gravity = GravityConfig(f.Gravity)
	cfg.Merge = MergeConfig(f.Merge)
	cfg.Setup = SetupConfig(f.Setup)

	if len(f.Body) == 0 {
		return nil
	}

	// Subsections come back as a map; order bodies by name.
	cfg.Bodies = nil
	names := make([]string, 0, len(f.Body))
	for name := range f.Body {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := f.Body[name]
		cfg.Bodies = append(cfg.Bodies, BodyConfig{Mass: b.Mass, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY})
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	return c.GravityParams().Validate()
}

func (c *Config) GravityParams() gravity.Params {
	return gravity.Params{
		G:               c.Gravity.G,
		Accuracy:        c.Gravity.Accuracy,
		Softening:       c.Gravity.Softening,
		TraversalOffset: c.Gravity.TraversalOffset,
	}
}

func (c *Config) ScenarioParams() scenario.Params {
	p := scenario.Params{
		Bodies:      c.Setup.Bodies,
		Seed:        c.Seed,
		CentralMass: c.Setup.CentralMass,
		BodyMass:    c.Setup.BodyMass,
		Radius:      c.Setup.Radius,
	}
	for _, b := range c.Bodies {
		p.Explicit = append(p.Explicit, dynamo.PointMass{
			Mass:     b.Mass,
			Position: dynamo.Vec2{X: b.X, Y: b.Y},
			Velocity: dynamo.Vec2{X: b.VX, Y: b.VY},
		})
	}
	return p
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Merge:         c.Merge.Enabled,
		MergeDensity:  c.Merge.Density,
		ValidateState: true,
		RecordEvery:   c.RecordEvery,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}
