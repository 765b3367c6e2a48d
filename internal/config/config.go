package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendlab/internal/analysis"
	"github.com/san-kum/pendlab/internal/dynamo"
	"github.com/san-kum/pendlab/internal/integrators"
)

const (
	DefaultAbsTol  = 1e-8
	DefaultRelTol  = 1e-6
	DefaultSamples = 100
)

type Config struct {
	Pendulum  PendulumConfig `yaml:"pendulum"`
	Init      InitConfig     `yaml:"init"`
	Grid      GridConfig     `yaml:"grid"`
	Tolerance TolConfig      `yaml:"tolerance"`
	Sweep     SweepConfig    `yaml:"sweep"`
}

type PendulumConfig struct {
	M1 float64 `yaml:"m1"`
	M2 float64 `yaml:"m2"`
	L1 float64 `yaml:"l1"`
	L2 float64 `yaml:"l2"`
	G  float64 `yaml:"g"`
}

type InitConfig struct {
	Phi1   float64 `yaml:"phi1"`
	Omega1 float64 `yaml:"omega1"`
	Phi2   float64 `yaml:"phi2"`
	Omega2 float64 `yaml:"omega2"`
}

type GridConfig struct {
	Start   float64 `yaml:"start"`
	End     float64 `yaml:"end"`
	Samples int     `yaml:"samples"`
}

type TolConfig struct {
	Abs float64 `yaml:"abs"`
	Rel float64 `yaml:"rel"`
}

type SweepConfig struct {
	Dim      string  `yaml:"dim"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Count    int     `yaml:"count"`
	Negate   bool    `yaml:"negate"`
	Parallel bool    `yaml:"parallel"`
}

func DefaultConfig() *Config {
	return &Config{
		Pendulum: PendulumConfig{M1: 1, M2: 1, L1: 1, L2: 1, G: 9.8},
		Init:     InitConfig{Phi1: math.Pi / 4, Phi2: math.Pi / 4},
		Grid:     GridConfig{Start: 0, End: math.Pi / 2, Samples: DefaultSamples},
		Tolerance: TolConfig{
			Abs: DefaultAbsTol,
			Rel: DefaultRelTol,
		},
		Sweep: SweepConfig{
			Dim:    "l1",
			Min:    0.25,
			Max:    10,
			Count:  40,
			Negate: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		M1: c.Pendulum.M1,
		M2: c.Pendulum.M2,
		L1: c.Pendulum.L1,
		L2: c.Pendulum.L2,
		G:  c.Pendulum.G,
	}
}

func (c *Config) InitState() dynamo.State {
	return dynamo.NewState(c.Init.Phi1, c.Init.Omega1, c.Init.Phi2, c.Init.Omega2)
}

func (c *Config) TimeGrid() (dynamo.TimeGrid, error) {
	return dynamo.UniformGrid(c.Grid.Start, c.Grid.End, c.Grid.Samples)
}

func (c *Config) IntegratorOptions() integrators.Options {
	opts := integrators.DefaultOptions()
	if c.Tolerance.Abs > 0 {
		opts.AbsTol = c.Tolerance.Abs
	}
	if c.Tolerance.Rel > 0 {
		opts.RelTol = c.Tolerance.Rel
	}
	return opts
}

// SweepSpec assembles the configured 1-D sweep.
func (c *Config) SweepSpec() (analysis.SweepSpec, error) {
	dim, err := analysis.ParseDimension(c.Sweep.Dim)
	if err != nil {
		return analysis.SweepSpec{}, err
	}
	if c.Sweep.Count < 1 {
		return analysis.SweepSpec{}, fmt.Errorf("sweep count must be at least 1, got %d", c.Sweep.Count)
	}

	grid, err := c.TimeGrid()
	if err != nil {
		return analysis.SweepSpec{}, err
	}

	return analysis.SweepSpec{
		Base:             c.Params(),
		Init:             c.InitState(),
		Grid:             grid,
		Opts:             c.IntegratorOptions(),
		Dim:              dim,
		Values:           analysis.LinSpace(c.Sweep.Min, c.Sweep.Max, c.Sweep.Count),
		NegateObservable: c.Sweep.Negate,
		Parallel:         c.Sweep.Parallel,
	}, nil
}
