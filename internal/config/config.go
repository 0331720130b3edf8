package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sirsim/internal/sir"
)

const (
	DefaultSusceptible = 990.0
	DefaultInfected    = 10.0
	DefaultRecovered   = 0.0
	DefaultBeta        = 0.30
	DefaultGamma       = 0.10
	DefaultDt          = 0.1
	DefaultSteps       = 600

	DefaultIntervalMS = 50
	DefaultFPS        = 20
	DefaultFrameSkip  = 3
	DefaultOutput     = "sir.gif"
	DefaultWidth      = 1000
	DefaultHeight     = 600
	DefaultFormat     = "gif"
)

type Config struct {
	Population PopulationConfig `yaml:"population" json:"population"`
	Params     ParamsConfig     `yaml:"params" json:"params"`
	Dt         float64          `yaml:"dt" json:"dt"`
	Steps      int              `yaml:"steps" json:"steps"`
	Strict     bool             `yaml:"strict" json:"strict"`
	Animation  AnimationConfig  `yaml:"animation" json:"animation"`
}

type PopulationConfig struct {
	Susceptible float64 `yaml:"susceptible" json:"susceptible"`
	Infected    float64 `yaml:"infected" json:"infected"`
	Recovered   float64 `yaml:"recovered" json:"recovered"`
}

type ParamsConfig struct {
	Beta  float64 `yaml:"beta" json:"beta"`
	Gamma float64 `yaml:"gamma" json:"gamma"`
}

type AnimationConfig struct {
	IntervalMS int    `yaml:"interval_ms" json:"interval_ms"`
	FPS        int    `yaml:"fps" json:"fps"`
	FrameSkip  int    `yaml:"frame_skip" json:"frame_skip"`
	Output     string `yaml:"output" json:"output"`
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Format     string `yaml:"format" json:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Population: PopulationConfig{
			Susceptible: DefaultSusceptible,
			Infected:    DefaultInfected,
			Recovered:   DefaultRecovered,
		},
		Params: ParamsConfig{
			Beta:  DefaultBeta,
			Gamma: DefaultGamma,
		},
		Dt:    DefaultDt,
		Steps: DefaultSteps,
		Animation: AnimationConfig{
			IntervalMS: DefaultIntervalMS,
			FPS:        DefaultFPS,
			FrameSkip:  DefaultFrameSkip,
			Output:     DefaultOutput,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Format:     DefaultFormat,
		},
	}
}

// Load reads a YAML config on top of the defaults. Unknown keys are
// rejected and the result is validated before it is returned.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto is Load with base in place of the defaults: keys missing from
// the file keep their value from base. base itself is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := base.Clone()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) InitialState() sir.State {
	return sir.State{
		S: c.Population.Susceptible,
		I: c.Population.Infected,
		R: c.Population.Recovered,
	}
}

func (c *Config) ModelParams() sir.Params {
	return sir.Params{Beta: c.Params.Beta, Gamma: c.Params.Gamma}
}

func (c *Config) TotalPopulation() float64 {
	return c.InitialState().Total()
}

func (c *Config) R0() (float64, bool) {
	return c.ModelParams().R0()
}

func (c *Config) SimConfig() sir.Config {
	return sir.Config{Dt: c.Dt, Steps: c.Steps, Strict: c.Strict}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
