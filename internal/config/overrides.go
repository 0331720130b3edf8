package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to override keys, so params.beta is read from
// SIRSIM_PARAMS_BETA.
const EnvPrefix = "SIRSIM"

// Override keys understood by ApplyOverrides.
const (
	KeySusceptible = "population.susceptible"
	KeyInfected    = "population.infected"
	KeyRecovered   = "population.recovered"
	KeyBeta        = "params.beta"
	KeyGamma       = "params.gamma"
	KeyDt          = "dt"
	KeySteps       = "steps"
	KeyStrict      = "strict"
	KeyFPS         = "animation.fps"
	KeyFrameSkip   = "animation.frame_skip"
	KeyOutput      = "animation.output"
	KeyFormat      = "animation.format"
)

// NewViper returns a viper instance reading SIRSIM_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key that is set in v onto cfg and validates
// the result.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	floats := map[string]*float64{
		KeySusceptible: &cfg.Population.Susceptible,
		KeyInfected:    &cfg.Population.Infected,
		KeyRecovered:   &cfg.Population.Recovered,
		KeyBeta:        &cfg.Params.Beta,
		KeyGamma:       &cfg.Params.Gamma,
		KeyDt:          &cfg.Dt,
	}
	for key, dst := range floats {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}

	ints := map[string]*int{
		KeySteps:     &cfg.Steps,
		KeyFPS:       &cfg.Animation.FPS,
		KeyFrameSkip: &cfg.Animation.FrameSkip,
	}
	for key, dst := range ints {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	if v.IsSet(KeyStrict) {
		cfg.Strict = v.GetBool(KeyStrict)
	}
	if v.IsSet(KeyOutput) {
		cfg.Animation.Output = v.GetString(KeyOutput)
	}
	if v.IsSet(KeyFormat) {
		cfg.Animation.Format = v.GetString(KeyFormat)
	}

	return cfg.Validate()
}
