package config

import "sort"

// Presets are named scenarios. GetPreset hands out copies, never these values.
var Presets = map[string]*Config{
	"outbreak":      DefaultConfig(),
	"dying-out":     withRates(0.08, 0.10, DefaultSteps),
	"slow-burn":     withRates(0.15, 0.10, 2000),
	"fast-recovery": withRates(0.30, 0.25, DefaultSteps),
}

func withRates(beta, gamma float64, steps int) *Config {
	cfg := DefaultConfig()
	cfg.Params.Beta = beta
	cfg.Params.Gamma = gamma
	cfg.Steps = steps
	return cfg
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
