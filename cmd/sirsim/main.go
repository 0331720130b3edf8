package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/logging"
	"github.com/san-kum/sirsim/internal/storage"
)

var (
	dataPath   string
	logLevel   string
	configFile string
	preset     string

	logger log.Logger = log.NewNopLogger()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(GetExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sirsim",
		Short:         "SIR epidemic simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --log-level", err)
			}
			logger = l
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataPath, "data", filepath.Join(".sirsim", "runs.db"), "run database path")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")

	rootCmd.AddCommand(
		newRunCmd(),
		newAnimateCmd(),
		newLiveCmd(),
		newSweepCmd(),
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newPlotCmd(),
		newPhaseCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newImportJSONCmd(),
		newPresetsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// addModelFlags registers the flags that override config keys, except those
// named in skip. They only take effect when set.
func addModelFlags(cmd *cobra.Command, skip ...string) {
	f := cmd.Flags()
	f.Float64("susceptible", config.DefaultSusceptible, "initial susceptible population")
	f.Float64("infected", config.DefaultInfected, "initial infected population")
	f.Float64("recovered", config.DefaultRecovered, "initial recovered population")
	if !slices.Contains(skip, "beta") {
		f.Float64("beta", config.DefaultBeta, "contact rate")
	}
	if !slices.Contains(skip, "gamma") {
		f.Float64("gamma", config.DefaultGamma, "recovery rate")
	}
	f.Float64("dt", config.DefaultDt, "timestep")
	f.Int("steps", config.DefaultSteps, "number of steps")
	f.Bool("strict", false, "fail on non-finite states")
}

var modelFlagKeys = map[string]string{
	"susceptible": config.KeySusceptible,
	"infected":    config.KeyInfected,
	"recovered":   config.KeyRecovered,
	"beta":        config.KeyBeta,
	"gamma":       config.KeyGamma,
	"dt":          config.KeyDt,
	"steps":       config.KeySteps,
	"strict":      config.KeyStrict,
	"fps":         config.KeyFPS,
	"frame-skip":  config.KeyFrameSkip,
	"output":      config.KeyOutput,
	"format":      config.KeyFormat,
}

// resolveConfig builds the effective config: defaults, then --preset, then
// --config, then SIRSIM_* environment variables and changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown preset %q (available: %v)", preset, config.ListPresets()))
		}
	}
	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	v := config.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to bind flags", err)
	}
	if err := config.ApplyOverrides(cfg, v); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range modelFlagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		// sweep redefines beta and gamma as ranges
		if (key == config.KeyBeta || key == config.KeyGamma) && flag.Value.Type() != "float64" {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func openStore() (*storage.Store, error) {
	if dir := filepath.Dir(dataPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitFailure, "failed to create data directory", err)
		}
	}
	st, err := storage.Open(dataPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
