package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/analysis"
	"github.com/san-kum/sirsim/internal/animate"
	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/metrics"
	"github.com/san-kum/sirsim/internal/sir"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

func newRunCmd() *cobra.Command {
	var (
		animateOut bool
		noSave     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation, print the report and store the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := simulate(cmd, cfg)
			if err != nil {
				return err
			}
			level.Info(logger).Log("msg", "simulation complete", "steps", cfg.Steps, "elapsed", time.Since(start))

			out := cmd.OutOrStdout()
			if err := analysis.Summarize(res.Series, res.Params).WriteText(out); err != nil {
				return err
			}

			if !noSave {
				st, err := openStore()
				if err != nil {
					return err
				}
				defer st.Close()

				id, err := st.Save(cmd.Context(), storage.RunMetadata{
					Preset:  preset,
					Initial: cfg.InitialState(),
					Params:  res.Params,
					Dt:      cfg.Dt,
					Steps:   cfg.Steps,
					Metrics: res.Metrics,
				}, res.Series)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to store run", err)
				}
				fmt.Fprintf(out, "\nrun id: %s\n", id)
			}

			if animateOut {
				if err := renderAnimation(cmd, res.Series, res.Params, cfg.Animation); err != nil {
					return err
				}
				fmt.Fprintf(out, "animation: %s\n", cfg.Animation.Output)
			}
			return nil
		},
	}
	addModelFlags(cmd)
	addAnimationFlags(cmd)
	cmd.Flags().BoolVar(&animateOut, "animate", false, "also render the animation")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func addAnimationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("fps", config.DefaultFPS, "animation frames per second")
	f.Int("frame-skip", config.DefaultFrameSkip, "render every n-th point")
	f.String("output", config.DefaultOutput, "animation output path")
	f.String("format", config.DefaultFormat, "animation format (gif, avi)")
}

// simulate runs cfg with the standard metrics attached.
func simulate(cmd *cobra.Command, cfg *config.Config) (*sir.Result, error) {
	p := cfg.ModelParams()
	sim := sir.New(sir.WithLogger(logger))
	for _, m := range metrics.Standard(p) {
		sim.AddMetric(m)
	}
	res, err := sim.Run(cmd.Context(), cfg.InitialState(), p, cfg.SimConfig())
	if err != nil {
		return nil, WrapExitError(ExitFailure, "simulation failed", err)
	}
	return res, nil
}

func renderAnimation(cmd *cobra.Command, series *sir.Series, p sir.Params, anim config.AnimationConfig) error {
	opts := animate.DefaultOptions()
	opts.Width = anim.Width
	opts.Height = anim.Height
	opts.FrameSkip = anim.FrameSkip
	opts.Caption = analysis.ParamLabel(p)
	opts.Logger = logger

	if dir := filepath.Dir(anim.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return WrapExitError(ExitFailure, "failed to create output directory", err)
		}
	}

	var (
		enc animate.Encoder
		f   *os.File
	)
	switch strings.ToLower(anim.Format) {
	case "gif":
		var err error
		f, err = os.Create(anim.Output)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to create output", err)
		}
		enc, err = animate.NewGIFEncoder(f, anim.FPS)
		if err != nil {
			f.Close()
			os.Remove(anim.Output)
			return WrapExitError(ExitCommandError, "invalid animation settings", err)
		}
	case "avi":
		var err error
		enc, err = animate.NewAVIEncoder(anim.Output, anim.Width, anim.Height, anim.FPS)
		if err != nil {
			os.Remove(anim.Output)
			return WrapExitError(ExitFailure, "failed to create output", err)
		}
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown animation format %q", anim.Format))
	}

	// discard drops a partial output so no truncated file is left behind.
	discard := func(msg string, err error) error {
		if f != nil {
			f.Close()
		}
		os.Remove(anim.Output)
		return WrapExitError(ExitFailure, msg, err)
	}

	if err := animate.Render(cmd.Context(), series, opts, enc); err != nil {
		if f == nil {
			// the AVI writer owns its file handle
			enc.Close()
		}
		return discard("failed to render animation", err)
	}
	if err := enc.Close(); err != nil {
		return discard("failed to write animation", err)
	}
	if f != nil {
		err := f.Close()
		f = nil
		if err != nil {
			return discard("failed to write animation", err)
		}
	}
	level.Info(logger).Log("msg", "animation written", "path", anim.Output, "format", anim.Format)
	return nil
}

func newAnimateCmd() *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "animate",
		Short: "render the simulation as GIF or AVI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			var (
				series *sir.Series
				p      sir.Params
			)
			if runID != "" {
				st, err := openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				meta, s, err := loadRun(cmd, st, runID)
				if err != nil {
					return err
				}
				series, p = s, meta.Params
			} else {
				res, err := simulate(cmd, cfg)
				if err != nil {
					return err
				}
				series, p = res.Series, res.Params
			}

			if err := renderAnimation(cmd, series, p, cfg.Animation); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "animation: %s\n", cfg.Animation.Output)
			return nil
		},
	}
	addModelFlags(cmd)
	addAnimationFlags(cmd)
	cmd.Flags().StringVar(&runID, "run", "", "animate a stored run instead of simulating")
	return cmd
}

func newLiveCmd() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "live",
		Short: "replay a fresh simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			res, err := simulate(cmd, cfg)
			if err != nil {
				return err
			}
			return viz.Live(res.Series, res.Params, viz.Options{
				Title:    animate.DefaultTitle,
				Interval: time.Duration(cfg.Animation.IntervalMS) * time.Millisecond,
				Stride:   cfg.Animation.FrameSkip,
				Theme:    theme,
			})
		},
	}
	addModelFlags(cmd)
	cmd.Flags().Int("frame-skip", config.DefaultFrameSkip, "points advanced per tick")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeClassic.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		betaRange  string
		gammaRange string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a grid of beta/gamma values concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			betas, err := parseRange(betaRange, cfg.Params.Beta)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --beta", err)
			}
			gammas, err := parseRange(gammaRange, cfg.Params.Gamma)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --gamma", err)
			}

			cases := sweepCases(cfg.InitialState(), betas, gammas)
			newMetrics := func() []sir.Metric {
				return []sir.Metric{metrics.NewPeakInfected(), metrics.NewPeakTime(), metrics.NewAttackRate()}
			}
			results, err := sir.Sweep(cmd.Context(), cases, cfg.SimConfig(), limit, newMetrics, sir.WithLogger(logger))
			if err != nil {
				return WrapExitError(ExitFailure, "sweep failed", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BETA\tGAMMA\tR0\tPEAK\tPEAK_T\tATTACK")
			for _, res := range results {
				fmt.Fprintf(w, "%g\t%g\t%s\t%.1f\t%.1f\t%.1f%%\n",
					res.Params.Beta,
					res.Params.Gamma,
					formatR0(res.Params),
					res.Metrics["peak_infected"],
					res.Metrics["peak_time"],
					100*res.Metrics["attack_rate"],
				)
			}
			return w.Flush()
		},
	}
	addModelFlags(cmd, "beta", "gamma")
	cmd.Flags().StringVar(&betaRange, "beta", "", "beta values as start:stop:count or a single value")
	cmd.Flags().StringVar(&gammaRange, "gamma", "", "gamma values as start:stop:count or a single value")
	cmd.Flags().IntVar(&limit, "jobs", 4, "concurrent runs (0 for no limit)")
	return cmd
}

func sweepCases(x0 sir.State, betas, gammas []float64) []sir.SweepCase {
	cases := make([]sir.SweepCase, 0, len(betas)*len(gammas))
	for _, b := range betas {
		for _, g := range gammas {
			cases = append(cases, sir.SweepCase{X0: x0, Params: sir.Params{Beta: b, Gamma: g}})
		}
	}
	return cases
}

func formatR0(p sir.Params) string {
	r0, ok := p.R0()
	if !ok {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", r0)
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBETA\tGAMMA\tR0\tSTEPS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%s\t%d\n", name, cfg.Params.Beta, cfg.Params.Gamma, formatR0(cfg.ModelParams()), cfg.Steps)
			}
			return w.Flush()
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default (or --preset) config as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists (use --force)", path))
			}
			cfg := config.DefaultConfig()
			if preset != "" {
				cfg = config.GetPreset(preset)
				if cfg == nil {
					return NewExitError(ExitCommandError, fmt.Sprintf("unknown preset %q", preset))
				}
			}
			if err := config.Save(path, cfg); err != nil {
				return WrapExitError(ExitFailure, "failed to write config", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
