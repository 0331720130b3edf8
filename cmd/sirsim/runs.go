package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/analysis"
	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/sir"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

// withStore opens the run database for the duration of fn.
func withStore(fn func(st *storage.Store) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func loadRun(cmd *cobra.Command, st *storage.Store, id string) (*storage.RunMetadata, *sir.Series, error) {
	meta, err := st.Load(cmd.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", id))
	}
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "failed to load run", err)
	}
	series, err := st.LoadSeries(cmd.Context(), id)
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "failed to load series", err)
	}
	if series.Len() == 0 {
		return nil, nil, NewExitError(ExitFailure, fmt.Sprintf("run %s has no data", id))
	}
	return meta, series, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				runs, err := st.List(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "failed to list runs", err)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "no runs found")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tPRESET\tTIME\tBETA\tGAMMA\tR0\tDT\tSTEPS\tPEAK")
				for _, run := range runs {
					name := run.Preset
					if name == "" {
						name = "-"
					}
					peak := "-"
					if v, ok := run.Metrics["peak_infected"]; ok {
						peak = strconv.FormatFloat(v, 'f', 1, 64)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%s\t%g\t%d\t%s\n",
						run.ID,
						name,
						run.Timestamp.Local().Format("2006-01-02 15:04:05"),
						run.Params.Beta,
						run.Params.Gamma,
						formatR0(run.Params),
						run.Dt,
						run.Steps,
						peak,
					)
				}
				return w.Flush()
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the report of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				meta, series, err := loadRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "run: %s\n", meta.ID)
				if meta.Preset != "" {
					fmt.Fprintf(out, "preset: %s\n", meta.Preset)
				}
				fmt.Fprintf(out, "created: %s\n\n", meta.Timestamp.Local().Format("2006-01-02 15:04:05"))
				return analysis.Summarize(series, meta.Params).WriteText(out)
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				err := st.Delete(cmd.Context(), args[0])
				if errors.Is(err, storage.ErrNotFound) {
					return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", args[0]))
				}
				if err != nil {
					return WrapExitError(ExitFailure, "failed to delete run", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newPlotCmd() *cobra.Command {
	var (
		pngPath string
		svgPath string
		width   int
		height  int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot S, I and R of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				meta, series, err := loadRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				label := analysis.ParamLabel(meta.Params)
				switch {
				case pngPath == "-":
					if err := export.WritePNG(cmd.OutOrStdout(), series, label); err != nil {
						return WrapExitError(ExitFailure, "failed to write plot", err)
					}
					return nil
				case pngPath != "":
					if err := export.SavePNG(pngPath, series, label); err != nil {
						return WrapExitError(ExitFailure, "failed to write plot", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)
					return nil
				case svgPath != "":
					if err := os.WriteFile(svgPath, []byte(export.SeriesSVG(series, 800, 400)), 0o644); err != nil {
						return WrapExitError(ExitFailure, "failed to write svg", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", svgPath)
					return nil
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "run: %s\n", meta.ID)
				fmt.Fprintf(out, "samples: %d\n\n", series.Len())
				fmt.Fprintln(out, viz.PlotSeries(series, width, height, "S (blue)  I (red)  R (green)  "+label))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write a PNG plot instead of the terminal chart (- for stdout)")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG plot instead of the terminal chart")
	cmd.Flags().IntVar(&width, "width", 80, "chart width")
	cmd.Flags().IntVar(&height, "height", 15, "chart height")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	var svgPath string
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "S-I phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				_, series, err := loadRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				if svgPath != "" {
					svg := export.PhaseSVG(series, 800, 600)
					if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
						return WrapExitError(ExitFailure, "failed to write svg", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", svgPath)
					return nil
				}
				portrait := analysis.NewPhasePortrait(series)
				fmt.Fprintln(cmd.OutOrStdout(), "phase portrait: S (x) vs I (y)")
				fmt.Fprint(cmd.OutOrStdout(), analysis.PhasePortraitToASCII(portrait, 60, 20))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG file instead of ASCII")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				_, series, err := loadRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				return export.WriteCSV(cmd.OutOrStdout(), series)
			})
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				meta, series, err := loadRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				data := export.NewExportData(meta.Preset, meta.Params, series, meta.Metrics)
				return export.WriteJSON(cmd.OutOrStdout(), data)
			})
		},
	}
}

func newImportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-json [file]",
		Short: "store a run previously written by export-json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open input", err)
			}
			defer f.Close()

			data, err := export.ReadJSON(f)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to parse input", err)
			}
			series, err := data.Series()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid series", err)
			}
			if series.Len() == 0 {
				return NewExitError(ExitCommandError, "input has no points")
			}

			return withStore(func(st *storage.Store) error {
				id, err := st.Save(cmd.Context(), storage.RunMetadata{
					Preset:  data.Preset,
					Initial: series.At(0),
					Params:  sir.Params{Beta: data.Beta, Gamma: data.Gamma},
					Dt:      data.Dt,
					Steps:   series.Len() - 1,
					Metrics: data.Metrics,
				}, series)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to store run", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run id: %s\n", id)
				return nil
			})
		},
	}
}

// parseRange parses "start:stop:count" into count evenly spaced values, or a
// single number. An empty string yields fallback.
func parseRange(s string, fallback float64) ([]float64, error) {
	if s == "" {
		return []float64{fallback}, nil
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	case 3:
	default:
		return nil, fmt.Errorf("expected start:stop:count, got %q", s)
	}

	start, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, err
	}
	stop, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", n)
	}
	if n == 1 {
		return []float64{start}, nil
	}

	vals := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	vals[n-1] = stop
	return vals, nil
}
