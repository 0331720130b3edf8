// Package export writes trajectories to CSV, JSON, SVG and PNG.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/sirsim/internal/sir"
)

// WriteCSV writes one row per point with columns t,S,I,R at six decimals.
func WriteCSV(w io.Writer, series *sir.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"t", "S", "I", "R"}); err != nil {
		return err
	}
	for k := 0; k < series.Len(); k++ {
		row := []string{
			formatFloat(series.T[k]),
			formatFloat(series.S[k]),
			formatFloat(series.I[k]),
			formatFloat(series.R[k]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
