package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/sirsim/internal/sir"
)

type ExportData struct {
	Preset  string             `json:"preset,omitempty"`
	Beta    float64            `json:"beta"`
	Gamma   float64            `json:"gamma"`
	R0      *float64           `json:"r0"`
	Dt      float64            `json:"dt"`
	Steps   int                `json:"steps"`
	Times   Floats             `json:"times"`
	S       Floats             `json:"S"`
	I       Floats             `json:"I"`
	R       Floats             `json:"R"`
	Metrics map[string]float64 `json:"metrics"`
}

// Floats encodes non-finite values as null.
type Floats []float64

func (f Floats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(f)*8)
	buf = append(buf, '[')
	for k, v := range f {
		if k > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return append(buf, ']'), nil
}

func (f *Floats) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Floats, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = math.NaN()
			continue
		}
		out[k] = *v
	}
	*f = out
	return nil
}

// NewExportData bundles a run for WriteJSON. Non-finite metrics are left
// out; r0 is null when undefined.
func NewExportData(preset string, p sir.Params, series *sir.Series, metrics map[string]float64) ExportData {
	data := ExportData{
		Preset:  preset,
		Beta:    p.Beta,
		Gamma:   p.Gamma,
		Dt:      series.Dt(),
		Steps:   series.Len() - 1,
		Times:   Floats(series.T),
		S:       Floats(series.S),
		I:       Floats(series.I),
		R:       Floats(series.R),
		Metrics: make(map[string]float64, len(metrics)),
	}
	if r0, ok := p.R0(); ok {
		data.R0 = &r0
	}
	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		data.Metrics[name] = v
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ReadJSON is the inverse of WriteJSON.
func ReadJSON(r io.Reader) (*ExportData, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Series rebuilds the trajectory held in data.
func (d *ExportData) Series() (*sir.Series, error) {
	n := len(d.Times)
	if len(d.S) != n || len(d.I) != n || len(d.R) != n {
		return nil, &LengthError{Times: n, S: len(d.S), I: len(d.I), R: len(d.R)}
	}
	return &sir.Series{T: d.Times, S: d.S, I: d.I, R: d.R}, nil
}

type LengthError struct {
	Times, S, I, R int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("export: mismatched series lengths: t=%d S=%d I=%d R=%d", e.Times, e.S, e.I, e.R)
}
