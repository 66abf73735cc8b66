package greeks

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes one derived output column for operator reporting.
type ColumnSummary struct {
	Name    string
	Valid   int
	Missing int
	Mean    float64
	Median  float64
	Min     float64
	Max     float64
}

// Summarize computes valid/NaN counts and basic statistics for one column.
func Summarize(name string, values []float64) ColumnSummary {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	s := ColumnSummary{
		Name:    name,
		Valid:   len(clean),
		Missing: len(values) - len(clean),
		Mean:    math.NaN(),
		Median:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
	}
	if len(clean) == 0 {
		return s
	}
	sort.Float64s(clean)
	s.Mean = stat.Mean(clean, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, clean, nil)
	s.Min = clean[0]
	s.Max = clean[len(clean)-1]
	return s
}

func (s ColumnSummary) String() string {
	return fmt.Sprintf("%-10s %10d %10d %12.6f %12.6f %12.6f %12.6f",
		s.Name, s.Valid, s.Missing, s.Mean, s.Median, s.Min, s.Max)
}

// Sanity holds the sign checks over valid rows.
type Sanity struct {
	CallDeltaMin float64
	CallDeltaMax float64
	PutDeltaMin  float64
	PutDeltaMax  float64
	GammaNonNeg  bool
	VegaNonNeg   bool
}

// SanityCheck verifies the expected greek ranges over all valid rows:
// call delta in [0,1], put delta in [-1,0], gamma >= 0, vega >= 0.
func SanityCheck(res Result, isCall []bool) Sanity {
	s := Sanity{
		CallDeltaMin: math.NaN(),
		CallDeltaMax: math.NaN(),
		PutDeltaMin:  math.NaN(),
		PutDeltaMax:  math.NaN(),
		GammaNonNeg:  true,
		VegaNonNeg:   true,
	}
	const eps = 1e-10
	for i, d := range res.Delta {
		if math.IsNaN(d) {
			continue
		}
		if isCall[i] {
			s.CallDeltaMin, s.CallDeltaMax = minmax(s.CallDeltaMin, s.CallDeltaMax, d)
		} else {
			s.PutDeltaMin, s.PutDeltaMax = minmax(s.PutDeltaMin, s.PutDeltaMax, d)
		}
		if res.Gamma[i] < -eps {
			s.GammaNonNeg = false
		}
		if res.Vega[i] < -eps {
			s.VegaNonNeg = false
		}
	}
	return s
}

func minmax(lo, hi, v float64) (float64, float64) {
	if math.IsNaN(lo) || v < lo {
		lo = v
	}
	if math.IsNaN(hi) || v > hi {
		hi = v
	}
	return lo, hi
}
