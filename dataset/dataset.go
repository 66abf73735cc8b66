// Package dataset reads and writes F&O bhavcopy CSV files and turns them
// into the flat columnar arrays consumed by the solvers.
package dataset

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"fogreeks/greeks"
)

const Layout = "2006-01-02"

// Row is one bhavcopy record. Column names follow the NSE UDiFF format.
type Row struct {
	TradDt      string  `csv:"TradDt"`
	TckrSymb    string  `csv:"TckrSymb"`
	XpryDt      string  `csv:"XpryDt"`
	StrkPric    float64 `csv:"StrkPric"`
	OptnTp      string  `csv:"OptnTp"` // CE or PE
	ClsPric     float64 `csv:"ClsPric"`
	SttlmPric   float64 `csv:"SttlmPric"`
	UndrlygPric float64 `csv:"UndrlygPric"`
	OpnIntrst   float64 `csv:"OpnIntrst"`
}

// GreekRow is an input row with the derived columns appended, ready to be
// written back out. Unsolved rows carry NaN in every derived column.
type GreekRow struct {
	Row
	Moneyness float64 `csv:"Moneyness"`
	IV        float64 `csv:"IV"`
	Delta     float64 `csv:"Delta"`
	Gamma     float64 `csv:"Gamma"`
	Vega      float64 `csv:"Vega"`
	Theta     float64 `csv:"Theta"`
	Rho       float64 `csv:"Rho"`
}

// Columns are the parallel arrays handed to the solver stage. All slices have
// identical length and row order matching the source rows.
type Columns struct {
	S         []float64 // underlying price
	K         []float64 // strike
	T         []float64 // time to expiry in years
	Price     []float64 // settlement price, falling back to close
	Moneyness []float64 // S/K
	IsCall    []bool
}

// Load reads one bhavcopy CSV file.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return rows, nil
}

// Merge loads several bhavcopy files and concatenates their rows in file
// order, the way daily files are combined into one master dataset.
func Merge(paths ...string) ([]Row, error) {
	var all []Row
	for _, p := range paths {
		rows, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

// Clean drops rows that cannot contribute to the solve: non-option rows,
// rows with zero or missing numeric fields and rows with unparseable dates.
func Clean(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.OptnTp != "CE" && r.OptnTp != "PE" {
			continue
		}
		if r.StrkPric <= 0 || r.ClsPric <= 0 || r.UndrlygPric <= 0 {
			continue
		}
		if _, err := time.Parse(Layout, r.TradDt); err != nil {
			continue
		}
		if _, err := time.Parse(Layout, r.XpryDt); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Extract builds the columnar arrays from rows. No row is dropped here:
// rows with bad geometry keep their position and fail downstream with a
// sentinel result. A row whose dates do not parse gets T=0, which the
// solvers treat as expired.
func Extract(rows []Row) Columns {
	n := len(rows)
	c := Columns{
		S:         make([]float64, n),
		K:         make([]float64, n),
		T:         make([]float64, n),
		Price:     make([]float64, n),
		Moneyness: make([]float64, n),
		IsCall:    make([]bool, n),
	}
	for i, r := range rows {
		c.S[i] = r.UndrlygPric
		c.K[i] = r.StrkPric
		c.T[i] = yearsToExpiry(r.TradDt, r.XpryDt)
		c.Price[i] = r.SttlmPric
		if c.Price[i] <= 0 {
			c.Price[i] = r.ClsPric
		}
		if r.StrkPric != 0 {
			c.Moneyness[i] = r.UndrlygPric / r.StrkPric
		}
		c.IsCall[i] = r.OptnTp == "CE"
	}
	return c
}

// Attach appends the derived columns to the source rows for output.
func Attach(rows []Row, cols Columns, iv []float64, g greeks.Result) []GreekRow {
	out := make([]GreekRow, len(rows))
	for i, r := range rows {
		out[i] = GreekRow{
			Row:       r,
			Moneyness: cols.Moneyness[i],
			IV:        iv[i],
			Delta:     g.Delta[i],
			Gamma:     g.Gamma[i],
			Vega:      g.Vega[i],
			Theta:     g.Theta[i],
			Rho:       g.Rho[i],
		}
	}
	return out
}

// Save writes the enriched rows to a CSV file.
func Save(path string, rows []GreekRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

// calendar days between trade date and expiry, in years
func yearsToExpiry(tradDt, xpryDt string) float64 {
	t0, err := time.Parse(Layout, tradDt)
	if err != nil {
		return 0
	}
	t1, err := time.Parse(Layout, xpryDt)
	if err != nil {
		return 0
	}
	return t1.Sub(t0).Hours() / 24.0 / 365.0
}
