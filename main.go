package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"fogreeks/dataset"
	"fogreeks/greeks"
	"fogreeks/solver"
)

type config struct {
	InputFile    string
	OutputFile   string
	RiskFreeRate float64
	DividendYld  float64
	Solver       string // "pool" or "newton"
	Workers      int
	ChunkSize    int
}

func main() {
	cfg := loadConfig()

	fmt.Println("Black-Scholes IV & Greeks")
	fmt.Printf("solver=%s r=%.4f q=%.4f\n", cfg.Solver, cfg.RiskFreeRate, cfg.DividendYld)

	t0 := time.Now()
	rows, err := dataset.Load(cfg.InputFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	rows = dataset.Clean(rows)
	cols := dataset.Extract(rows)
	fmt.Printf("loaded %d rows in %.1fs\n", len(rows), time.Since(t0).Seconds())

	tSolve := time.Now()
	var iv []float64
	switch cfg.Solver {
	case "newton":
		iv, err = solver.SolveNewton(cols.Price, cols.S, cols.K, cols.T, cols.IsCall,
			cfg.RiskFreeRate, cfg.DividendYld, solver.DefaultNewtonParams())
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
	default:
		args := make([]solver.RowArgs, len(rows))
		for i := range rows {
			args[i] = solver.RowArgs{
				S:      cols.S[i],
				K:      cols.K[i],
				T:      cols.T[i],
				R:      cfg.RiskFreeRate,
				Q:      cfg.DividendYld,
				Price:  cols.Price[i],
				IsCall: cols.IsCall[i],
			}
		}
		p := solver.DefaultPoolParams()
		if cfg.Workers > 0 {
			p.Workers = cfg.Workers
		}
		if cfg.ChunkSize > 0 {
			p.ChunkSize = cfg.ChunkSize
		}
		p.Progress = true
		iv = solver.SolveBatch(args, p)
	}
	fmt.Printf("iv solved in %.1fs\n", time.Since(tSolve).Seconds())

	g, err := greeks.Compute(cols.S, cols.K, cols.T, iv, cols.IsCall, cfg.RiskFreeRate, cfg.DividendYld)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}

	report(iv, g, cols)

	out := dataset.Attach(rows, cols, iv, g)
	err = dataset.Save(cfg.OutputFile, out)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Printf("saved %s, total time %.1fs\n", cfg.OutputFile, time.Since(t0).Seconds())
}

func report(iv []float64, g greeks.Result, cols dataset.Columns) {
	ivSummary := greeks.Summarize("IV", iv)

	fmt.Printf("%-10s %10s %10s %12s %12s %12s %12s\n",
		"Col", "Valid", "NaN", "Mean", "Median", "Min", "Max")
	for _, s := range []greeks.ColumnSummary{
		ivSummary,
		greeks.Summarize("Delta", g.Delta),
		greeks.Summarize("Gamma", g.Gamma),
		greeks.Summarize("Vega", g.Vega),
		greeks.Summarize("Theta", g.Theta),
		greeks.Summarize("Rho", g.Rho),
		greeks.Summarize("Moneyness", cols.Moneyness),
	} {
		fmt.Println(s)
	}

	total := ivSummary.Valid + ivSummary.Missing
	if total > 0 {
		fmt.Printf("valid iv: %d / %d (%.1f%%)\n",
			ivSummary.Valid, total, 100*float64(ivSummary.Valid)/float64(total))
	}

	sanity := greeks.SanityCheck(g, cols.IsCall)
	fmt.Printf("call delta: [%.4f, %.4f] (expect ~[0,1])\n", sanity.CallDeltaMin, sanity.CallDeltaMax)
	fmt.Printf("put delta:  [%.4f, %.4f] (expect ~[-1,0])\n", sanity.PutDeltaMin, sanity.PutDeltaMax)
	fmt.Printf("gamma >= 0: %v\n", sanity.GammaNonNeg)
	fmt.Printf("vega >= 0:  %v\n", sanity.VegaNonNeg)
}

func loadConfig() config {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()
	cfg := config{
		InputFile:    getenv("INPUT_FILE", "master_fo_data.csv"),
		OutputFile:   getenv("OUTPUT_FILE", "master_fo_data_with_greeks.csv"),
		RiskFreeRate: getenvFloat("RISK_FREE_RATE", 0.068),
		DividendYld:  getenvFloat("DIVIDEND_YIELD", 0.0),
		Solver:       getenv("SOLVER", "pool"),
		Workers:      getenvInt("WORKERS", 0),
		ChunkSize:    getenvInt("CHUNK_SIZE", 0),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
