package solver

import (
	"math"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// a contiguous run of rows tagged with its start offset in the batch
type chunk struct {
	start int
	rows  []RowArgs
}

// SolveBatch solves implied volatility for every row using the bracketed
// per-row solver, fanned out over a fixed pool of workers. The batch is
// partitioned into contiguous chunks; each worker writes its chunk results
// into a disjoint region of the output at the chunk's start offset, so the
// output order always matches the input order no matter which worker finishes
// first. The call blocks until every chunk is done. A failed row yields NaN,
// never an abort of its chunk or the run.
func SolveBatch(rows []RowArgs, p PoolParams) []float64 {
	n := len(rows)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if n == 0 {
		return out
	}

	workers := p.Workers
	if workers < 1 {
		workers = defaultWorkers()
	}
	size := p.ChunkSize
	if size < 1 {
		size = DefaultChunkSize
	}

	jobs := make(chan chunk, workers)
	done := make(chan int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				for j, a := range c.rows {
					out[c.start+j] = SolveRow(a, p.Brent)
				}
				done <- len(c.rows)
			}
		}()
	}

	// dispatch chunks in submission order
	go func() {
		for start := 0; start < n; start += size {
			end := start + size
			if end > n {
				end = n
			}
			jobs <- chunk{start: start, rows: rows[start:end]}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	// Progress is an observable side effect only; results are identical with
	// it on or off.
	var bar *progressbar.ProgressBar
	if p.Progress {
		bar = progressBar(n)
	}
	for c := range done {
		if bar != nil {
			_ = bar.Add(c)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return out
}

// progress bar initialization
func progressBar(length int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetDescription("solving iv"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}
