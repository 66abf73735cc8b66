package solver

import "runtime"

// Solver defaults. Each knob materially changes behaviour on edge cases
// (stale quotes, wing strikes), so they are carried on parameter structs
// rather than hidden as literals.
const (
	DefaultSeed      = 0.30
	DefaultTol       = 1e-6
	DefaultMaxIter   = 100
	DefaultVegaFloor = 1e-12
	DefaultSigmaMax  = 10.0

	DefaultIVLower = 0.001
	DefaultIVUpper = 5.0
	DefaultXTol    = 1e-8

	DefaultChunkSize = 5000
)

// NewtonParams configures the vectorized newton-raphson solver.
type NewtonParams struct {
	Seed      float64 // initial sigma for every row
	Tol       float64 // convergence tolerance on the price difference
	MaxIter   int
	VegaFloor float64 // below this the newton step is unsafe
	SigmaMax  float64 // a step beyond (0, SigmaMax] marks the row divergent
}

func DefaultNewtonParams() NewtonParams {
	return NewtonParams{
		Seed:      DefaultSeed,
		Tol:       DefaultTol,
		MaxIter:   DefaultMaxIter,
		VegaFloor: DefaultVegaFloor,
		SigmaMax:  DefaultSigmaMax,
	}
}

// BrentParams configures the bracketed per-row solver. Upper is deliberately
// independent of NewtonParams.SigmaMax; the two variants keep their own
// bounds.
type BrentParams struct {
	Lower   float64 // lower volatility bound of the bracket
	Upper   float64 // upper volatility bound of the bracket
	XTol    float64 // absolute tolerance on sigma
	MaxIter int
}

func DefaultBrentParams() BrentParams {
	return BrentParams{
		Lower:   DefaultIVLower,
		Upper:   DefaultIVUpper,
		XTol:    DefaultXTol,
		MaxIter: DefaultMaxIter,
	}
}

// PoolParams configures the chunked worker pool around the bracketed solver.
type PoolParams struct {
	Workers   int // defaults to NumCPU-1, minimum 1
	ChunkSize int // rows per unit of work handed to a worker
	Brent     BrentParams
	Progress  bool // render a progress bar while solving
}

func DefaultPoolParams() PoolParams {
	return PoolParams{
		Workers:   defaultWorkers(),
		ChunkSize: DefaultChunkSize,
		Brent:     DefaultBrentParams(),
	}
}

// leave one core free
func defaultWorkers() int {
	w := runtime.NumCPU() - 1
	if w < 1 {
		w = 1
	}
	return w
}
