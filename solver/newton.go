package solver

import (
	"fmt"
	"math"

	"fogreeks/bs"
)

// SolveNewton solves implied volatility for a whole batch at once using
// newton-raphson iteration over a shrinking set of active rows. Inputs are
// parallel arrays of equal length; r and q are shared across rows. The
// returned array has the same length and order as the inputs, with NaN for
// every row that could not be solved (invalid geometry, degenerate vega,
// divergent step or iteration budget exhausted). Non-convergence is an
// expected outcome for illiquid or stale quotes, never an error.
func SolveNewton(price, S, K, T []float64, isCall []bool, r, q float64, p NewtonParams) ([]float64, error) {
	n := len(price)
	if len(S) != n || len(K) != n || len(T) != n || len(isCall) != n {
		return nil, fmt.Errorf("solver: mismatched input lengths price=%d S=%d K=%d T=%d isCall=%d",
			n, len(S), len(K), len(T), len(isCall))
	}

	result := make([]float64, n)
	sigma := make([]float64, n)
	for i := range result {
		result[i] = math.NaN()
		sigma[i] = p.Seed
	}

	// Rows with invalid geometry never enter the iteration.
	active := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if T[i] > 0 && price[i] > 0 && S[i] > 0 && K[i] > 0 {
			active = append(active, i)
		}
	}

	for iter := 0; iter < p.MaxIter && len(active) > 0; iter++ {
		// Compact the active set in place; rows leave it independently as
		// they converge, fail or blow up.
		next := active[:0]
		for _, i := range active {
			model := bs.Price(isCall[i], S[i], K[i], T[i], r, q, sigma[i])
			diff := model - price[i]
			if math.Abs(diff) < p.Tol {
				result[i] = sigma[i]
				continue
			}
			vega := bs.Vega(S[i], K[i], T[i], r, q, sigma[i])
			if vega < p.VegaFloor {
				// nearly flat in sigma, a newton step is unsafe; result stays NaN
				continue
			}
			sigma[i] -= diff / vega
			if sigma[i] <= 0 || sigma[i] > p.SigmaMax {
				// runaway step, typically deep wings or prices below intrinsic
				continue
			}
			next = append(next, i)
		}
		active = next
	}
	return result, nil
}
