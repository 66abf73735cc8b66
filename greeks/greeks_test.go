package greeks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fogreeks/bs"
)

func TestComputeKnownValues(t *testing.T) {
	// S=100, K=100, T=1, r=0.05, q=0, sigma=0.2: d1=0.35, d2=0.15
	S := []float64{100, 100}
	K := []float64{100, 100}
	T := []float64{1, 1}
	sigma := []float64{0.2, 0.2}
	isCall := []bool{true, false}

	g, err := Compute(S, K, T, sigma, isCall, 0.05, 0)
	require.NoError(t, err)

	// call row
	require.InDelta(t, 0.6368306512, g.Delta[0], 1e-6)
	require.InDelta(t, 0.0187620173, g.Gamma[0], 1e-6)
	require.InDelta(t, 0.3752403469, g.Vega[0], 1e-6)
	require.InDelta(t, -0.0175727, g.Theta[0], 1e-5)
	require.InDelta(t, 0.5323248, g.Rho[0], 1e-4)

	// put row: delta = call delta - 1, gamma and vega identical
	require.InDelta(t, g.Delta[0]-1, g.Delta[1], 1e-12)
	require.Equal(t, g.Gamma[0], g.Gamma[1])
	require.Equal(t, g.Vega[0], g.Vega[1])
	require.InDelta(t, -0.0045421, g.Theta[1], 1e-5)
	require.InDelta(t, -0.4189046, g.Rho[1], 1e-4)
}

func TestComputeMasking(t *testing.T) {
	type testCases struct {
		name  string
		S     float64
		K     float64
		T     float64
		sigma float64
	}

	for _, test := range []testCases{
		{name: "SENTINEL_SIGMA", S: 100, K: 100, T: 1, sigma: math.NaN()},
		{name: "ZERO_SIGMA", S: 100, K: 100, T: 1, sigma: 0},
		{name: "NEGATIVE_SIGMA", S: 100, K: 100, T: 1, sigma: -0.2},
		{name: "INF_SIGMA", S: 100, K: 100, T: 1, sigma: math.Inf(1)},
		{name: "EXPIRED", S: 100, K: 100, T: 0, sigma: 0.2},
		{name: "ZERO_SPOT", S: 0, K: 100, T: 1, sigma: 0.2},
		{name: "ZERO_STRIKE", S: 100, K: 0, T: 1, sigma: 0.2},
	} {
		t.Run(test.name, func(t *testing.T) {
			g, err := Compute([]float64{test.S}, []float64{test.K}, []float64{test.T},
				[]float64{test.sigma}, []bool{true}, 0.05, 0)
			require.NoError(t, err)
			for _, col := range [][]float64{g.Delta, g.Gamma, g.Vega, g.Theta, g.Rho} {
				require.True(t, math.IsNaN(col[0]))
			}
		})
	}
}

func TestComputeMixedRowsKeepAlignment(t *testing.T) {
	S := []float64{100, 100, 100}
	K := []float64{100, 100, 110}
	T := []float64{1, 0.5, 1}
	sigma := []float64{0.2, math.NaN(), 0.3}
	isCall := []bool{true, true, false}

	g, err := Compute(S, K, T, sigma, isCall, 0.05, 0)
	require.NoError(t, err)

	for _, col := range [][]float64{g.Delta, g.Gamma, g.Vega, g.Theta, g.Rho} {
		require.Len(t, col, 3)
		require.False(t, math.IsNaN(col[0]))
		require.True(t, math.IsNaN(col[1]))
		require.False(t, math.IsNaN(col[2]))
	}
}

func TestComputeSignSanity(t *testing.T) {
	var S, K, T, sigma []float64
	var isCall []bool
	for _, m := range []float64{0.8, 0.9, 1.0, 1.1, 1.25} {
		for _, vol := range []float64{0.1, 0.3, 0.8} {
			for _, tt := range []float64{7.0 / 365.0, 0.5, 2} {
				for _, c := range []bool{true, false} {
					S = append(S, 100)
					K = append(K, 100*m)
					T = append(T, tt)
					sigma = append(sigma, vol)
					isCall = append(isCall, c)
				}
			}
		}
	}

	g, err := Compute(S, K, T, sigma, isCall, 0.05, 0)
	require.NoError(t, err)

	for i := range S {
		if isCall[i] {
			require.GreaterOrEqual(t, g.Delta[i], 0.0)
			require.LessOrEqual(t, g.Delta[i], 1.0)
		} else {
			require.GreaterOrEqual(t, g.Delta[i], -1.0)
			require.LessOrEqual(t, g.Delta[i], 0.0)
		}
		require.GreaterOrEqual(t, g.Gamma[i], 0.0)
		require.GreaterOrEqual(t, g.Vega[i], 0.0)
	}

	sanity := SanityCheck(g, isCall)
	require.True(t, sanity.GammaNonNeg)
	require.True(t, sanity.VegaNonNeg)
	require.GreaterOrEqual(t, sanity.CallDeltaMin, 0.0)
	require.LessOrEqual(t, sanity.CallDeltaMax, 1.0)
	require.GreaterOrEqual(t, sanity.PutDeltaMin, -1.0)
	require.LessOrEqual(t, sanity.PutDeltaMax, 0.0)
}

func TestComputeVegaMatchesPricer(t *testing.T) {
	// greeks vega is the pricing primitive's vega scaled to a 1pp move
	S, K, T, sigma := 100.0, 110.0, 0.75, 0.3
	g, err := Compute([]float64{S}, []float64{K}, []float64{T}, []float64{sigma},
		[]bool{true}, 0.05, 0)
	require.NoError(t, err)
	require.InDelta(t, bs.Vega(S, K, T, 0.05, 0, sigma)/100.0, g.Vega[0], 1e-12)
}

func TestComputeMismatchedLengths(t *testing.T) {
	_, err := Compute([]float64{100}, []float64{100, 100}, []float64{1},
		[]float64{0.2}, []bool{true}, 0.05, 0)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	values := []float64{3, math.NaN(), 1, 2, math.NaN(), 5, 4}
	s := Summarize("IV", values)

	require.Equal(t, "IV", s.Name)
	require.Equal(t, 5, s.Valid)
	require.Equal(t, 2, s.Missing)
	require.InDelta(t, 3.0, s.Mean, 1e-12)
	require.InDelta(t, 3.0, s.Median, 1e-12)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 5.0, s.Max)
}

func TestSummarizeAllMissing(t *testing.T) {
	s := Summarize("Delta", []float64{math.NaN(), math.NaN()})
	require.Equal(t, 0, s.Valid)
	require.Equal(t, 2, s.Missing)
	require.True(t, math.IsNaN(s.Mean))
	require.True(t, math.IsNaN(s.Median))
}
