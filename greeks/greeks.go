// Package greeks computes the black-scholes risk sensitivities for a solved
// batch of implied volatilities.
package greeks

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"fogreeks/bs"
)

var stdNorm = distuv.Normal{Mu: 0.0, Sigma: 1.0}

// Result holds the five greek arrays, aligned row for row with the inputs.
type Result struct {
	Delta []float64
	Gamma []float64
	Vega  []float64 // per 1 percentage point volatility move
	Theta []float64 // per calendar day of decay
	Rho   []float64 // per 1 percentage point rate move
}

// Compute evaluates all five greeks for every row whose solved sigma passed
// validity: sigma finite and positive, T>0, S>0, K>0. Every other row keeps
// NaN in all five outputs. Greeks are never derived from a sentinel sigma.
func Compute(S, K, T, sigma []float64, isCall []bool, r, q float64) (Result, error) {
	n := len(sigma)
	if len(S) != n || len(K) != n || len(T) != n || len(isCall) != n {
		return Result{}, fmt.Errorf("greeks: mismatched input lengths S=%d K=%d T=%d sigma=%d isCall=%d",
			len(S), len(K), len(T), n, len(isCall))
	}

	res := Result{
		Delta: nanSlice(n),
		Gamma: nanSlice(n),
		Vega:  nanSlice(n),
		Theta: nanSlice(n),
		Rho:   nanSlice(n),
	}

	for i := 0; i < n; i++ {
		v := sigma[i]
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || T[i] <= 0 || S[i] <= 0 || K[i] <= 0 {
			continue
		}
		sqrtT := math.Sqrt(T[i])
		d1, d2 := bs.D1D2(S[i], K[i], T[i], r, q, v)

		expQT := math.Exp(-q * T[i])
		expRT := math.Exp(-r * T[i])
		phiD1 := stdNorm.Prob(d1)

		res.Gamma[i] = expQT * phiD1 / (S[i] * v * sqrtT)
		res.Vega[i] = S[i] * expQT * phiD1 * sqrtT / 100.0

		common := -(S[i] * phiD1 * v * expQT) / (2 * sqrtT)
		if isCall[i] {
			res.Delta[i] = expQT * stdNorm.CDF(d1)
			res.Theta[i] = (common - r*K[i]*expRT*stdNorm.CDF(d2) + q*S[i]*expQT*stdNorm.CDF(d1)) / 365.0
			res.Rho[i] = K[i] * T[i] * expRT * stdNorm.CDF(d2) / 100.0
		} else {
			res.Delta[i] = expQT * (stdNorm.CDF(d1) - 1)
			res.Theta[i] = (common + r*K[i]*expRT*stdNorm.CDF(-d2) - q*S[i]*expQT*stdNorm.CDF(-d1)) / 365.0
			res.Rho[i] = -K[i] * T[i] * expRT * stdNorm.CDF(-d2) / 100.0
		}
	}
	return res, nil
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
