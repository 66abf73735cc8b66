// Package bs implements the closed-form Black-Scholes pricing primitive
// shared by both implied volatility solvers. All functions are pure
// arithmetic; callers are responsible for precondition checks (T>0, S>0,
// K>0, sigma>0).
package bs

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// standard normal distribution for CDF and PDF terms
var stdNorm = distuv.Normal{Mu: 0.0, Sigma: 1.0}

// D1D2 returns the d1 and d2 terms of the black-scholes formula.
func D1D2(S, K, T, r, q, sigma float64) (float64, float64) {
	x := sigma * math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / x
	return d1, d1 - x
}

// Price returns the theoretical european option premium under black-scholes
// with a constant continuous dividend yield q.
func Price(isCall bool, S, K, T, r, q, sigma float64) float64 {
	d1, d2 := D1D2(S, K, T, r, q, sigma)
	if isCall {
		return S*math.Exp(-q*T)*stdNorm.CDF(d1) - K*math.Exp(-r*T)*stdNorm.CDF(d2)
	}
	return K*math.Exp(-r*T)*stdNorm.CDF(-d2) - S*math.Exp(-q*T)*stdNorm.CDF(-d1)
}

// Vega returns dPrice/dSigma. Identical for calls and puts.
func Vega(S, K, T, r, q, sigma float64) float64 {
	d1, _ := D1D2(S, K, T, r, q, sigma)
	return S * math.Exp(-q*T) * stdNorm.Prob(d1) * math.Sqrt(T)
}
