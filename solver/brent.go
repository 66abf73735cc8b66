package solver

import (
	"math"

	"fogreeks/bs"
)

// RowArgs is one row of the batch handed to the bracketed solver.
type RowArgs struct {
	S      float64 // underlying price
	K      float64 // strike
	T      float64 // time to expiry in years
	R      float64 // risk-free rate
	Q      float64 // dividend yield
	Price  float64 // observed market price
	IsCall bool
}

// SolveRow returns the implied volatility for a single row, or NaN when the
// row cannot be solved. Invalid geometry and a market price outside the range
// reachable within [Lower, Upper] both yield NaN without a solve attempt; a
// failure inside the root-finder yields NaN as well. This function never
// panics and never returns an error: per-row failures stay local.
func SolveRow(a RowArgs, p BrentParams) float64 {
	if a.T <= 0 || a.Price <= 0 || a.S <= 0 || a.K <= 0 {
		return math.NaN()
	}
	f := func(sigma float64) float64 {
		return bs.Price(a.IsCall, a.S, a.K, a.T, a.R, a.Q, sigma) - a.Price
	}
	fLo, fHi := f(p.Lower), f(p.Upper)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		// no sign change: the root is not bracketed, do not extrapolate
		return math.NaN()
	}
	root, ok := brent(f, p.Lower, p.Upper, fLo, fHi, p.XTol, p.MaxIter)
	if !ok {
		return math.NaN()
	}
	return root
}

// brent finds a root of f inside the bracket [a, b] using brent's method:
// inverse quadratic interpolation and secant steps, falling back to bisection
// whenever an interpolated step misbehaves. Requires f(a) and f(b) with
// opposite signs. Returns false if the iteration budget runs out or f turns
// non-finite.
func brent(f func(float64) float64, a, b, fa, fb, xtol float64, maxIter int) (float64, bool) {
	c, fc := a, fa
	var d, e float64

	for iter := 0; iter < maxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			// re-bracket so that b and c straddle the root
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*machEps*math.Abs(b) + 0.5*xtol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, true
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// attempt inverse quadratic interpolation
			s := fb / fa
			var pp, qq float64
			if a == c {
				pp = 2 * xm * s
				qq = 1 - s
			} else {
				u := fa / fc
				v := fb / fc
				pp = s * (2*xm*u*(u-v) - (b-a)*(v-1))
				qq = (u - 1) * (v - 1) * (s - 1)
			}
			if pp > 0 {
				qq = -qq
			}
			pp = math.Abs(pp)
			min1 := 3*xm*qq - math.Abs(tol1*qq)
			min2 := math.Abs(e * qq)
			if 2*pp < math.Min(min1, min2) {
				// interpolation accepted
				e = d
				d = pp / qq
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
		if math.IsNaN(fb) || math.IsInf(fb, 0) {
			return 0, false
		}
	}
	return 0, false
}

const machEps = 2.220446049250313e-16
