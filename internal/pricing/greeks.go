package pricing

import (
	"math"

	"optionlab/internal/models"
)

// Greeks returns per-share sensitivities of one option.
// Theta is per calendar day; Vega and Rho are per one percentage point.
func Greeks(optType models.OptionType, s, k, t, r, sigma float64) models.GreeksResult {
	if t <= 0 || sigma <= 0 || s <= 0 {
		return degenerateGreeks(optType, s, k, t, r)
	}

	sqrtT := math.Sqrt(t)
	d1, d2 := D1D2(s, k, t, r, sigma)
	pdf := NormPDF(d1)
	discount := math.Exp(-r * t)
	decay := -s * pdf * sigma / (2 * sqrtT)

	g := models.GreeksResult{
		Gamma: pdf / (s * sigma * sqrtT),
		Vega:  s * pdf * sqrtT / 100,
	}
	if optType == models.Call {
		g.Delta = NormCDF(d1)
		g.Theta = (decay - r*k*discount*NormCDF(d2)) / DaysPerYear
		g.Rho = k * t * discount * NormCDF(d2) / 100
	} else {
		g.Delta = NormCDF(d1) - 1
		g.Theta = (decay + r*k*discount*NormCDF(-d2)) / DaysPerYear
		g.Rho = -k * t * discount * NormCDF(-d2) / 100
	}
	return g
}

// degenerateGreeks covers expired options and zero volatility. Delta is a step
// at the strike; with time left, theta and rho follow the discounted intrinsic value.
func degenerateGreeks(optType models.OptionType, s, k, t, r float64) models.GreeksResult {
	var g models.GreeksResult
	if optType == models.Call {
		if s > k {
			g.Delta = 1
		}
	} else if s < k {
		g.Delta = -1
	}
	if t <= 0 {
		return g
	}

	discounted := k * math.Exp(-r*t)
	switch {
	case optType == models.Call && s > discounted:
		g.Theta = -r * discounted / DaysPerYear
		g.Rho = discounted * t / 100
	case optType == models.Put && s < discounted:
		g.Theta = r * discounted / DaysPerYear
		g.Rho = -discounted * t / 100
	}
	return g
}
