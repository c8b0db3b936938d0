package pricing

import (
	"math"

	"optionlab/internal/models"
)

// DaysPerYear converts calendar days to Black-Scholes years.
const DaysPerYear = 365.25

// D1D2 returns the Black-Scholes d1 and d2 terms.
// Callers must ensure t > 0 and sigma > 0.
func D1D2(s, k, t, r, sigma float64) (d1, d2 float64) {
	volSqrtT := sigma * math.Sqrt(t)
	d1 = (math.Log(s/k) + (r+sigma*sigma/2)*t) / volSqrtT
	d2 = d1 - volSqrtT
	return d1, d2
}

// Intrinsic returns the exercise value of an option per share.
func Intrinsic(optType models.OptionType, s, k float64) float64 {
	if optType == models.Call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

// CallPrice returns the European call value per share.
// T <= 0 collapses to intrinsic value; sigma <= 0 to discounted intrinsic value.
func CallPrice(s, k, t, r, sigma float64) float64 {
	if t <= 0 {
		return Intrinsic(models.Call, s, k)
	}
	discount := math.Exp(-r * t)
	if sigma <= 0 || s <= 0 {
		return math.Max(s-k*discount, 0)
	}
	d1, d2 := D1D2(s, k, t, r, sigma)
	return s*NormCDF(d1) - k*discount*NormCDF(d2)
}

// PutPrice returns the European put value per share.
func PutPrice(s, k, t, r, sigma float64) float64 {
	if t <= 0 {
		return Intrinsic(models.Put, s, k)
	}
	discount := math.Exp(-r * t)
	if sigma <= 0 || s <= 0 {
		return math.Max(k*discount-s, 0)
	}
	d1, d2 := D1D2(s, k, t, r, sigma)
	return k*discount*NormCDF(-d2) - s*NormCDF(-d1)
}

// Price returns the European value per share of an option of type t.
func Price(optType models.OptionType, s, k, t, r, sigma float64) float64 {
	if optType == models.Call {
		return CallPrice(s, k, t, r, sigma)
	}
	return PutPrice(s, k, t, r, sigma)
}
