package pricing

import "math"

// Abramowitz & Stegun 26.2.17 coefficients. Absolute error is below 7.5e-8.
const (
	asP  = 0.2316419
	asB1 = 0.319381530
	asB2 = -0.356563782
	asB3 = 1.781477937
	asB4 = -1.821255978
	asB5 = 1.330274429
)

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// NormPDF is the standard normal probability density.
func NormPDF(x float64) float64 {
	return invSqrt2Pi * math.Exp(-x*x/2)
}

// NormCDF is the standard normal cumulative distribution, via the
// Abramowitz & Stegun rational approximation. Both tails share one evaluation,
// so N(x) + N(-x) is 1 up to rounding.
func NormCDF(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	l := math.Abs(x)
	k := 1 / (1 + asP*l)
	poly := k * (asB1 + k*(asB2+k*(asB3+k*(asB4+k*asB5))))
	upper := NormPDF(l) * poly
	if x < 0 {
		return upper
	}
	return 1 - upper
}
