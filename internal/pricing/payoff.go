// Package pricing provides per-share option mathematics: expiration payoffs,
// Black-Scholes valuation, and Greeks.
package pricing

import (
	"math"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// CallPayoffLong is the per-share P/L of a long call at expiration.
func CallPayoffLong(s, k, p float64) float64 {
	return math.Max(s-k, 0) - p
}

// CallPayoffShort is the per-share P/L of a short call at expiration.
func CallPayoffShort(s, k, p float64) float64 {
	return p - math.Max(s-k, 0)
}

// PutPayoffLong is the per-share P/L of a long put at expiration.
func PutPayoffLong(s, k, p float64) float64 {
	return math.Max(k-s, 0) - p
}

// PutPayoffShort is the per-share P/L of a short put at expiration.
func PutPayoffShort(s, k, p float64) float64 {
	return p - math.Max(k-s, 0)
}

// StockPayoff is the per-share P/L of a stock position entered at s0.
func StockPayoff(s, s0 float64, isLong bool) float64 {
	if isLong {
		return s - s0
	}
	return s0 - s
}

// Payoff dispatches to the per-share primitive for kind.
func Payoff(kind models.LegKind, s, k, p float64) float64 {
	switch kind {
	case models.LongCall:
		return CallPayoffLong(s, k, p)
	case models.ShortCall:
		return CallPayoffShort(s, k, p)
	case models.LongPut:
		return PutPayoffLong(s, k, p)
	case models.ShortPut:
		return PutPayoffShort(s, k, p)
	}
	return math.NaN()
}

// LongCallPL returns the dollar P/L of quantity long call contracts.
// p is the per-share premium.
func LongCallPL(s, k, p float64, quantity int) (float64, error) {
	return contractPL(models.LongCall, s, k, p, quantity)
}

// ShortCallPL returns the dollar P/L of quantity short call contracts.
func ShortCallPL(s, k, p float64, quantity int) (float64, error) {
	return contractPL(models.ShortCall, s, k, p, quantity)
}

// LongPutPL returns the dollar P/L of quantity long put contracts.
func LongPutPL(s, k, p float64, quantity int) (float64, error) {
	return contractPL(models.LongPut, s, k, p, quantity)
}

// ShortPutPL returns the dollar P/L of quantity short put contracts.
func ShortPutPL(s, k, p float64, quantity int) (float64, error) {
	return contractPL(models.ShortPut, s, k, p, quantity)
}

func contractPL(kind models.LegKind, s, k, p float64, quantity int) (float64, error) {
	if err := ValidatePayoffInputs(s, k, p); err != nil {
		return 0, err
	}
	if quantity <= 0 {
		return 0, apperrors.NewValidationError("quantity", quantity, "must be a positive number of contracts")
	}
	return Payoff(kind, s, k, p) * float64(quantity*models.ContractMultiplier), nil
}

// ValidatePayoffInputs checks the price, strike and premium domain of the payoff primitives.
func ValidatePayoffInputs(s, k, p float64) error {
	if !(s >= 0) || math.IsInf(s, 0) {
		return apperrors.NewValidationError("price", s, "must be non-negative")
	}
	if !(k > 0) || math.IsInf(k, 0) {
		return apperrors.NewValidationError("strike", k, "must be positive")
	}
	if !(p >= 0) || math.IsInf(p, 0) {
		return apperrors.NewValidationError("premium", p, "must be non-negative")
	}
	return nil
}
