package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "optionlab/internal/errors"
)

// OptionLeg represents one option position within a strategy.
// Premium is the total price of one contract, not the per-share quote.
type OptionLeg struct {
	ID         string     `json:"id"`
	Type       OptionType `json:"type"`
	Position   Position   `json:"position"`
	Strike     float64    `json:"strike"`
	Premium    float64    `json:"premium"`
	Quantity   int        `json:"quantity"`
	Expiry     time.Time  `json:"expiry"`
	Volatility *float64   `json:"volatility,omitempty"`
}

// NewOptionLeg creates a leg with a fresh identifier.
func NewOptionLeg(t OptionType, p Position, strike, premium float64, quantity int, expiry time.Time) OptionLeg {
	return OptionLeg{
		ID:       uuid.NewString(),
		Type:     t,
		Position: p,
		Strike:   strike,
		Premium:  premium,
		Quantity: quantity,
		Expiry:   expiry,
	}
}

// WithVolatility returns a copy of the leg carrying an implied volatility override.
func (l OptionLeg) WithVolatility(v float64) OptionLeg {
	l.Volatility = &v
	return l
}

// Kind resolves the leg's (type, position) pair. Invalid legs yield the zero kind.
func (l OptionLeg) Kind() LegKind {
	k, _ := KindOf(l.Type, l.Position)
	return k
}

// PremiumPerShare converts the contract premium to the per-share quote.
func (l OptionLeg) PremiumPerShare() float64 {
	return PremiumPerShare(l.Premium)
}

// Shares returns the number of underlying shares the leg controls.
func (l OptionLeg) Shares() float64 {
	return float64(l.Quantity * ContractMultiplier)
}

// VolatilityOr returns the leg override when present, else fallback.
func (l OptionLeg) VolatilityOr(fallback float64) float64 {
	if l.Volatility != nil {
		return *l.Volatility
	}
	return fallback
}

// Validate checks the leg invariants.
func (l OptionLeg) Validate() error {
	if !l.Type.Valid() {
		return apperrors.NewValidationError("type", l.Type, "must be CALL or PUT")
	}
	if !l.Position.Valid() {
		return apperrors.NewValidationError("position", l.Position, "must be LONG or SHORT")
	}
	if !(l.Strike > 0) || math.IsInf(l.Strike, 0) {
		return apperrors.NewValidationError("strike", l.Strike, "must be a positive finite price")
	}
	if !(l.Premium >= 0) || math.IsInf(l.Premium, 0) {
		return apperrors.NewValidationError("premium", l.Premium, "must be non-negative")
	}
	if l.Quantity <= 0 {
		return apperrors.NewValidationError("quantity", l.Quantity, "must be a positive number of contracts")
	}
	if l.Volatility != nil && (!(*l.Volatility >= 0) || math.IsInf(*l.Volatility, 0)) {
		return apperrors.NewValidationError("volatility", *l.Volatility, "must be non-negative")
	}
	return nil
}

// StockLeg represents a position in the underlying shares.
type StockLeg struct {
	Position   Position `json:"position"`
	EntryPrice float64  `json:"entry_price"`
	Quantity   int      `json:"quantity"`
}

// SignedShares returns the share count, negative for short stock.
func (s StockLeg) SignedShares() float64 {
	return s.Position.Sign() * float64(s.Quantity)
}

// Validate checks the stock leg invariants.
func (s StockLeg) Validate() error {
	if !s.Position.Valid() {
		return apperrors.NewValidationError("stock.position", s.Position, "must be LONG or SHORT")
	}
	if !(s.EntryPrice > 0) || math.IsInf(s.EntryPrice, 0) {
		return apperrors.NewValidationError("stock.entry_price", s.EntryPrice, "must be a positive finite price")
	}
	if s.Quantity <= 0 {
		return apperrors.NewValidationError("stock.quantity", s.Quantity, "must be a positive number of shares")
	}
	return nil
}

// Strategy is a set of option legs plus an optional stock leg.
type Strategy struct {
	Name  string      `json:"name,omitempty"`
	Legs  []OptionLeg `json:"legs"`
	Stock *StockLeg   `json:"stock,omitempty"`
}

// IsEmpty reports whether the strategy holds no positions at all.
func (s Strategy) IsEmpty() bool {
	return len(s.Legs) == 0 && s.Stock == nil
}

// Validate checks every leg and the leg cap.
func (s Strategy) Validate() error {
	if len(s.Legs) > MaxLegs {
		return apperrors.NewValidationError("legs", len(s.Legs), "too many legs")
	}
	for i, leg := range s.Legs {
		if err := leg.Validate(); err != nil {
			return apperrors.Wrapf(err, "leg %d (%s)", i+1, leg.ID)
		}
	}
	if s.Stock != nil {
		if err := s.Stock.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RequireLegs validates the strategy and rejects an empty one.
func (s Strategy) RequireLegs() error {
	if s.IsEmpty() {
		return apperrors.NewValidationError("legs", 0, "at least one leg is required")
	}
	return s.Validate()
}

// Strikes returns the distinct strikes in ascending order.
func (s Strategy) Strikes() []float64 {
	seen := make(map[float64]bool, len(s.Legs))
	strikes := make([]float64, 0, len(s.Legs))
	for _, leg := range s.Legs {
		if !seen[leg.Strike] {
			seen[leg.Strike] = true
			strikes = append(strikes, leg.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

// LatestExpiry returns the furthest expiry among the option legs.
func (s Strategy) LatestExpiry() time.Time {
	var latest time.Time
	for _, leg := range s.Legs {
		if leg.Expiry.After(latest) {
			latest = leg.Expiry
		}
	}
	return latest
}

// MarketParams holds the market inputs for a valuation.
type MarketParams struct {
	Spot       float64   `json:"spot"`
	Rate       float64   `json:"rate"`
	Volatility float64   `json:"volatility"`
	AsOf       time.Time `json:"as_of"`
}

// Validate checks the market inputs.
func (m MarketParams) Validate() error {
	if !(m.Spot > 0) || math.IsInf(m.Spot, 0) {
		return apperrors.NewValidationError("spot", m.Spot, "must be a positive finite price")
	}
	if math.IsNaN(m.Rate) || math.IsInf(m.Rate, 0) {
		return apperrors.NewValidationError("rate", m.Rate, "must be finite")
	}
	if !(m.Volatility >= 0) || math.IsInf(m.Volatility, 0) {
		return apperrors.NewValidationError("volatility", m.Volatility, "must be non-negative")
	}
	return nil
}
