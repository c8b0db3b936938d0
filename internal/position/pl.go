// Package position aggregates option and stock legs into position-level
// profit/loss, exposure, extrema and Greeks.
package position

import (
	"math"
	"time"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/pricing"
)

type compiledLeg struct {
	kind     models.LegKind
	strike   float64
	premium  float64 // per share
	shares   float64
	sign     float64
	expiry   time.Time
	override *float64
}

// Curve is a validated strategy prepared for repeated evaluation.
// It is immutable and safe for concurrent use.
type Curve struct {
	legs  []compiledLeg
	stock *models.StockLeg
}

// NewCurve validates the strategy once and resolves each leg's kind.
func NewCurve(strategy models.Strategy) (*Curve, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	c := &Curve{legs: make([]compiledLeg, 0, len(strategy.Legs))}
	for _, leg := range strategy.Legs {
		kind := leg.Kind()
		c.legs = append(c.legs, compiledLeg{
			kind:     kind,
			strike:   leg.Strike,
			premium:  leg.PremiumPerShare(),
			shares:   leg.Shares(),
			sign:     kind.Position().Sign(),
			expiry:   leg.Expiry,
			override: leg.Volatility,
		})
	}
	if strategy.Stock != nil {
		stock := *strategy.Stock
		c.stock = &stock
	}
	return c, nil
}

// At returns the total expiration P/L in dollars at spot s.
func (c *Curve) At(s float64) float64 {
	var total float64
	for _, l := range c.legs {
		total += pricing.Payoff(l.kind, s, l.strike, l.premium) * l.shares
	}
	return total + c.stockPL(s)
}

// TheoreticalAt returns the mark-to-model P/L at spot s and instant at.
// Legs still alive are valued with Black-Scholes; expired legs pay intrinsic value.
func (c *Curve) TheoreticalAt(s float64, at time.Time, rate, vol float64) float64 {
	var total float64
	for _, l := range c.legs {
		if pricing.Expired(l.expiry, at) {
			total += pricing.Payoff(l.kind, s, l.strike, l.premium) * l.shares
			continue
		}
		sigma := vol
		if l.override != nil {
			sigma = *l.override
		}
		t := pricing.YearsToExpiry(l.expiry, at)
		value := pricing.Price(l.kind.Type(), s, l.strike, t, rate, sigma)
		total += l.sign * (value - l.premium) * l.shares
	}
	return total + c.stockPL(s)
}

func (c *Curve) stockPL(s float64) float64 {
	if c.stock == nil {
		return 0
	}
	return pricing.StockPayoff(s, c.stock.EntryPrice, c.stock.Position == models.Long) * float64(c.stock.Quantity)
}

// LegPL returns the dollar P/L of one option leg at expiration for spot s.
func LegPL(leg models.OptionLeg, s float64) (float64, error) {
	if err := leg.Validate(); err != nil {
		return 0, err
	}
	if err := validateSpot(s); err != nil {
		return 0, err
	}
	return pricing.Payoff(leg.Kind(), s, leg.Strike, leg.PremiumPerShare()) * leg.Shares(), nil
}

// TotalPL returns the strategy's expiration P/L in dollars at spot s.
func TotalPL(strategy models.Strategy, s float64) (float64, error) {
	if err := validateSpot(s); err != nil {
		return 0, err
	}
	c, err := NewCurve(strategy)
	if err != nil {
		return 0, err
	}
	return c.At(s), nil
}

// TheoreticalPL returns the strategy's mark-to-model P/L at spot s and instant at,
// using the rate and volatility in params.
func TheoreticalPL(strategy models.Strategy, s float64, at time.Time, params models.MarketParams) (float64, error) {
	if err := validateSpot(s); err != nil {
		return 0, err
	}
	if err := params.Validate(); err != nil {
		return 0, err
	}
	c, err := NewCurve(strategy)
	if err != nil {
		return 0, err
	}
	return c.TheoreticalAt(s, at, params.Rate, params.Volatility), nil
}

// NetPremium returns the opening cash flow in dollars: credits positive, debits negative.
func NetPremium(strategy models.Strategy) float64 {
	var net float64
	for _, leg := range strategy.Legs {
		net -= leg.Position.Sign() * leg.Premium * float64(leg.Quantity)
	}
	return net
}

func validateSpot(s float64) error {
	if !(s >= 0) || math.IsInf(s, 0) {
		return apperrors.NewValidationError("price", s, "must be non-negative")
	}
	return nil
}
