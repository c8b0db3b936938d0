package position

import (
	"errors"
	"math"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/pricing"
)

var (
	errMissingExpiry = errors.New("missing expiry date")
	errNonFinite     = errors.New("non-finite result")
)

// LegGreeks returns one leg's dollar Greeks: the per-share Greeks scaled by
// position sign x quantity x 100.
func LegGreeks(leg models.OptionLeg, params models.MarketParams) (models.GreeksResult, error) {
	if err := params.Validate(); err != nil {
		return models.GreeksResult{}, err
	}
	if err := leg.Validate(); err != nil {
		return models.GreeksResult{}, err
	}
	if leg.Expiry.IsZero() {
		return models.GreeksResult{}, apperrors.NewCalculationError(leg.ID, "greeks", errMissingExpiry)
	}

	t := pricing.YearsToExpiry(leg.Expiry, params.AsOf)
	g := pricing.Greeks(leg.Type, params.Spot, leg.Strike, t, params.Rate, leg.VolatilityOr(params.Volatility))
	if !finite(g) {
		return models.GreeksResult{}, apperrors.NewCalculationError(leg.ID, "greeks", errNonFinite)
	}
	return g.Scale(leg.Position.Sign() * leg.Shares()), nil
}

// AggregateGreeks sums the dollar Greeks of every leg. A stock leg adds its
// signed share count to delta. Any failing leg fails the whole aggregate.
func AggregateGreeks(strategy models.Strategy, params models.MarketParams) (models.GreeksResult, error) {
	var total models.GreeksResult
	if err := params.Validate(); err != nil {
		return total, err
	}
	if err := strategy.Validate(); err != nil {
		return total, err
	}
	for _, leg := range strategy.Legs {
		g, err := LegGreeks(leg, params)
		if err != nil {
			return models.GreeksResult{}, err
		}
		total = total.Add(g)
	}
	if strategy.Stock != nil {
		total.Delta += strategy.Stock.SignedShares()
	}
	return total, nil
}

// ValueLeg breaks a leg's current mark-to-model value down into intrinsic and
// time value, with its moneyness and dollar Greeks.
func ValueLeg(leg models.OptionLeg, params models.MarketParams) (models.LegValuation, error) {
	g, err := LegGreeks(leg, params)
	if err != nil {
		return models.LegValuation{}, err
	}

	t := pricing.YearsToExpiry(leg.Expiry, params.AsOf)
	theoretical := pricing.Price(leg.Type, params.Spot, leg.Strike, t, params.Rate, leg.VolatilityOr(params.Volatility))
	intrinsic := pricing.Intrinsic(leg.Type, params.Spot, leg.Strike)
	if math.IsNaN(theoretical) || math.IsInf(theoretical, 0) {
		return models.LegValuation{}, apperrors.NewCalculationError(leg.ID, "valuation", errNonFinite)
	}

	return models.LegValuation{
		LegID:       leg.ID,
		Kind:        leg.Kind().String(),
		Moneyness:   pricing.Moneyness(leg.Type, params.Spot, leg.Strike),
		Theoretical: theoretical,
		Intrinsic:   intrinsic,
		TimeValue:   theoretical - intrinsic,
		PL:          leg.Position.Sign() * (theoretical - leg.PremiumPerShare()) * leg.Shares(),
		Greeks:      g,
	}, nil
}

func finite(g models.GreeksResult) bool {
	for _, v := range []float64{g.Delta, g.Gamma, g.Theta, g.Vega, g.Rho} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
