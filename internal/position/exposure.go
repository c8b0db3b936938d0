package position

import "optionlab/internal/models"

// UpsideSlope returns dP/L per $1 of spot once spot is above every strike.
// Only calls and stock contribute: puts are worthless there.
func UpsideSlope(strategy models.Strategy) float64 {
	var slope float64
	for _, leg := range strategy.Legs {
		if leg.Type == models.Call {
			slope += leg.Position.Sign() * leg.Shares()
		}
	}
	if strategy.Stock != nil {
		slope += strategy.Stock.SignedShares()
	}
	return slope
}

// HasUnlimitedProfit reports a net naked long upside exposure: more long calls
// (and long shares) than short calls can cover, so P/L grows without bound.
func HasUnlimitedProfit(strategy models.Strategy) bool {
	return UpsideSlope(strategy) > 0
}

// HasUnlimitedLoss reports a net naked short upside exposure.
// Downside losses are always bounded since spot cannot fall below zero.
func HasUnlimitedLoss(strategy models.Strategy) bool {
	return UpsideSlope(strategy) < 0
}
