package breakeven

import (
	"optionlab/internal/models"
	"optionlab/internal/position"
	"optionlab/internal/strategy"
)

// analyticalRoots returns closed-form break-evens when the strategy has one.
// The caller still verifies every root against the P/L curve.
func analyticalRoots(strat models.Strategy, det models.StrategyDetection) ([]float64, bool) {
	if len(strat.Legs) == 0 && strat.Stock != nil {
		return []float64{strat.Stock.EntryPrice}, true
	}
	if len(strat.Legs) == 1 && strat.Stock == nil {
		return singleLeg(strat.Legs[0]), true
	}
	if !strategy.Analytical(det) {
		return nil, false
	}

	// Confident detections imply balanced quantities.
	net := position.NetPremium(strat) / (float64(strat.Legs[0].Quantity) * models.ContractMultiplier)
	calls, puts := splitStrikes(strat)

	switch det.Type {
	case models.StrategyBullCallSpread, models.StrategyBearCallSpread:
		return []float64{callVertical(strat, calls, net)}, true
	case models.StrategyBullPutSpread, models.StrategyBearPutSpread:
		return []float64{putVertical(strat, puts, net)}, true
	case models.StrategyLongStraddle, models.StrategyShortStraddle,
		models.StrategyLongStrangle, models.StrategyShortStrangle:
		return wings(puts[0], calls[0], abs(net)), true
	case models.StrategyIronCondor, models.StrategyReverseIronCondor, models.StrategyIronButterfly:
		// Inner strikes: the higher put and the lower call.
		return wings(puts[1], calls[0], abs(net)), true
	}
	return nil, false
}

func singleLeg(leg models.OptionLeg) []float64 {
	p := leg.PremiumPerShare()
	if leg.Type == models.Call {
		return []float64{leg.Strike + p}
	}
	if leg.Strike-p < 0 {
		return nil
	}
	return []float64{leg.Strike - p}
}

// callVertical: between the strikes P/L = net + slope*(S - low), where slope
// is +1 when the lower strike is bought.
func callVertical(strat models.Strategy, strikes []float64, net float64) float64 {
	low := strikes[0]
	slope := -1.0
	if longAt(strat, models.Call, low) {
		slope = 1
	}
	return low - net/slope
}

// putVertical: between the strikes P/L = net + slope*(high - S), where slope
// is +1 when the higher strike is bought.
func putVertical(strat models.Strategy, strikes []float64, net float64) float64 {
	high := strikes[len(strikes)-1]
	slope := -1.0
	if longAt(strat, models.Put, high) {
		slope = 1
	}
	return high + net/slope
}

func wings(putStrike, callStrike, premium float64) []float64 {
	return []float64{putStrike - premium, callStrike + premium}
}

func longAt(strat models.Strategy, t models.OptionType, strike float64) bool {
	for _, leg := range strat.Legs {
		if leg.Type == t && leg.Strike == strike {
			return leg.Position == models.Long
		}
	}
	return false
}

// splitStrikes returns the ascending call and put strikes, one per leg.
func splitStrikes(strat models.Strategy) (calls, puts []float64) {
	for _, leg := range strat.Legs {
		if leg.Type == models.Call {
			calls = insertSorted(calls, leg.Strike)
		} else {
			puts = insertSorted(puts, leg.Strike)
		}
	}
	return calls, puts
}

func insertSorted(xs []float64, x float64) []float64 {
	i := len(xs)
	xs = append(xs, x)
	for i > 0 && xs[i-1] > x {
		xs[i] = xs[i-1]
		i--
	}
	xs[i] = x
	return xs
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
