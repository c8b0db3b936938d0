package position

import (
	"math"
	"sort"

	"optionlab/internal/models"
)

// StrategicPricePoints returns the candidate spots where expiration P/L can
// reach an extremum. P/L is piecewise linear with kinks only at strikes, so
// the extrema lie at a kink, at zero, or in the flat tail beyond the last strike.
func StrategicPricePoints(currentPrice float64, strategy models.Strategy) []float64 {
	points := []float64{0, currentPrice}

	strikes := strategy.Strikes()
	if len(strikes) > 0 {
		lo, hi := strikes[0], strikes[len(strikes)-1]
		points = append(points, 0.5*lo, 1.5*hi, 2*hi)
		points = append(points, strikes...)
		for i := 1; i < len(strikes); i++ {
			points = append(points, (strikes[i-1]+strikes[i])/2)
		}
	}
	if strategy.Stock != nil {
		points = append(points, strategy.Stock.EntryPrice)
	}

	sort.Float64s(points)
	out := points[:0]
	for _, p := range points {
		if !(p >= 0) || math.IsInf(p, 0) {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MaxProfit returns the largest expiration P/L, or an unlimited bound.
func MaxProfit(strategy models.Strategy, currentPrice float64) (models.Extreme, error) {
	return extreme(strategy, currentPrice, HasUnlimitedProfit, math.Max)
}

// MaxLoss returns the smallest (most negative) expiration P/L, or an unlimited bound.
func MaxLoss(strategy models.Strategy, currentPrice float64) (models.Extreme, error) {
	return extreme(strategy, currentPrice, HasUnlimitedLoss, math.Min)
}

func extreme(
	strategy models.Strategy,
	currentPrice float64,
	unlimited func(models.Strategy) bool,
	pick func(a, b float64) float64,
) (models.Extreme, error) {
	if err := validateSpot(currentPrice); err != nil {
		return models.Extreme{}, err
	}
	c, err := NewCurve(strategy)
	if err != nil {
		return models.Extreme{}, err
	}
	if unlimited(strategy) {
		return models.Extreme{Unlimited: true}, nil
	}
	points := StrategicPricePoints(currentPrice, strategy)
	best := c.At(points[0])
	for _, p := range points[1:] {
		best = pick(best, c.At(p))
	}
	return models.Extreme{Value: best}, nil
}
