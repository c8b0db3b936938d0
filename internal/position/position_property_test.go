package position

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"optionlab/internal/models"
)

// legGen generates valid option legs expiring 1 to 400 days after asOf.
func legGen() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(models.Call, models.Put),
		gen.OneConstOf(models.Long, models.Short),
		gen.Float64Range(50, 150),
		gen.Float64Range(0, 2000),
		gen.IntRange(1, 10),
		gen.IntRange(1, 400),
	).Map(func(v []interface{}) models.OptionLeg {
		return models.NewOptionLeg(
			v[0].(models.OptionType),
			v[1].(models.Position),
			v[2].(float64),
			v[3].(float64),
			v[4].(int),
			asOf.AddDate(0, 0, v[5].(int)),
		)
	})
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// Property: aggregate Greeks equal the elementwise sum of per-leg Greeks for
// any leg set of 0 to 8 legs.
func TestProperty_AggregateGreeksAdditive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("aggregate == sum of legs", prop.ForAll(
		func(pool []models.OptionLeg, n int, spot float64) bool {
			if n > len(pool) {
				n = len(pool)
			}
			legs := pool[:n]
			params := models.MarketParams{Spot: spot, Rate: 0.04, Volatility: 0.25, AsOf: asOf}
			agg, err := AggregateGreeks(models.Strategy{Legs: legs}, params)
			if err != nil {
				return false
			}
			var sum models.GreeksResult
			for _, l := range legs {
				g, err := LegGreeks(l, params)
				if err != nil {
					return false
				}
				sum = sum.Add(g)
			}
			return closeEnough(agg.Delta, sum.Delta) && closeEnough(agg.Gamma, sum.Gamma) &&
				closeEnough(agg.Theta, sum.Theta) && closeEnough(agg.Vega, sum.Vega) &&
				closeEnough(agg.Rho, sum.Rho)
		},
		gen.SliceOfN(models.MaxLegs, legGen()),
		gen.IntRange(0, models.MaxLegs),
		gen.Float64Range(20, 300),
	))

	properties.TestingRun(t)
}

// Property: expiration P/L of the whole strategy equals the sum of leg P/Ls.
func TestProperty_TotalPLIsSumOfLegs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("total == sum of legs", prop.ForAll(
		func(legs []models.OptionLeg, spot float64) bool {
			total, err := TotalPL(models.Strategy{Legs: legs}, spot)
			if err != nil {
				return false
			}
			var sum float64
			for _, l := range legs {
				pl, err := LegPL(l, spot)
				if err != nil {
					return false
				}
				sum += pl
			}
			return closeEnough(total, sum)
		},
		gen.SliceOfN(8, legGen()),
		gen.Float64Range(0, 300),
	))

	properties.TestingRun(t)
}

// Property: a bounded strategy never exceeds its reported max profit or falls
// below its reported max loss anywhere on a dense price grid.
func TestProperty_ExtremaBoundTheCurve(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("max profit and max loss bound P/L", prop.ForAll(
		func(legs []models.OptionLeg) bool {
			s := models.Strategy{Legs: legs}
			profit, err := MaxProfit(s, 100)
			if err != nil {
				return false
			}
			loss, err := MaxLoss(s, 100)
			if err != nil {
				return false
			}
			c, err := NewCurve(s)
			if err != nil {
				return false
			}
			for p := 0.0; p <= 400; p += 0.25 {
				pl := c.At(p)
				if !profit.Unlimited && pl > profit.Value+1e-6 {
					return false
				}
				if !loss.Unlimited && pl < loss.Value-1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, legGen()),
	))

	properties.TestingRun(t)
}
