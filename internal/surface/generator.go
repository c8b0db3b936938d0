// Package surface builds the price x date P/L matrix behind the heatmap.
package surface

import (
	"math"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/position"
	"optionlab/internal/pricing"
)

// Defaults for Options.
const (
	DefaultPriceRange    = 0.5
	DefaultRenderHeight  = 400
	DefaultMinCellHeight = 20
)

// Options control the grid.
type Options struct {
	PriceRange    float64 // fractional half-width of the price ladder around spot
	RenderHeight  int
	MinCellHeight int
	Workers       int
	Resolution    Resolution
}

// DefaultOptions returns options using the step resolution and every CPU.
func DefaultOptions() Options {
	return Options{
		PriceRange:    DefaultPriceRange,
		RenderHeight:  DefaultRenderHeight,
		MinCellHeight: DefaultMinCellHeight,
		Workers:       runtime.NumCPU(),
		Resolution:    DefaultResolution(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PriceRange <= 0 {
		o.PriceRange = def.PriceRange
	}
	if o.RenderHeight <= 0 {
		o.RenderHeight = def.RenderHeight
	}
	if o.MinCellHeight <= 0 {
		o.MinCellHeight = def.MinCellHeight
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.Resolution == nil {
		o.Resolution = def.Resolution
	}
	return o
}

// Surface is the P/L matrix. Values[i][j] is the mark-to-model P/L in dollars
// at Prices[i] on Dates[j]. Prices ascend; Dates run from the valuation
// instant to the latest expiry.
type Surface struct {
	Prices []float64   `json:"prices"`
	Dates  []time.Time `json:"dates"`
	Values [][]float64 `json:"values"`
	Spot   float64     `json:"spot"`
}

// Generator evaluates surfaces.
type Generator struct{}

// NewGenerator creates a generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate evaluates the strategy over a price ladder centred on spot and a
// date ladder ending at the latest expiry. The final column is the
// expiration payoff.
// Rows are computed in parallel; each worker owns whole rows.
func (g *Generator) Generate(strat models.Strategy, params models.MarketParams, opts Options) (*Surface, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.AsOf.IsZero() {
		return nil, apperrors.NewValidationError("as_of", params.AsOf, "valuation date is required")
	}
	if len(strat.Legs) == 0 {
		return nil, apperrors.NewValidationError("legs", 0, "at least one option leg is required")
	}
	curve, err := position.NewCurve(strat)
	if err != nil {
		return nil, err
	}
	if math.IsInf(opts.PriceRange, 0) || math.IsNaN(opts.PriceRange) {
		return nil, apperrors.NewValidationError("price_range", opts.PriceRange, "must be finite")
	}
	opts = opts.withDefaults()

	end := models.CalendarDate(strat.LatestExpiry())
	if pricing.Expired(end, params.AsOf) {
		return nil, apperrors.NewValidationError("expiry", end.Format(models.DateLayout), "every leg has already expired")
	}
	// On the expiry date itself the ladder collapses onto the valuation instant.
	if params.AsOf.After(end) {
		end = params.AsOf
	}

	days := end.Sub(params.AsOf).Hours() / 24
	prices := PriceLadder(params.Spot, opts.PriceRange, opts.Resolution.Rows(opts.RenderHeight, opts.MinCellHeight))
	dates := DateLadder(params.AsOf, end, opts.Resolution.Columns(days))

	values := make([][]float64, len(prices))
	p := pool.New().WithMaxGoroutines(opts.Workers)
	for i, price := range prices {
		i, price := i, price
		p.Go(func() {
			row := make([]float64, len(dates))
			last := len(dates) - 1
			for j, at := range dates[:last] {
				row[j] = curve.TheoreticalAt(price, at, params.Rate, params.Volatility)
			}
			row[last] = curve.At(price)
			values[i] = row
		})
	}
	p.Wait()

	return &Surface{Prices: prices, Dates: dates, Values: values, Spot: params.Spot}, nil
}

// PriceLadder returns n ascending prices spanning spot +/- priceRange,
// floored at zero.
func PriceLadder(spot, priceRange float64, n int) []float64 {
	lo := math.Max(0, spot*(1-priceRange))
	hi := spot * (1 + priceRange)
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return prices
}

// DateLadder returns n instants evenly spaced from start to end inclusive.
func DateLadder(start, end time.Time, n int) []time.Time {
	span := end.Sub(start)
	dates := make([]time.Time, n)
	for j := range dates {
		dates[j] = start.Add(time.Duration(float64(span) * float64(j) / float64(n-1)))
	}
	dates[n-1] = end
	return dates
}
