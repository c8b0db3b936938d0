// Package analyzer combines the engine packages into a single strategy report
// and is the layer that logs engine activity.
package analyzer

import (
	"context"
	"math"
	"time"

	"optionlab/internal/breakeven"
	"optionlab/internal/logging"
	"optionlab/internal/models"
	"optionlab/internal/position"
	"optionlab/internal/strategy"
	"optionlab/internal/surface"
)

// Report is a complete snapshot of a strategy under one set of market inputs.
type Report struct {
	Name          string                   `json:"name,omitempty" yaml:"name,omitempty"`
	Params        models.MarketParams      `json:"params" yaml:"params"`
	Detection     models.StrategyDetection `json:"detection" yaml:"detection"`
	NetPremium    float64                  `json:"net_premium" yaml:"net_premium"`
	ExpirationPL  float64                  `json:"expiration_pl" yaml:"expiration_pl"`
	TheoreticalPL float64                  `json:"theoretical_pl" yaml:"theoretical_pl"`
	MaxProfit     models.Extreme           `json:"max_profit" yaml:"max_profit"`
	MaxLoss       models.Extreme           `json:"max_loss" yaml:"max_loss"`
	BreakEvens    []float64                `json:"break_evens" yaml:"break_evens"`
	BreakEvenMode breakeven.Method         `json:"break_even_method" yaml:"break_even_method"`
	Greeks        models.GreeksResult      `json:"greeks" yaml:"greeks"`
	Legs          []models.LegValuation    `json:"legs" yaml:"legs"`
	RiskReward    *float64                 `json:"risk_reward,omitempty" yaml:"risk_reward,omitempty"`
	UnlimitedRisk bool                     `json:"unlimited_risk" yaml:"unlimited_risk"`
	DaysToExpiry  int                      `json:"days_to_expiry" yaml:"days_to_expiry"`
}

// Options tunes an analysis.
type Options struct {
	PriceRange float64 // fractional half-width of the break-even search band
}

// Analyzer runs the detector, solver and surface generator for callers that
// want one report per strategy.
type Analyzer struct {
	detector  *strategy.Detector
	solver    *breakeven.Solver
	generator *surface.Generator
	opts      Options
}

// New creates an analyzer around a configured solver.
func New(solver *breakeven.Solver, opts Options) *Analyzer {
	if solver == nil {
		solver = breakeven.NewSolver(breakeven.DefaultConfig())
	}
	if opts.PriceRange <= 0 {
		opts.PriceRange = breakeven.DefaultPriceRange
	}
	return &Analyzer{
		detector:  strategy.NewDetector(),
		solver:    solver,
		generator: surface.NewGenerator(),
		opts:      opts,
	}
}

// Detect classifies the strategy.
func (a *Analyzer) Detect(strat models.Strategy) models.StrategyDetection {
	return a.detector.Detect(strat)
}

// BreakEvens solves the strategy's break-even prices around spot and logs the outcome.
func (a *Analyzer) BreakEvens(ctx context.Context, strat models.Strategy, spot float64) (breakeven.Result, error) {
	logger := logging.WithOperation(logging.FromContext(ctx), "breakeven")
	res, err := a.solver.Solve(strat, spot, a.opts.PriceRange)
	logging.LogBreakEvens(logger, string(res.Method), res.Roots, err)
	return res, err
}

// Analyze builds the full report. A zero AsOf means now.
func (a *Analyzer) Analyze(ctx context.Context, strat models.Strategy, params models.MarketParams) (*Report, error) {
	start := time.Now()
	logger := logging.WithStrategy(logging.FromContext(ctx), strat.Name, len(strat.Legs))

	if params.AsOf.IsZero() {
		params.AsOf = time.Now().UTC()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := strat.RequireLegs(); err != nil {
		return nil, err
	}

	curve, err := position.NewCurve(strat)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:          strat.Name,
		Params:        params,
		NetPremium:    position.NetPremium(strat),
		ExpirationPL:  curve.At(params.Spot),
		TheoreticalPL: curve.TheoreticalAt(params.Spot, params.AsOf, params.Rate, params.Volatility),
		UnlimitedRisk: position.HasUnlimitedLoss(strat),
	}
	if len(strat.Legs) > 0 {
		report.DaysToExpiry = models.DaysBetween(params.AsOf, strat.LatestExpiry())
	}

	if report.MaxProfit, err = position.MaxProfit(strat, params.Spot); err != nil {
		return nil, err
	}
	if report.MaxLoss, err = position.MaxLoss(strat, params.Spot); err != nil {
		return nil, err
	}
	report.RiskReward = riskReward(report.MaxProfit, report.MaxLoss)

	res, err := a.BreakEvens(logging.WithLogger(ctx, logger), strat, params.Spot)
	if err != nil {
		return nil, err
	}
	report.BreakEvens = res.Roots
	report.BreakEvenMode = res.Method
	report.Detection = res.Detection

	if report.Greeks, err = position.AggregateGreeks(strat, params); err != nil {
		return nil, err
	}
	report.Legs = make([]models.LegValuation, 0, len(strat.Legs))
	for _, leg := range strat.Legs {
		v, err := position.ValueLeg(leg, params)
		if err != nil {
			return nil, err
		}
		report.Legs = append(report.Legs, v)
	}

	logging.LogAnalysis(logger, string(report.Detection.Type), report.Detection.Confidence, report.NetPremium, time.Since(start))
	return report, nil
}

// Surface generates the P/L surface and logs its shape.
func (a *Analyzer) Surface(ctx context.Context, strat models.Strategy, params models.MarketParams, opts surface.Options) (*surface.Surface, error) {
	start := time.Now()
	logger := logging.WithOperation(logging.FromContext(ctx), "surface")

	if params.AsOf.IsZero() {
		params.AsOf = time.Now().UTC()
	}
	s, err := a.generator.Generate(strat, params, opts)
	if err != nil {
		logger.Debug().Err(err).Msg("Surface generation failed")
		return nil, err
	}

	var cols int
	if len(s.Values) > 0 {
		cols = len(s.Values[0])
	}
	logging.LogSurface(logger, len(s.Values), cols, opts.Workers, time.Since(start))
	return s, nil
}

// riskReward is max profit over max loss, or nil when either side is
// unlimited or the strategy cannot lose.
func riskReward(profit, loss models.Extreme) *float64 {
	if profit.Unlimited || loss.Unlimited || loss.Value >= 0 {
		return nil
	}
	ratio := profit.Value / math.Abs(loss.Value)
	return &ratio
}
