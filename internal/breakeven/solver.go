// Package breakeven finds the spot prices at which a strategy's expiration
// P/L crosses zero.
package breakeven

import (
	"math"
	"sort"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/position"
	"optionlab/internal/strategy"
)

// Default solver tuning.
const (
	DefaultPrecision     = 0.001
	DefaultScanStep      = 0.10
	DefaultWindow        = 5.0
	DefaultWindowStep    = 0.01
	DefaultPriceRange    = 0.5
	MaxIterations        = 1000
	dedupeToleranceScale = 10
)

// Method records which path produced a result.
type Method string

const (
	MethodAnalytical Method = "analytical"
	MethodNumerical  Method = "numerical"
)

// Config tunes the numerical search.
type Config struct {
	Precision     float64 // |P/L| in dollars accepted as zero
	ScanStep      float64
	Window        float64 // half-width of the refinement window around strategic points
	WindowStep    float64
	MaxIterations int
}

// DefaultConfig returns the standard solver tuning.
func DefaultConfig() Config {
	return Config{
		Precision:     DefaultPrecision,
		ScanStep:      DefaultScanStep,
		Window:        DefaultWindow,
		WindowStep:    DefaultWindowStep,
		MaxIterations: MaxIterations,
	}
}

// Result is a solved break-even set with its provenance.
type Result struct {
	Roots     []float64                `json:"roots"`
	Method    Method                   `json:"method"`
	Detection models.StrategyDetection `json:"detection"`
}

// Solver locates break-even prices, analytically when the strategy is
// recognised with enough confidence and numerically otherwise.
type Solver struct {
	cfg      Config
	detector *strategy.Detector
}

// NewSolver creates a solver. Zero fields in cfg take their defaults.
func NewSolver(cfg Config) *Solver {
	def := DefaultConfig()
	if cfg.Precision <= 0 {
		cfg.Precision = def.Precision
	}
	if cfg.ScanStep <= 0 {
		cfg.ScanStep = def.ScanStep
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.WindowStep <= 0 {
		cfg.WindowStep = def.WindowStep
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	return &Solver{cfg: cfg, detector: strategy.NewDetector()}
}

// Config returns the effective tuning.
func (s *Solver) Config() Config {
	return s.cfg
}

// FindBreakEvens returns the sorted break-even prices of the strategy.
// priceRange is the fractional half-width of the scanned band around currentPrice.
func (s *Solver) FindBreakEvens(strat models.Strategy, currentPrice, priceRange float64) ([]float64, error) {
	res, err := s.Solve(strat, currentPrice, priceRange)
	if err != nil {
		return nil, err
	}
	return res.Roots, nil
}

// Solve is FindBreakEvens with the detection and method that produced the roots.
func (s *Solver) Solve(strat models.Strategy, currentPrice, priceRange float64) (Result, error) {
	if err := strat.RequireLegs(); err != nil {
		return Result{}, err
	}
	if !(currentPrice > 0) || math.IsInf(currentPrice, 0) {
		return Result{}, apperrors.NewValidationError("current_price", currentPrice, "must be positive")
	}
	if !(priceRange > 0) || math.IsInf(priceRange, 0) {
		return Result{}, apperrors.NewValidationError("price_range", priceRange, "must be positive")
	}
	curve, err := position.NewCurve(strat)
	if err != nil {
		return Result{}, err
	}

	det := s.detector.Detect(strat)
	if roots, ok := analyticalRoots(strat, det); ok && s.verify(curve, roots) {
		return Result{Roots: s.dedupe(roots), Method: MethodAnalytical, Detection: det}, nil
	}

	roots, err := s.numerical(curve, strat, currentPrice, priceRange)
	if err != nil {
		return Result{}, err
	}
	return Result{Roots: roots, Method: MethodNumerical, Detection: det}, nil
}

// verify accepts closed-form roots only when each one really zeroes the curve.
func (s *Solver) verify(curve *position.Curve, roots []float64) bool {
	for _, r := range roots {
		if !(r >= 0) || math.Abs(curve.At(r)) >= s.cfg.Precision {
			return false
		}
	}
	return true
}

func (s *Solver) numerical(curve *position.Curve, strat models.Strategy, currentPrice, priceRange float64) ([]float64, error) {
	lo := math.Max(0, currentPrice*(1-priceRange))
	hi := currentPrice * (1 + priceRange)

	roots, err := s.scan(curve, lo, hi, s.cfg.ScanStep)
	if err != nil {
		return nil, err
	}

	for _, p := range position.StrategicPricePoints(currentPrice, strat) {
		if math.Abs(curve.At(p)) < s.cfg.Precision && s.isBoundary(curve, p, s.cfg.WindowStep) {
			roots = append(roots, p)
		}
		found, err := s.scan(curve, math.Max(0, p-s.cfg.Window), p+s.cfg.Window, s.cfg.WindowStep)
		if err != nil {
			return nil, err
		}
		roots = append(roots, found...)
	}
	return s.dedupe(roots), nil
}

// scan walks [lo, hi] in fixed steps, bisecting every sign change and keeping
// isolated grid points that sit exactly on zero.
func (s *Solver) scan(curve *position.Curve, lo, hi, step float64) ([]float64, error) {
	n := int(math.Ceil((hi - lo) / step))
	var roots []float64

	prevX := lo
	prevF := curve.At(lo)
	if math.Abs(prevF) < s.cfg.Precision && s.isolated(curve, lo, step) {
		roots = append(roots, lo)
	}
	for i := 1; i <= n; i++ {
		x := math.Min(lo+float64(i)*step, hi)
		f := curve.At(x)
		switch {
		case math.Abs(f) < s.cfg.Precision:
			if s.isolated(curve, x, step) {
				roots = append(roots, x)
			}
		case math.Abs(prevF) >= s.cfg.Precision && math.Signbit(f) != math.Signbit(prevF):
			r, err := s.bisect(curve, prevX, x, prevF)
			if err != nil {
				return nil, err
			}
			roots = append(roots, r)
		}
		prevX, prevF = x, f
	}
	return roots, nil
}

// A flat zero region ends at a kink, so its edges are strikes. Grid points
// inside it are skipped and the edges come from the strategic point pass.

// isBoundary reports whether a zero at x has a non-zero neighbour.
func (s *Solver) isBoundary(curve *position.Curve, x, step float64) bool {
	return s.nonZero(curve, x+step) || (x-step >= 0 && s.nonZero(curve, x-step))
}

// isolated reports whether a zero at x has no zero neighbour.
func (s *Solver) isolated(curve *position.Curve, x, step float64) bool {
	return s.nonZero(curve, x+step) && (x-step < 0 || s.nonZero(curve, x-step))
}

func (s *Solver) nonZero(curve *position.Curve, x float64) bool {
	return math.Abs(curve.At(x)) >= s.cfg.Precision
}

// bisect narrows a bracketing interval until |P/L| drops below precision.
func (s *Solver) bisect(curve *position.Curve, a, b, fa float64) (float64, error) {
	lo, hi := a, b
	for i := 0; i < s.cfg.MaxIterations; i++ {
		mid := (a + b) / 2
		fm := curve.At(mid)
		if math.Abs(fm) < s.cfg.Precision {
			return mid, nil
		}
		if math.Signbit(fm) == math.Signbit(fa) {
			a, fa = mid, fm
		} else {
			b = mid
		}
	}
	return 0, apperrors.NewConvergenceError(lo, hi, s.cfg.MaxIterations)
}

// dedupe sorts roots and drops any within 10x precision of the previous one.
func (s *Solver) dedupe(roots []float64) []float64 {
	sort.Float64s(roots)
	out := make([]float64, 0, len(roots))
	tol := dedupeToleranceScale * s.cfg.Precision
	for _, r := range roots {
		if len(out) > 0 && r-out[len(out)-1] < tol {
			continue
		}
		out = append(out, r)
	}
	return out
}
