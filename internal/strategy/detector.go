// Package strategy classifies option leg sets into canonical strategies.
package strategy

import (
	"sort"

	"optionlab/internal/models"
)

// AnalyticalThreshold is the minimum confidence at which a closed-form
// break-even formula may be trusted. It is a false-positive safety margin:
// a leg set that only partially resembles a pattern must be solved numerically.
const AnalyticalThreshold = 0.8

// Confidence weights. Structure is a precondition for any score at all.
// Every other weight exceeds 1-AnalyticalThreshold, so failing any single
// check keeps the match below the threshold.
const (
	weightStructure = 0.20
	weightStrikes   = 0.30
	weightQuantity  = 0.25
	weightExpiry    = 0.25
)

// Match is one candidate classification with its score.
type Match struct {
	Type       models.StrategyType `json:"type"`
	Confidence float64             `json:"confidence"`
}

// Detector detects canonical strategies in a leg set.
type Detector struct {
	patterns []pattern
}

// NewDetector creates a detector over the full strategy catalogue.
func NewDetector() *Detector {
	return &Detector{patterns: catalogue()}
}

func (d *Detector) Name() string {
	return "StrategyDetector"
}

// Detect returns the best match, or Custom with zero confidence when no
// pattern's structure fits. Ties keep catalogue order.
func (d *Detector) Detect(strategy models.Strategy) models.StrategyDetection {
	matches := d.DetectAll(strategy)
	if len(matches) == 0 {
		return models.StrategyDetection{Type: models.StrategyCustom}
	}
	return models.StrategyDetection{Type: matches[0].Type, Confidence: matches[0].Confidence}
}

// DetectAll scores every pattern whose structure fits, best first.
func (d *Detector) DetectAll(strategy models.Strategy) []Match {
	if len(strategy.Legs) == 0 || len(strategy.Legs) > models.MaxLegs {
		return nil
	}
	idx, ok := index(strategy)
	if !ok {
		return nil
	}

	var matches []Match
	seen := make(map[models.StrategyType]int)
	for _, p := range d.patterns {
		if !p.fits(idx, strategy) {
			continue
		}
		m := Match{Type: p.typ, Confidence: p.score(idx, strategy)}
		if i, dup := seen[p.typ]; dup {
			if m.Confidence > matches[i].Confidence {
				matches[i] = m
			}
			continue
		}
		seen[p.typ] = len(matches)
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// Analytical reports whether a detection is confident enough for a closed form.
func Analytical(det models.StrategyDetection) bool {
	return det.Type != models.StrategyCustom && det.Confidence >= AnalyticalThreshold
}

// legIndex groups legs by kind, each group sorted by strike.
type legIndex map[models.LegKind][]models.OptionLeg

func index(strategy models.Strategy) (legIndex, bool) {
	idx := make(legIndex)
	for _, leg := range strategy.Legs {
		kind := leg.Kind()
		if kind == 0 {
			return nil, false
		}
		idx[kind] = append(idx[kind], leg)
	}
	for _, legs := range idx {
		sort.SliceStable(legs, func(i, j int) bool { return legs[i].Strike < legs[j].Strike })
	}
	return idx, true
}

func (idx legIndex) strike(kind models.LegKind, i int) float64 {
	return idx[kind][i].Strike
}

func (idx legIndex) all() []models.OptionLeg {
	var legs []models.OptionLeg
	for _, kind := range []models.LegKind{models.LongCall, models.ShortCall, models.LongPut, models.ShortPut} {
		legs = append(legs, idx[kind]...)
	}
	return legs
}

type pattern struct {
	typ      models.StrategyType
	kinds    map[models.LegKind]int
	stock    models.Position // empty when the pattern holds no stock
	strikes  func(idx legIndex) bool
	quantity func(idx legIndex, stock *models.StockLeg) bool
	calendar bool // expiries must differ
}

func (p pattern) fits(idx legIndex, strategy models.Strategy) bool {
	if len(idx) != len(p.kinds) {
		return false
	}
	if p.calendar && sameExpiry(strategy.Legs) {
		return false
	}
	for kind, n := range p.kinds {
		if len(idx[kind]) != n {
			return false
		}
	}
	if p.stock == "" {
		return strategy.Stock == nil
	}
	return strategy.Stock != nil && strategy.Stock.Position == p.stock
}

func (p pattern) score(idx legIndex, strategy models.Strategy) float64 {
	score := weightStructure
	if p.strikes == nil || p.strikes(idx) {
		score += weightStrikes
	}
	balanced := p.quantity
	if balanced == nil {
		balanced = equalQuantities
	}
	if balanced(idx, strategy.Stock) {
		score += weightQuantity
	}
	if p.calendar || sameExpiry(strategy.Legs) {
		score += weightExpiry
	}
	return score
}

// equalQuantities holds when every option leg has the same contract count and
// any stock leg covers exactly that many contracts.
func equalQuantities(idx legIndex, stock *models.StockLeg) bool {
	legs := idx.all()
	q := legs[0].Quantity
	for _, leg := range legs[1:] {
		if leg.Quantity != q {
			return false
		}
	}
	return stock == nil || stock.Quantity == q*models.ContractMultiplier
}

func sameExpiry(legs []models.OptionLeg) bool {
	for _, leg := range legs[1:] {
		if !models.CalendarDate(leg.Expiry).Equal(models.CalendarDate(legs[0].Expiry)) {
			return false
		}
	}
	return true
}
