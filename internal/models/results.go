package models

// GreeksResult holds position sensitivities in dollar terms.
// Delta is in equivalent shares, Theta in dollars per calendar day,
// Vega and Rho in dollars per one percentage point.
type GreeksResult struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Add returns the elementwise sum of g and o.
func (g GreeksResult) Add(o GreeksResult) GreeksResult {
	return GreeksResult{
		Delta: g.Delta + o.Delta,
		Gamma: g.Gamma + o.Gamma,
		Theta: g.Theta + o.Theta,
		Vega:  g.Vega + o.Vega,
		Rho:   g.Rho + o.Rho,
	}
}

// Scale multiplies every Greek by f.
func (g GreeksResult) Scale(f float64) GreeksResult {
	return GreeksResult{
		Delta: g.Delta * f,
		Gamma: g.Gamma * f,
		Theta: g.Theta * f,
		Vega:  g.Vega * f,
		Rho:   g.Rho * f,
	}
}

// StrategyType names a canonical options strategy.
type StrategyType string

const (
	StrategyLongCall          StrategyType = "long_call"
	StrategyShortCall         StrategyType = "short_call"
	StrategyLongPut           StrategyType = "long_put"
	StrategyShortPut          StrategyType = "short_put"
	StrategyBullCallSpread    StrategyType = "bull_call_spread"
	StrategyBearCallSpread    StrategyType = "bear_call_spread"
	StrategyBullPutSpread     StrategyType = "bull_put_spread"
	StrategyBearPutSpread     StrategyType = "bear_put_spread"
	StrategyLongStraddle      StrategyType = "long_straddle"
	StrategyShortStraddle     StrategyType = "short_straddle"
	StrategyLongStrangle      StrategyType = "long_strangle"
	StrategyShortStrangle     StrategyType = "short_strangle"
	StrategyIronCondor        StrategyType = "iron_condor"
	StrategyReverseIronCondor StrategyType = "reverse_iron_condor"
	StrategyIronButterfly     StrategyType = "iron_butterfly"
	StrategyCallButterfly     StrategyType = "call_butterfly"
	StrategyPutButterfly      StrategyType = "put_butterfly"
	StrategyCoveredCall       StrategyType = "covered_call"
	StrategyProtectivePut     StrategyType = "protective_put"
	StrategyCollar            StrategyType = "collar"
	StrategySyntheticLong     StrategyType = "synthetic_long"
	StrategyCalendarSpread    StrategyType = "calendar_spread"
	StrategyCustom            StrategyType = "custom"
)

// StrategyDetection is the outcome of pattern matching a leg set.
type StrategyDetection struct {
	Type       StrategyType `json:"type"`
	Confidence float64      `json:"confidence"`
}

// Extreme is a profit or loss bound. Unlimited means no finite bound exists.
type Extreme struct {
	Value     float64 `json:"value"`
	Unlimited bool    `json:"unlimited"`
}

// LegValuation breaks one leg's mark-to-model value down.
type LegValuation struct {
	LegID       string       `json:"leg_id"`
	Kind        string       `json:"kind"`
	Moneyness   Moneyness    `json:"moneyness"`
	Theoretical float64      `json:"theoretical"` // per share
	Intrinsic   float64      `json:"intrinsic"`   // per share
	TimeValue   float64      `json:"time_value"`  // per share
	PL          float64      `json:"pl"`          // dollars, mark-to-model
	Greeks      GreeksResult `json:"greeks"`
}

// Moneyness classifies a strike relative to spot.
type Moneyness string

const (
	ITM Moneyness = "ITM"
	ATM Moneyness = "ATM"
	OTM Moneyness = "OTM"
)

// ExpiryType classifies an expiry date.
type ExpiryType string

const (
	ExpiryWeekly  ExpiryType = "weekly"
	ExpiryMonthly ExpiryType = "monthly"
	ExpiryLeaps   ExpiryType = "leaps"
	ExpiryExpired ExpiryType = "expired"
)

// ExpiryInfo describes an expiry relative to a valuation date.
type ExpiryInfo struct {
	Date      string     `json:"date"`
	Type      ExpiryType `json:"type"`
	DaysUntil int        `json:"days_until_expiry"`
	Standard  bool       `json:"is_standard"`
}
