package strategy

import "optionlab/internal/models"

const (
	lc = models.LongCall
	sc = models.ShortCall
	lp = models.LongPut
	sp = models.ShortPut
)

// catalogue lists every recognised pattern. Order breaks confidence ties.
func catalogue() []pattern {
	return []pattern{
		{typ: models.StrategyLongCall, kinds: legs(lc)},
		{typ: models.StrategyShortCall, kinds: legs(sc)},
		{typ: models.StrategyLongPut, kinds: legs(lp)},
		{typ: models.StrategyShortPut, kinds: legs(sp)},

		{typ: models.StrategyBullCallSpread, kinds: legs(lc, sc), strikes: func(i legIndex) bool {
			return i.strike(lc, 0) < i.strike(sc, 0)
		}},
		{typ: models.StrategyBearCallSpread, kinds: legs(lc, sc), strikes: func(i legIndex) bool {
			return i.strike(sc, 0) < i.strike(lc, 0)
		}},
		{typ: models.StrategyBullPutSpread, kinds: legs(lp, sp), strikes: func(i legIndex) bool {
			return i.strike(lp, 0) < i.strike(sp, 0)
		}},
		{typ: models.StrategyBearPutSpread, kinds: legs(lp, sp), strikes: func(i legIndex) bool {
			return i.strike(sp, 0) < i.strike(lp, 0)
		}},

		{typ: models.StrategyLongStraddle, kinds: legs(lc, lp), strikes: func(i legIndex) bool {
			return i.strike(lc, 0) == i.strike(lp, 0)
		}},
		{typ: models.StrategyShortStraddle, kinds: legs(sc, sp), strikes: func(i legIndex) bool {
			return i.strike(sc, 0) == i.strike(sp, 0)
		}},
		{typ: models.StrategyLongStrangle, kinds: legs(lc, lp), strikes: func(i legIndex) bool {
			return i.strike(lp, 0) < i.strike(lc, 0)
		}},
		{typ: models.StrategyShortStrangle, kinds: legs(sc, sp), strikes: func(i legIndex) bool {
			return i.strike(sp, 0) < i.strike(sc, 0)
		}},
		{typ: models.StrategySyntheticLong, kinds: legs(lc, sp), strikes: func(i legIndex) bool {
			return i.strike(lc, 0) == i.strike(sp, 0)
		}},

		{typ: models.StrategyCalendarSpread, kinds: legs(lc, sc), calendar: true, strikes: func(i legIndex) bool {
			return i.strike(lc, 0) == i.strike(sc, 0)
		}},
		{typ: models.StrategyCalendarSpread, kinds: legs(lp, sp), calendar: true, strikes: func(i legIndex) bool {
			return i.strike(lp, 0) == i.strike(sp, 0)
		}},

		{typ: models.StrategyIronCondor, kinds: legs(lp, sp, sc, lc), strikes: func(i legIndex) bool {
			return ascending(i.strike(lp, 0), i.strike(sp, 0), i.strike(sc, 0), i.strike(lc, 0))
		}},
		{typ: models.StrategyReverseIronCondor, kinds: legs(sp, lp, lc, sc), strikes: func(i legIndex) bool {
			return ascending(i.strike(sp, 0), i.strike(lp, 0), i.strike(lc, 0), i.strike(sc, 0))
		}},
		{typ: models.StrategyIronButterfly, kinds: legs(lp, sp, sc, lc), strikes: func(i legIndex) bool {
			return i.strike(sp, 0) == i.strike(sc, 0) &&
				ascending(i.strike(lp, 0), i.strike(sp, 0), i.strike(lc, 0))
		}},
		{
			typ:      models.StrategyCallButterfly,
			kinds:    legs(lc, sc, lc),
			strikes:  func(i legIndex) bool { return butterflyStrikes(i, lc, sc) },
			quantity: func(i legIndex, _ *models.StockLeg) bool { return butterflyQuantity(i, lc, sc) },
		},
		{
			typ:      models.StrategyPutButterfly,
			kinds:    legs(lp, sp, lp),
			strikes:  func(i legIndex) bool { return butterflyStrikes(i, lp, sp) },
			quantity: func(i legIndex, _ *models.StockLeg) bool { return butterflyQuantity(i, lp, sp) },
		},

		{typ: models.StrategyCoveredCall, kinds: legs(sc), stock: models.Long},
		{typ: models.StrategyProtectivePut, kinds: legs(lp), stock: models.Long},
		{typ: models.StrategyCollar, kinds: legs(lp, sc), stock: models.Long, strikes: func(i legIndex) bool {
			return i.strike(lp, 0) < i.strike(sc, 0)
		}},
	}
}

func legs(kinds ...models.LegKind) map[models.LegKind]int {
	m := make(map[models.LegKind]int, len(kinds))
	for _, k := range kinds {
		m[k]++
	}
	return m
}

func ascending(strikes ...float64) bool {
	for i := 1; i < len(strikes); i++ {
		if strikes[i-1] >= strikes[i] {
			return false
		}
	}
	return true
}

// butterflyStrikes requires the body strictly inside the wings at equal distance.
func butterflyStrikes(i legIndex, wing, body models.LegKind) bool {
	lo, mid, hi := i.strike(wing, 0), i.strike(body, 0), i.strike(wing, 1)
	if !ascending(lo, mid, hi) {
		return false
	}
	lower, upper := mid-lo, hi-mid
	return lower == upper || abs(lower-upper) <= 1e-9*hi
}

// butterflyQuantity requires equal wings and a body of twice the wing size.
func butterflyQuantity(i legIndex, wing, body models.LegKind) bool {
	w := i[wing]
	return w[0].Quantity == w[1].Quantity && i[body][0].Quantity == 2*w[0].Quantity
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
