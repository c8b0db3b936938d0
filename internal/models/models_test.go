package models

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionlab/internal/errors"
)

func TestPremiumUnitConversion(t *testing.T) {
	assert.Equal(t, 5.0, PremiumPerShare(500))
	assert.Equal(t, 2.35, PremiumPerShare(235))
	assert.Equal(t, 500.0, PremiumPerContract(5))
	assert.Equal(t, 0.0, PremiumPerShare(0))

	leg := NewOptionLeg(Call, Long, 100, 512.25, 2, time.Now())
	assert.Equal(t, 5.1225, leg.PremiumPerShare())
	assert.Equal(t, 200.0, leg.Shares())
}

// Property: a cent-precise per-contract premium survives conversion to the
// per-share quote and back without an off-by-100 or rounding drift.
func TestProperty_PremiumRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("contract -> share -> contract is identity", prop.ForAll(
		func(cents int64) bool {
			perContract := float64(cents) / 100
			return PremiumPerContract(PremiumPerShare(perContract)) == perContract
		},
		gen.Int64Range(0, 10_000_000),
	))

	properties.TestingRun(t)
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		typ  OptionType
		pos  Position
		want LegKind
	}{
		{Call, Long, LongCall},
		{Call, Short, ShortCall},
		{Put, Long, LongPut},
		{Put, Short, ShortPut},
	}
	for _, tc := range cases {
		k, ok := KindOf(tc.typ, tc.pos)
		require.True(t, ok)
		assert.Equal(t, tc.want, k)
		assert.Equal(t, tc.typ, k.Type())
		assert.Equal(t, tc.pos, k.Position())
	}

	_, ok := KindOf("STRADDLE", Long)
	assert.False(t, ok)
	assert.Equal(t, LegKind(0), OptionLeg{Type: Call}.Kind())
}

func TestOptionLegValidate(t *testing.T) {
	expiry := time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC)
	valid := NewOptionLeg(Put, Short, 95, 120, 1, expiry)
	require.NoError(t, valid.Validate())

	bad := []OptionLeg{
		{Type: Call, Position: Long, Strike: 0, Premium: 1, Quantity: 1},
		{Type: Call, Position: Long, Strike: -5, Premium: 1, Quantity: 1},
		{Type: Call, Position: Long, Strike: 100, Premium: -1, Quantity: 1},
		{Type: Call, Position: Long, Strike: 100, Premium: 1, Quantity: 0},
		{Type: "X", Position: Long, Strike: 100, Premium: 1, Quantity: 1},
		{Type: Call, Position: "FLAT", Strike: 100, Premium: 1, Quantity: 1},
		valid.WithVolatility(-0.2),
	}
	for _, leg := range bad {
		err := leg.Validate()
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	}
}

func TestStrategyValidate(t *testing.T) {
	expiry := time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC)
	var legs []OptionLeg
	for i := 0; i < MaxLegs+1; i++ {
		legs = append(legs, NewOptionLeg(Call, Long, 100+float64(i), 100, 1, expiry))
	}

	assert.NoError(t, Strategy{Legs: legs[:MaxLegs]}.Validate())
	assert.ErrorIs(t, Strategy{Legs: legs}.Validate(), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, Strategy{}.RequireLegs(), apperrors.ErrInvalidInput)
	assert.NoError(t, Strategy{Stock: &StockLeg{Position: Long, EntryPrice: 50, Quantity: 100}}.RequireLegs())
	assert.ErrorIs(t, Strategy{Stock: &StockLeg{Position: Long, EntryPrice: 0, Quantity: 100}}.Validate(), apperrors.ErrInvalidInput)
}

func TestStrategyHelpers(t *testing.T) {
	near := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	far := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	s := Strategy{Legs: []OptionLeg{
		NewOptionLeg(Call, Short, 105, 200, 1, near),
		NewOptionLeg(Call, Long, 100, 500, 1, far),
		NewOptionLeg(Put, Long, 100, 300, 1, near),
	}}
	assert.Equal(t, []float64{100, 105}, s.Strikes())
	assert.Equal(t, far, s.LatestExpiry())
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	to := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, DaysBetween(from, to))
	assert.Equal(t, -7, DaysBetween(to, from))
	assert.Equal(t, 0, DaysBetween(from, from.Add(2*time.Hour)))

	d, err := ParseDate("2026-12-18")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC), d)
}
