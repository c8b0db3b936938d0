package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

const tolerance = 1e-9

func TestPayoffPrimitives(t *testing.T) {
	assert.Equal(t, 5.0, CallPayoffLong(110, 100, 5))
	assert.Equal(t, -5.0, CallPayoffLong(90, 100, 5))
	assert.Equal(t, -10.0, CallPayoffShort(115, 100, 5))
	assert.Equal(t, 5.0, CallPayoffShort(95, 100, 5))
	assert.Equal(t, 6.0, PutPayoffLong(90, 100, 4))
	assert.Equal(t, -4.0, PutPayoffLong(120, 100, 4))
	assert.Equal(t, -6.0, PutPayoffShort(90, 100, 4))
	assert.Equal(t, 4.0, PutPayoffShort(120, 100, 4))
	assert.Equal(t, 10.0, StockPayoff(110, 100, true))
	assert.Equal(t, -10.0, StockPayoff(110, 100, false))
	assert.True(t, math.IsNaN(Payoff(0, 100, 100, 1)))
}

func TestContractPL(t *testing.T) {
	t.Run("long call scenario", func(t *testing.T) {
		pl, err := LongCallPL(110, 100, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, 500.0, pl)
	})

	t.Run("short call scenario", func(t *testing.T) {
		pl, err := ShortCallPL(115, 100, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, -1000.0, pl)
	})

	t.Run("break-even boundary", func(t *testing.T) {
		pl, err := LongCallPL(105, 100, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, pl)

		pl, err = LongCallPL(0, 100, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, -500.0, pl)

		big, err := LongCallPL(1e9, 100, 5, 1)
		require.NoError(t, err)
		assert.Greater(t, big, 1e10)
	})

	t.Run("puts scale by quantity", func(t *testing.T) {
		pl, err := LongPutPL(90, 100, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, 1400.0, pl)

		pl, err = ShortPutPL(90, 100, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, -1400.0, pl)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := LongCallPL(-1, 100, 5, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = LongCallPL(100, 0, 5, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = LongCallPL(100, 100, -1, 1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = LongCallPL(100, 100, 5, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestNormCDFAccuracy(t *testing.T) {
	for x := -8.0; x <= 8.0; x += 0.01 {
		exact := 0.5 * math.Erfc(-x/math.Sqrt2)
		assert.InDelta(t, exact, NormCDF(x), 1.5e-7, "x=%.2f", x)
	}
	assert.InDelta(t, 0.5, NormCDF(0), 1e-7)
	assert.Equal(t, 1.0, NormCDF(math.Inf(1)))
	assert.Equal(t, 0.0, NormCDF(math.Inf(-1)))
	assert.True(t, math.IsNaN(NormCDF(math.NaN())))
	assert.InDelta(t, 0.3989422804, NormPDF(0), 1e-10)
}

func TestBlackScholesATMCall(t *testing.T) {
	price := CallPrice(100, 100, 0.25, 0.05, 0.30)
	assert.Greater(t, price, 4.0)
	assert.Less(t, price, 7.0)
	assert.InDelta(t, 6.58, price, 0.01)

	assert.Equal(t, 0.0, CallPrice(100, 100, 0, 0.05, 0.30))
	assert.Equal(t, 15.0, CallPrice(115, 100, 0, 0.05, 0.30))
	assert.Equal(t, 15.0, PutPrice(85, 100, -0.1, 0.05, 0.30))
}

func TestBlackScholesZeroVolatility(t *testing.T) {
	disc := 100 * math.Exp(-0.05*0.5)
	assert.InDelta(t, 110-disc, CallPrice(110, 100, 0.5, 0.05, 0), tolerance)
	assert.Equal(t, 0.0, CallPrice(90, 100, 0.5, 0.05, 0))
	assert.InDelta(t, disc-90, PutPrice(90, 100, 0.5, 0.05, 0), tolerance)
	assert.Equal(t, 0.0, PutPrice(110, 100, 0.5, 0.05, 0))
	assert.Equal(t, CallPrice(100, 95, 0.5, 0.03, 0.2), Price(models.Call, 100, 95, 0.5, 0.03, 0.2))
	assert.Equal(t, PutPrice(100, 95, 0.5, 0.03, 0.2), Price(models.Put, 100, 95, 0.5, 0.03, 0.2))
}

func TestGreeksKnownValues(t *testing.T) {
	g := Greeks(models.Call, 100, 100, 0.25, 0.05, 0.30)
	assert.InDelta(t, 0.5629, g.Delta, 1e-3)
	assert.InDelta(t, 0.0262, g.Gamma, 1e-3)
	assert.InDelta(t, 0.1970, g.Vega, 1e-3)
	assert.Less(t, g.Theta, 0.0)
	assert.Greater(t, g.Rho, 0.0)

	p := Greeks(models.Put, 100, 100, 0.25, 0.05, 0.30)
	assert.InDelta(t, g.Delta-1, p.Delta, tolerance)
	assert.InDelta(t, g.Gamma, p.Gamma, tolerance)
	assert.InDelta(t, g.Vega, p.Vega, tolerance)
	assert.Less(t, p.Rho, 0.0)
}

func TestGreeksDegenerate(t *testing.T) {
	t.Run("expired is a step at the strike", func(t *testing.T) {
		assert.Equal(t, 1.0, Greeks(models.Call, 110, 100, 0, 0.05, 0.3).Delta)
		assert.Equal(t, 0.0, Greeks(models.Call, 90, 100, 0, 0.05, 0.3).Delta)
		assert.Equal(t, 0.0, Greeks(models.Call, 100, 100, 0, 0.05, 0.3).Delta)
		assert.Equal(t, -1.0, Greeks(models.Put, 90, 100, 0, 0.05, 0.3).Delta)
		assert.Equal(t, 0.0, Greeks(models.Put, 110, 100, 0, 0.05, 0.3).Delta)

		g := Greeks(models.Call, 110, 100, 0, 0.05, 0.3)
		assert.Zero(t, g.Gamma)
		assert.Zero(t, g.Vega)
		assert.Zero(t, g.Theta)
		assert.Zero(t, g.Rho)
	})

	t.Run("zero volatility with time left", func(t *testing.T) {
		g := Greeks(models.Call, 110, 100, 0.5, 0.05, 0)
		assert.Equal(t, 1.0, g.Delta)
		assert.Zero(t, g.Gamma)
		assert.Zero(t, g.Vega)
		assert.Less(t, g.Theta, 0.0)
		assert.Greater(t, g.Rho, 0.0)

		p := Greeks(models.Put, 90, 100, 0.5, 0.05, 0)
		assert.Equal(t, -1.0, p.Delta)
		assert.Greater(t, p.Theta, 0.0)
		assert.Less(t, p.Rho, 0.0)
	})
}

func TestYearsToExpiry(t *testing.T) {
	expiry := time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 30/DaysPerYear, YearsToExpiry(expiry, expiry.AddDate(0, 0, -30)), tolerance)
	assert.InDelta(t, 1/DaysPerYear, YearsToExpiry(expiry, expiry.Add(-6*time.Hour)), tolerance)
	assert.Equal(t, 0.0, YearsToExpiry(expiry, expiry.AddDate(0, 0, 3)))
	assert.Equal(t, 0.0, YearsToExpiry(expiry, expiry.AddDate(0, 0, 1)))

	assert.True(t, Expired(expiry, expiry.AddDate(0, 0, 1)))
	assert.False(t, Expired(expiry, expiry.Add(-time.Minute)))
}

func TestSameDayExpiryKeepsOneDayFloor(t *testing.T) {
	expiry := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{
		expiry,
		expiry.Add(10 * time.Hour),
		expiry.Add(23*time.Hour + 59*time.Minute),
	} {
		assert.False(t, Expired(expiry, at), at)
		assert.InDelta(t, 1/DaysPerYear, YearsToExpiry(expiry, at), tolerance, at)
	}

	// An ATM option on its last day still carries time value and live Greeks.
	tte := YearsToExpiry(expiry, expiry.Add(10*time.Hour))
	assert.Greater(t, CallPrice(100, 100, tte, 0.05, 0.3), 0.0)
	g := Greeks(models.Call, 100, 100, tte, 0.05, 0.3)
	assert.InDelta(t, 0.5, g.Delta, 0.05)
	assert.Greater(t, g.Gamma, 0.0)
	assert.Greater(t, g.Vega, 0.0)
	assert.Less(t, g.Theta, 0.0)
}

func TestMoneyness(t *testing.T) {
	assert.Equal(t, models.ATM, Moneyness(models.Call, 100.2, 100))
	assert.Equal(t, models.ITM, Moneyness(models.Call, 110, 100))
	assert.Equal(t, models.OTM, Moneyness(models.Call, 90, 100))
	assert.Equal(t, models.ITM, Moneyness(models.Put, 90, 100))
	assert.Equal(t, models.OTM, Moneyness(models.Put, 110, 100))
}

func TestClassifyExpiry(t *testing.T) {
	asOf := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		expiry time.Time
		want   models.ExpiryType
		days   int
	}{
		{time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC), models.ExpiryWeekly, 4},
		{time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), models.ExpiryMonthly, 32},
		{time.Date(2027, 12, 17, 0, 0, 0, 0, time.UTC), models.ExpiryLeaps, 424},
		{time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), models.ExpiryExpired, -3},
	}
	for _, tc := range cases {
		info := ClassifyExpiry(tc.expiry, asOf)
		assert.Equal(t, tc.want, info.Type, tc.expiry.String())
		assert.Equal(t, tc.days, info.DaysUntil)
	}
}
