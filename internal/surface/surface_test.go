package surface

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/position"
)

var (
	asOf   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	expiry = time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC)
	market = models.MarketParams{Spot: 100, Rate: 0.05, Volatility: 0.30, AsOf: asOf}
)

func bullCallSpread() models.Strategy {
	return models.Strategy{Legs: []models.OptionLeg{
		models.NewOptionLeg(models.Call, models.Long, 100, 500, 1, expiry),
		models.NewOptionLeg(models.Call, models.Short, 105, 200, 1, expiry),
	}}
}

func TestStepResolution(t *testing.T) {
	r := DefaultResolution()

	cols := map[float64]int{1: 48, 7: 48, 8: 40, 14: 40, 30: 32, 45: 26, 60: 26, 90: 22, 91: 20, 400: 20}
	for days, want := range cols {
		assert.Equal(t, want, r.Columns(days), "days=%v", days)
	}

	assert.Equal(t, 20, r.Rows(400, 20))
	assert.Equal(t, 15, r.Rows(300, 20))
	assert.Equal(t, 9, r.Rows(100, 20))
	assert.Equal(t, 20, r.Rows(1000, 10))
	assert.Equal(t, 9, r.Rows(400, 0))
}

func TestGenerateGrid(t *testing.T) {
	s := bullCallSpread()
	surf, err := NewGenerator().Generate(s, market, DefaultOptions())
	require.NoError(t, err)

	// 60 days out, 400px at 20px per row.
	require.Len(t, surf.Dates, 26)
	require.Len(t, surf.Prices, 20)
	require.Len(t, surf.Values, 20)

	assert.Equal(t, asOf, surf.Dates[0])
	assert.Equal(t, expiry, surf.Dates[len(surf.Dates)-1])
	assert.InDelta(t, 50, surf.Prices[0], 1e-9)
	assert.InDelta(t, 150, surf.Prices[len(surf.Prices)-1], 1e-9)
	for i := 1; i < len(surf.Prices); i++ {
		assert.Greater(t, surf.Prices[i], surf.Prices[i-1])
	}
	for j := 1; j < len(surf.Dates); j++ {
		assert.True(t, surf.Dates[j].After(surf.Dates[j-1]))
	}

	last := surf.Column(len(surf.Dates) - 1)
	for i, price := range surf.Prices {
		require.Len(t, surf.Values[i], len(surf.Dates))

		atExpiry, err := position.TotalPL(s, price)
		require.NoError(t, err)
		assert.InDelta(t, atExpiry, last[i], 1e-9)

		mid, err := position.TheoreticalPL(s, price, surf.Dates[10], market)
		require.NoError(t, err)
		assert.Equal(t, mid, surf.Values[i][10])
	}
}

func TestGenerateOnExpiryDate(t *testing.T) {
	s := bullCallSpread()
	sameDay := market
	sameDay.AsOf = expiry.Add(10 * time.Hour)

	surf, err := NewGenerator().Generate(s, sameDay, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, sameDay.AsOf, surf.Dates[len(surf.Dates)-1])

	last := surf.Column(len(surf.Dates) - 1)
	for i, price := range surf.Prices {
		atExpiry, err := position.TotalPL(s, price)
		require.NoError(t, err)
		assert.InDelta(t, atExpiry, last[i], 1e-9)

		// Legs are still alive on their last day, so the first column keeps time value.
		live, err := position.TheoreticalPL(s, price, sameDay.AsOf, sameDay)
		require.NoError(t, err)
		assert.Equal(t, live, surf.Values[i][0])
	}
}

func TestGenerateIsDeterministicAcrossWorkers(t *testing.T) {
	g := NewGenerator()
	serial := DefaultOptions()
	serial.Workers = 1
	parallel := DefaultOptions()
	parallel.Workers = 8

	a, err := g.Generate(bullCallSpread(), market, serial)
	require.NoError(t, err)
	b, err := g.Generate(bullCallSpread(), market, parallel)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type fixedResolution struct{ rows, cols int }

func (f fixedResolution) Columns(float64) int { return f.cols }
func (f fixedResolution) Rows(int, int) int   { return f.rows }

func TestGenerateWithCustomResolution(t *testing.T) {
	surf, err := NewGenerator().Generate(bullCallSpread(), market, Options{
		PriceRange: 0.2,
		Resolution: fixedResolution{rows: 5, cols: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{80, 90, 100, 110, 120}, roundAll(surf.Prices))
	assert.Len(t, surf.Dates, 3)
	assert.Equal(t, asOf.Add(expiry.Sub(asOf)/2), surf.Dates[1])
}

func TestGenerateValidation(t *testing.T) {
	g := NewGenerator()

	_, err := g.Generate(models.Strategy{}, market, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	expired := market
	expired.AsOf = expiry.AddDate(0, 0, 1)
	_, err = g.Generate(bullCallSpread(), expired, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = g.Generate(bullCallSpread(), models.MarketParams{Spot: 0, AsOf: asOf}, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = g.Generate(bullCallSpread(), models.MarketParams{Spot: 100}, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSummarize(t *testing.T) {
	surf := &Surface{
		Prices: []float64{90, 110},
		Dates:  []time.Time{asOf, expiry},
		Values: [][]float64{{-1, 0}, {2, 3}},
	}
	sum, err := Summarize(surf)
	require.NoError(t, err)
	assert.Equal(t, -1.0, sum.Min)
	assert.Equal(t, 3.0, sum.Max)
	assert.Equal(t, 1.0, sum.Mean)
	assert.Equal(t, 1.0, sum.Median)
	assert.Equal(t, -1.0, sum.P10)
	assert.Equal(t, 3.0, sum.P90)
	assert.Equal(t, 0.5, sum.ProfitableShare)

	_, err = Summarize(&Surface{})
	assert.Error(t, err)
}

func TestSummarizeSmallGrid(t *testing.T) {
	surf, err := NewGenerator().Generate(bullCallSpread(), market, Options{
		Resolution: fixedResolution{rows: 3, cols: 2},
	})
	require.NoError(t, err)
	require.Len(t, surf.Prices, 3)
	require.Len(t, surf.Dates, 2)

	sum, err := Summarize(surf)
	require.NoError(t, err)
	assert.Equal(t, sum.Min, sum.P10)
	assert.Equal(t, sum.Max, sum.P90)
	assert.LessOrEqual(t, sum.Min, sum.Median)
	assert.LessOrEqual(t, sum.Median, sum.Max)
}

func TestWriteCSV(t *testing.T) {
	surf := &Surface{
		Prices: []float64{95, 105},
		Dates:  []time.Time{asOf, expiry},
		Values: [][]float64{{-250, -300}, {120, 200}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, surf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "price,date,pl", lines[0])
	assert.Equal(t, "95,2026-10-19T00:00:00Z,-250", lines[1])
	assert.Equal(t, "105,2026-12-18T00:00:00Z,200", lines[4])
}

func roundAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(int64(x*1e6+0.5)) / 1e6
	}
	return out
}
