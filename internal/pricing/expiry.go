package pricing

import (
	"math"
	"time"

	"optionlab/internal/models"
)

const (
	// atmBand is the relative strike distance still classified at-the-money.
	atmBand = 0.005
	// leapsDays is the horizon beyond which an expiry counts as LEAPS.
	leapsDays = 365
)

// YearsToExpiry returns the Black-Scholes time to expiry at instant at.
// An option trades through its whole expiry date; from the next calendar
// date it returns 0. Less than a day of remaining life, including the
// expiry date itself, is floored to one day.
func YearsToExpiry(expiry, at time.Time) float64 {
	if Expired(expiry, at) {
		return 0
	}
	days := models.CalendarDate(expiry).Sub(at).Hours() / 24
	return math.Max(days, 1) / DaysPerYear
}

// Expired reports whether the calendar date of at is past the expiry date.
func Expired(expiry, at time.Time) bool {
	return models.CalendarDate(at).After(models.CalendarDate(expiry))
}

// Moneyness classifies a strike against spot for an option type.
func Moneyness(optType models.OptionType, s, k float64) models.Moneyness {
	if math.Abs(s-k) <= atmBand*k {
		return models.ATM
	}
	if (optType == models.Call && s > k) || (optType == models.Put && s < k) {
		return models.ITM
	}
	return models.OTM
}

// ClassifyExpiry labels an expiry date as weekly, monthly (the third-week
// window, days 15 to 21) or LEAPS (more than a year out).
func ClassifyExpiry(expiry, asOf time.Time) models.ExpiryInfo {
	days := models.DaysBetween(asOf, expiry)
	info := models.ExpiryInfo{
		Date:      expiry.Format(models.DateLayout),
		DaysUntil: days,
	}

	day := expiry.Day()
	info.Standard = day >= 15 && day <= 21
	switch {
	case days < 0:
		info.Type = models.ExpiryExpired
	case days > leapsDays:
		info.Type = models.ExpiryLeaps
	case info.Standard:
		info.Type = models.ExpiryMonthly
	default:
		info.Type = models.ExpiryWeekly
	}
	return info
}
