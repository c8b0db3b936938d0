package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for expiries.
const DateLayout = "2006-01-02"

var contractMultiplier = decimal.NewFromInt(ContractMultiplier)

// PremiumPerShare converts a per-contract premium to the per-share quote.
// The division is done in decimal so cent-precise inputs survive a round trip.
func PremiumPerShare(perContract float64) float64 {
	v, _ := decimal.NewFromFloat(perContract).Div(contractMultiplier).Float64()
	return v
}

// PremiumPerContract converts a per-share quote to the per-contract premium.
func PremiumPerContract(perShare float64) float64 {
	v, _ := decimal.NewFromFloat(perShare).Mul(contractMultiplier).Float64()
	return v
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// CalendarDate truncates t to its calendar date at UTC midnight, keeping t's local date.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDate(to).Sub(CalendarDate(from)).Hours() / 24)
}
