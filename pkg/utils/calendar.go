package utils

import "time"

// ThirdFriday returns the standard monthly expiry date of a month, in UTC.
func ThirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+14)
}

// NextMonthlyExpiries returns the next n standard monthly expiries on or after from.
func NextMonthlyExpiries(from time.Time, n int) []time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	expiries := make([]time.Time, 0, n)
	year, month := day.Year(), day.Month()
	for len(expiries) < n {
		if exp := ThirdFriday(year, month); !exp.Before(day) {
			expiries = append(expiries, exp)
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return expiries
}

// NextWeekday returns the first date on or after from that falls on weekday.
func NextWeekday(from time.Time, weekday time.Weekday) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != weekday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
