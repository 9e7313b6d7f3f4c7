// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddMonths returns t shifted forward by the given number of calendar months,
// keeping the day-of-month (Go normalizes overflow, e.g. Jan 31 + 1 month = Mar 3).
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
