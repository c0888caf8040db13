// Package period maps instants to payday-aligned spending periods.
//
// A period is the half-open interval [periodStart, nextPeriodStart) where
// periodStart is the most recent occurrence of the configured payday
// day-of-month at 00:00:00 that is not after the reference instant. The
// period's identity is the year and month of its start, rendered as a stable
// sortable "YYYY-MM" key.
package period

import "time"

// MinPayday and MaxPayday bound the configurable payday day-of-month.
// Capping at 28 keeps the boundary valid in every month, February included.
const (
	MinPayday = 1
	MaxPayday = 28
)

// ValidPayday reports whether day is an acceptable payday configuration.
func ValidPayday(day int) bool {
	return day >= MinPayday && day <= MaxPayday
}

// StartFor returns the start of the period covering ref for the given payday.
// Callers must pass a payday in [MinPayday, MaxPayday].
func StartFor(ref time.Time, payday int) time.Time {
	year, month, _ := ref.Date()
	if ref.Day() < payday {
		// Boundary not reached this month yet; period started on last
		// month's payday. time.Date normalizes month 0 to last December.
		month--
	}
	return time.Date(year, month, payday, 0, 0, 0, 0, ref.Location())
}

// NextStart returns the exclusive end of the period covering ref, which is
// the start of the following period.
func NextStart(ref time.Time, payday int) time.Time {
	return StartFor(ref, payday).AddDate(0, 1, 0)
}

// IDFor returns the canonical "YYYY-MM" identifier of the period covering ref.
// Every instant maps to exactly one id, and ids are strictly increasing as
// time advances.
func IDFor(ref time.Time, payday int) string {
	return StartFor(ref, payday).Format("2006-01")
}

// Previous returns the id of the period immediately before the one covering
// ref. The day before a period's start always falls in the previous period.
func Previous(ref time.Time, payday int) string {
	return IDFor(StartFor(ref, payday).AddDate(0, 0, -1), payday)
}
