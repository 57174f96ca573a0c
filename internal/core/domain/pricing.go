package domain

import "time"

// PricingPeriod is one recorded pricing run for a fund. Read-only here; the
// pricing engine owns these.
type PricingPeriod struct {
	FundID     string    `json:"fundID"`
	EndDate    time.Time `json:"endDate"` // date-only
	PeriodName string    `json:"periodName"`
}

// SameMonth reports whether two date-only values fall in the same UTC
// (year, month).
func SameMonth(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month()
}

// MonthAfter reports whether a's UTC (year, month) is strictly after b's.
func MonthAfter(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	if au.Year() != bu.Year() {
		return au.Year() > bu.Year()
	}
	return au.Month() > bu.Month()
}

// EndOfMonth returns the last day of t's UTC month as a date-only value.
func EndOfMonth(t time.Time) time.Time {
	tu := t.UTC()
	firstOfNext := time.Date(tu.Year(), tu.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
