// Package types implements special types for Garage Ledger.
package types

import (
	"fmt"
	"time"
)

// Period is an inclusive reporting window [From, To].
//
// The zero Period means "unbounded", i.e. the whole history of the
// resource is taken into account.
type Period struct {
	From time.Time `json:"from" example:"2023-05-01T00:00:00Z"`
	To   time.Time `json:"to" example:"2023-05-31T23:59:59Z"`
}

// NewPeriod returns the Period for two points in time.
func NewPeriod(from, to time.Time) Period {
	return Period{From: from.In(time.UTC), To: to.In(time.UTC)}
}

// String returns the period formatted as "YYYY-MM-DD/YYYY-MM-DD".
func (p Period) String() string {
	return fmt.Sprintf("%s/%s", p.From.Format("2006-01-02"), p.To.Format("2006-01-02"))
}

// IsZero reports if the period is the zero value.
func (p Period) IsZero() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// Contains reports whether t falls into the period. An unset bound
// does not constrain the period, so the zero Period contains every
// point in time.
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}

	if !p.To.IsZero() && t.After(p.To) {
		return false
	}

	return true
}

// MonthOf returns the period spanning the calendar month in which t
// occurs, in UTC. The upper bound is the last instant of the month's
// last day.
func MonthOf(t time.Time) Period {
	year, month, _ := t.In(time.UTC).Date()
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	return Period{
		From: from,
		To:   from.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// EndOfDay returns the last instant of the day in which t occurs.
//
// Callers that accept date (not datetime) boundaries use this to
// normalize the upper bound so that entries on the last day are
// included.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParsePeriod parses two RFC3339 full-date strings into a Period.
// The upper bound is normalized to the end of the day.
func ParsePeriod(from, to string) (Period, error) {
	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return Period{}, err
	}

	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return Period{}, err
	}

	return Period{From: f, To: EndOfDay(t)}, nil
}
