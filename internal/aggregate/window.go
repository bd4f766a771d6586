// Package aggregate turns a scanned record stream into daily activity and
// sleep series.
//
// Activity metrics only count records whose sourceName contains a wrist-worn
// device marker; this avoids double-counting steps a paired phone records
// redundantly. The marker test is a plain substring match, so a phone app
// whose name happens to contain "watch" would slip through. Known limitation,
// kept identical to the behaviour users already rely on.
package aggregate

import "time"

// DefaultWindowDays bounds how far back a single aggregation call reaches.
const DefaultWindowDays = 30

// DateLayout is the canonical calendar-day form used as bucket key and in
// every response payload.
const DateLayout = "2006-01-02"

// Window is the fixed, pre-computed set of calendar dates the activity path
// reports on. It always ends on the day of now and is zero-filled: a date
// with no matching records is still emitted.
type Window struct {
	dates []string
	set   map[string]struct{}
}

// NewWindow builds the window ending on the calendar day of now and spanning
// days entries. days is clamped to [1, maxDays]; maxDays values below one
// fall back to DefaultWindowDays.
func NewWindow(now time.Time, days, maxDays int) Window {
	if maxDays < 1 {
		maxDays = DefaultWindowDays
	}
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}

	start := now.AddDate(0, 0, -(days - 1))
	w := Window{
		dates: make([]string, 0, days),
		set:   make(map[string]struct{}, days),
	}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(DateLayout)
		w.dates = append(w.dates, date)
		w.set[date] = struct{}{}
	}
	return w
}

// Dates returns the window's calendar dates in ascending order.
func (w Window) Dates() []string {
	return w.dates
}

// Contains reports whether date falls inside the window.
func (w Window) Contains(date string) bool {
	_, ok := w.set[date]
	return ok
}

// Len returns the number of days in the window.
func (w Window) Len() int {
	return len(w.dates)
}
