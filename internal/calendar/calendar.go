// Package calendar holds the pure time-interval math used by booking
// admission and utilization reporting. The business calendar is fixed:
// Monday–Friday, 08:00–20:00, a single implicit timezone. All intervals
// are half-open [start, end).
package calendar

import "time"

const (
    // OpeningHour and ClosingHour bound the business day.
    OpeningHour = 8
    ClosingHour = 20

    // BusinessDayDuration is the length of one full business day.
    BusinessDayDuration = time.Duration(ClosingHour-OpeningHour) * time.Hour
)

// Range is a half-open time interval [Start, End).
type Range struct {
    Start time.Time
    End   time.Time
}

// IsEmpty reports whether the range covers no time at all.
func (r Range) IsEmpty() bool { return !r.End.After(r.Start) }

// Duration returns End − Start, or zero for an empty range.
func (r Range) Duration() time.Duration {
    if r.IsEmpty() {
        return 0
    }
    return r.End.Sub(r.Start)
}

// Clip intersects the range with the window [from, to). The second
// return value is false when the range and the window are disjoint.
func (r Range) Clip(from, to time.Time) (Range, bool) {
    s := r.Start
    if s.Before(from) {
        s = from
    }
    e := r.End
    if e.After(to) {
        e = to
    }
    if !e.After(s) {
        return Range{}, false
    }
    return Range{Start: s, End: e}, true
}

// IsBusinessDay reports whether t falls on a weekday.
func IsBusinessDay(t time.Time) bool {
    wd := t.Weekday()
    return wd != time.Saturday && wd != time.Sunday
}

// WithinBusinessHours reports whether both endpoints of a booking fall
// inside the business calendar. Each endpoint is checked on its own day:
// both must be weekdays, the start hour must be at or after opening, and
// the end must not pass 20:00 — ending exactly at 20:00:00 is allowed,
// one second later is not.
func WithinBusinessHours(start, end time.Time) bool {
    if !IsBusinessDay(start) || !IsBusinessDay(end) {
        return false
    }
    if start.Hour() < OpeningHour {
        return false
    }
    if end.Hour() > ClosingHour {
        return false
    }
    if end.Hour() == ClosingHour && (end.Minute() > 0 || end.Second() > 0 || end.Nanosecond() > 0) {
        return false
    }
    return true
}

// BusinessDuration returns how much of [start, end) falls inside
// business windows. It walks calendar days from start's day through
// end's day, intersects the interval with each day's [08:00, 20:00)
// window, and sums the pieces. Non-business days contribute zero.
func BusinessDuration(start, end time.Time) time.Duration {
    if !end.After(start) {
        return 0
    }
    var total time.Duration
    cursor := startOfDay(start)
    lastDay := startOfDay(end)
    for !cursor.After(lastDay) {
        if IsBusinessDay(cursor) {
            windowStart := cursor.Add(OpeningHour * time.Hour)
            windowEnd := cursor.Add(ClosingHour * time.Hour)
            dayStart := start
            if dayStart.Before(windowStart) {
                dayStart = windowStart
            }
            dayEnd := end
            if dayEnd.After(windowEnd) {
                dayEnd = windowEnd
            }
            if dayEnd.After(dayStart) {
                total += dayEnd.Sub(dayStart)
            }
        }
        cursor = cursor.AddDate(0, 0, 1)
    }
    return total
}

// CountBusinessDays counts weekdays among the calendar days touched by
// [from, to], inclusive on both ends by day.
func CountBusinessDays(from, to time.Time) int {
    if to.Before(from) {
        return 0
    }
    n := 0
    cursor := startOfDay(from)
    lastDay := startOfDay(to)
    for !cursor.After(lastDay) {
        if IsBusinessDay(cursor) {
            n++
        }
        cursor = cursor.AddDate(0, 0, 1)
    }
    return n
}

func startOfDay(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
