package calendar

import (
    "testing"
    "time"
)

// mustTime builds a UTC instant for Monday-based fixtures. 2025-01-06 is
// a Monday.
func mustTime(t *testing.T, day, hour, min, sec int) time.Time {
    t.Helper()
    return time.Date(2025, time.January, day, hour, min, sec, 0, time.UTC)
}

func TestWithinBusinessHours_Boundaries(t *testing.T) {
    cases := []struct {
        name  string
        start time.Time
        end   time.Time
        want  bool
    }{
        {"opening edge", mustTime(t, 6, 8, 0, 0), mustTime(t, 6, 9, 0, 0), true},
        {"before opening", mustTime(t, 6, 7, 59, 0), mustTime(t, 6, 9, 0, 0), false},
        {"closing edge", mustTime(t, 6, 19, 0, 0), mustTime(t, 6, 20, 0, 0), true},
        {"one second past closing", mustTime(t, 6, 19, 0, 0), mustTime(t, 6, 20, 0, 1), false},
        {"one minute past closing", mustTime(t, 6, 19, 30, 0), mustTime(t, 6, 20, 1, 0), false},
        {"after closing hour", mustTime(t, 6, 20, 0, 0), mustTime(t, 6, 21, 0, 0), false},
        {"saturday start", mustTime(t, 4, 10, 0, 0), mustTime(t, 4, 11, 0, 0), false},
        {"sunday end", mustTime(t, 3, 10, 0, 0), mustTime(t, 5, 11, 0, 0), false},
        {"friday ok", mustTime(t, 10, 10, 0, 0), mustTime(t, 10, 11, 0, 0), true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := WithinBusinessHours(tc.start, tc.end); got != tc.want {
                t.Fatalf("WithinBusinessHours(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
            }
        })
    }
}

func TestRangeClip(t *testing.T) {
    r := Range{Start: mustTime(t, 6, 9, 0, 0), End: mustTime(t, 6, 12, 0, 0)}

    clipped, ok := r.Clip(mustTime(t, 6, 10, 0, 0), mustTime(t, 6, 11, 0, 0))
    if !ok {
        t.Fatalf("expected overlap, got disjoint")
    }
    if !clipped.Start.Equal(mustTime(t, 6, 10, 0, 0)) || !clipped.End.Equal(mustTime(t, 6, 11, 0, 0)) {
        t.Fatalf("unexpected clipped range: %+v", clipped)
    }

    if _, ok := r.Clip(mustTime(t, 6, 13, 0, 0), mustTime(t, 6, 14, 0, 0)); ok {
        t.Fatalf("expected disjoint window to clip to empty")
    }

    // Touching windows share no time under half-open semantics.
    if _, ok := r.Clip(mustTime(t, 6, 12, 0, 0), mustTime(t, 6, 14, 0, 0)); ok {
        t.Fatalf("expected touching window to clip to empty")
    }
}

func TestBusinessDuration_SingleDay(t *testing.T) {
    got := BusinessDuration(mustTime(t, 6, 9, 0, 0), mustTime(t, 6, 11, 0, 0))
    if got != 2*time.Hour {
        t.Fatalf("expected 2h, got %v", got)
    }
}

func TestBusinessDuration_ClampsToWindow(t *testing.T) {
    // 06:00–22:00 only counts the 08:00–20:00 window.
    got := BusinessDuration(mustTime(t, 6, 6, 0, 0), mustTime(t, 6, 22, 0, 0))
    if got != 12*time.Hour {
        t.Fatalf("expected 12h, got %v", got)
    }
}

func TestBusinessDuration_MultiDaySkipsWeekend(t *testing.T) {
    // Friday 19:00 through Monday 09:00: 1h on Friday + 1h on Monday.
    got := BusinessDuration(mustTime(t, 10, 19, 0, 0), mustTime(t, 13, 9, 0, 0))
    if got != 2*time.Hour {
        t.Fatalf("expected 2h, got %v", got)
    }
}

func TestBusinessDuration_EmptyRange(t *testing.T) {
    if got := BusinessDuration(mustTime(t, 6, 11, 0, 0), mustTime(t, 6, 11, 0, 0)); got != 0 {
        t.Fatalf("expected 0, got %v", got)
    }
}

func TestCountBusinessDays(t *testing.T) {
    cases := []struct {
        name string
        from time.Time
        to   time.Time
        want int
    }{
        {"mon through fri", mustTime(t, 6, 0, 0, 0), mustTime(t, 10, 23, 59, 0), 5},
        {"full week", mustTime(t, 6, 0, 0, 0), mustTime(t, 12, 0, 0, 0), 5},
        {"weekend only", mustTime(t, 4, 0, 0, 0), mustTime(t, 5, 0, 0, 0), 0},
        {"single day", mustTime(t, 6, 10, 0, 0), mustTime(t, 6, 11, 0, 0), 1},
        {"reversed", mustTime(t, 10, 0, 0, 0), mustTime(t, 6, 0, 0, 0), 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := CountBusinessDays(tc.from, tc.to); got != tc.want {
                t.Fatalf("CountBusinessDays = %d, want %d", got, tc.want)
            }
        })
    }
}
