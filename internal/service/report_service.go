package service

import (
    "context"
    "math"
    "time"

    "github.com/iliyamo/meeting-room-reservation/internal/calendar"
    "github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// ReportService computes per-room utilization over a window, clipped to
// business hours. It reads bookings and rooms post-hoc and never
// mutates anything.
type ReportService struct {
    store repository.Store
    rooms RoomDirectory
}

// NewReportService constructs the reporter.
func NewReportService(store repository.Store, rooms RoomDirectory) *ReportService {
    if store == nil || rooms == nil {
        panic("nil dependency passed to NewReportService")
    }
    return &ReportService{store: store, rooms: rooms}
}

// RoomUtilization is one row of the utilization report.
// TotalBookingHours is rounded to 2 decimals; UtilizationPercent is a
// fraction (not scaled to 100) rounded to 4 decimals.
type RoomUtilization struct {
    RoomID             uint64  `json:"room_id"`
    RoomName           string  `json:"room_name"`
    TotalBookingHours  float64 `json:"total_booking_hours"`
    UtilizationPercent float64 `json:"utilization_percent"`
}

// timeBoundLayouts are accepted for window bounds: full RFC 3339
// instants or plain dates.
var timeBoundLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseTimeBound parses a window bound in either accepted layout and
// normalizes it to UTC. The booking list and the utilization report
// share it so the two read paths accept the same inputs.
func ParseTimeBound(s string) (time.Time, bool) {
    for _, layout := range timeBoundLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            return t.UTC(), true
        }
    }
    return time.Time{}, false
}

// RoomUtilization aggregates confirmed bookings into booked and
// available business time per room over [from, to]. For each booking
// touching the window it clips the interval to the window and sums the
// business-hours portion; the non-overlap invariant for confirmed
// bookings makes plain summation safe. Available time is the number of
// business days in the window times the 12h business day.
func (s *ReportService) RoomUtilization(ctx context.Context, fromStr, toStr string) ([]RoomUtilization, error) {
    if fromStr == "" || toStr == "" {
        return nil, validationErr("from and to are required")
    }
    from, okFrom := ParseTimeBound(fromStr)
    to, okTo := ParseTimeBound(toStr)
    if !okFrom || !okTo {
        return nil, validationErr("invalid dates")
    }

    rooms, err := s.rooms.ListAll(ctx)
    if err != nil {
        return nil, internalErr("room list failed")
    }

    totalBusiness := time.Duration(calendar.CountBusinessDays(from, to)) * calendar.BusinessDayDuration

    results := make([]RoomUtilization, 0, len(rooms))
    for _, room := range rooms {
        bookings, err := s.store.ListConfirmedInRange(ctx, room.ID, from, to)
        if err != nil {
            return nil, internalErr("booking query failed")
        }
        var booked time.Duration
        for _, b := range bookings {
            clipped, ok := calendar.Range{Start: b.StartTime, End: b.EndTime}.Clip(from, to)
            if !ok {
                continue
            }
            booked += calendar.BusinessDuration(clipped.Start, clipped.End)
        }
        utilization := 0.0
        if totalBusiness > 0 {
            utilization = float64(booked) / float64(totalBusiness)
        }
        results = append(results, RoomUtilization{
            RoomID:            room.ID,
            RoomName:          room.Name,
            TotalBookingHours: round(booked.Hours(), 2),
            UtilizationPercent: round(utilization, 4),
        })
    }
    return results, nil
}

func round(v float64, decimals int) float64 {
    scale := math.Pow10(decimals)
    return math.Round(v*scale) / scale
}
