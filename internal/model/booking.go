package model

import "time"

// Booking statuses. A booking is created confirmed and may only ever
// transition to cancelled; there is no un-cancel.
const (
    BookingStatusConfirmed = "confirmed"
    BookingStatusCancelled = "cancelled"
)

// Booking represents a reservation of a meeting room for a time slot.
// For any room, confirmed bookings must be pairwise non-overlapping in
// [StartTime, EndTime) — half-open, so touching endpoints do not clash.
//
// Fields:
//  ID             – primary key identifier.
//  RoomID         – room being booked (weak reference, many bookings per room).
//  Title          – short description supplied by the organizer.
//  OrganizerEmail – who requested the booking; also scopes idempotency keys.
//  StartTime      – slot start (UTC).
//  EndTime        – slot end (UTC), strictly after StartTime.
//  Status         – confirmed or cancelled.
//  CreatedAt      – creation timestamp, immutable.
//  UpdatedAt      – last update timestamp.
type Booking struct {
    ID             uint64    `json:"id"`              // bookings.id
    RoomID         uint64    `json:"room_id"`         // bookings.room_id
    Title          string    `json:"title"`           // bookings.title
    OrganizerEmail string    `json:"organizer_email"` // bookings.organizer_email
    StartTime      time.Time `json:"start_time"`      // bookings.start_time
    EndTime        time.Time `json:"end_time"`        // bookings.end_time
    Status         string    `json:"status"`          // bookings.status
    CreatedAt      time.Time `json:"created_at"`      // bookings.created_at
    UpdatedAt      time.Time `json:"updated_at"`      // bookings.updated_at
}
