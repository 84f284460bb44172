// Package queue defines message payloads exchanged over the message
// broker, plus the publisher and the background consumer.
package queue

// BookingCreatedEvent is published when a booking is admitted. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingCreatedEvent struct {
    BookingID      uint64 `json:"booking_id"`
    RoomID         uint64 `json:"room_id"`
    Title          string `json:"title"`
    OrganizerEmail string `json:"organizer_email"`
    StartTime      string `json:"start_time"`
    EndTime        string `json:"end_time"`
    CreatedAt      string `json:"created_at"`
}

// BookingCancelledEvent is published when a booking transitions to
// cancelled.
type BookingCancelledEvent struct {
    BookingID   uint64 `json:"booking_id"`
    RoomID      uint64 `json:"room_id"`
    Title       string `json:"title"`
    StartTime   string `json:"start_time"`
    CancelledAt string `json:"cancelled_at"`
}
