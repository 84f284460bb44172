package model

import "time"

// Idempotency record statuses. A record is inserted in_progress at the
// start of a keyed creation attempt and flips to done exactly once, in
// the same transaction that creates the booking.
const (
    IdempotencyStatusInProgress = "in_progress"
    IdempotencyStatusDone       = "done"
)

// IdempotencyKey is the dedup ledger entry for a keyed booking creation.
// The (Key, OrganizerEmail) pair is globally unique — the same key from a
// different organizer is a different record. Records are never deleted in
// normal operation; they are the permanent proof that a request already
// ran.
type IdempotencyKey struct {
    ID             uint64    // idempotency_keys.id
    Key            string    // idempotency_keys.idem_key
    OrganizerEmail string    // idempotency_keys.organizer_email
    Status         string    // idempotency_keys.status
    BookingID      *uint64   // idempotency_keys.booking_id (set when done)
    CreatedAt      time.Time // idempotency_keys.created_at
    UpdatedAt      time.Time // idempotency_keys.updated_at
}
