// Package repository contains the data access layer, separated from
// HTTP handlers and business services. This file defines sentinel
// errors reused across repositories so higher layers can distinguish
// failure scenarios without inspecting driver-specific error values.
package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrIdempotencyKeyNotFound is returned when no ledger record exists for
// a (key, organizer email) pair.
var ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")

// ErrDuplicateKey is returned when an insert violates a unique
// constraint. For the idempotency ledger this is the signal that a
// concurrent attempt with the same (key, organizer email) already
// committed its in_progress record.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrRoomNameTaken is returned when creating a room whose name collides
// (case-insensitively) with an existing one.
var ErrRoomNameTaken = errors.New("room name already taken")

// isDuplicateEntry reports whether err is a MySQL duplicate-entry
// violation (error 1062) on any unique index.
func isDuplicateEntry(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}
