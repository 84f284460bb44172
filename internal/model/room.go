package model

import "time"

// Room is a bookable meeting room. Room names are unique
// case-insensitively (enforced by the rooms.name unique index under a
// case-insensitive collation). The core treats rooms as read-only; only
// the room endpoints mutate them.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human-friendly room name, unique per deployment.
//  Capacity  – number of seats, at least 1.
//  Floor     – floor the room is on, defaults to 0.
//  Amenities – lowercase amenity labels (stored as a JSON array).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
    ID        uint64    `json:"id"`         // rooms.id
    Name      string    `json:"name"`       // rooms.name
    Capacity  uint32    `json:"capacity"`   // rooms.capacity
    Floor     int32     `json:"floor"`      // rooms.floor
    Amenities []string  `json:"amenities"`  // rooms.amenities (JSON column)
    CreatedAt time.Time `json:"created_at"` // rooms.created_at
    UpdatedAt time.Time `json:"updated_at"` // rooms.updated_at
}
