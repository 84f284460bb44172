package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "strings"

    "github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms. Amenities
// are stored in a JSON column and normalized to lowercase on insert so
// the amenity filter matches case-insensitively, the same way the
// unique index on rooms.name collates case-insensitively.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewRoomRepo(db *sql.DB) *RoomRepo {
    return &RoomRepo{db: db}
}

// Create inserts a new room. On success the room's ID, CreatedAt and
// UpdatedAt fields are populated. A name collision with an existing room
// yields ErrRoomNameTaken.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
    normalized := make([]string, 0, len(room.Amenities))
    for _, a := range room.Amenities {
        a = strings.ToLower(strings.TrimSpace(a))
        if a != "" {
            normalized = append(normalized, a)
        }
    }
    room.Amenities = normalized
    amenities, err := json.Marshal(normalized)
    if err != nil {
        return err
    }

    const qInsert = "INSERT INTO rooms (name, capacity, floor, amenities) VALUES (?, ?, ?, ?)"
    res, err := r.db.ExecContext(ctx, qInsert, room.Name, room.Capacity, room.Floor, amenities)
    if err != nil {
        if isDuplicateEntry(err) {
            return ErrRoomNameTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    room.ID = uint64(id)

    // Follow-up SELECT to populate default timestamp fields.
    const qSelect = "SELECT created_at, updated_at FROM rooms WHERE id = ?"
    return r.db.QueryRowContext(ctx, qSelect, room.ID).Scan(&room.CreatedAt, &room.UpdatedAt)
}

// GetByID fetches a room by its ID. It returns ErrRoomNotFound when no
// row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = "SELECT id, name, capacity, floor, amenities, created_at, updated_at FROM rooms WHERE id = ?"
    return r.scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// ListAll returns every room ordered by id. The utilization reporter
// iterates this list to build one row per room.
func (r *RoomRepo) ListAll(ctx context.Context) ([]*model.Room, error) {
    return r.List(ctx, 0, "")
}

// List returns rooms matching the optional filters: minCapacity keeps
// rooms with at least that many seats, amenity keeps rooms whose
// amenities contain the given label (case-insensitive). Zero values
// disable the respective filter.
func (r *RoomRepo) List(ctx context.Context, minCapacity uint32, amenity string) ([]*model.Room, error) {
    where := []string{}
    args := []any{}
    if minCapacity > 0 {
        where = append(where, "capacity >= ?")
        args = append(args, minCapacity)
    }
    if amenity != "" {
        // Amenities are lowercased on insert, so lowercasing the filter
        // value gives case-insensitive matching.
        where = append(where, "JSON_CONTAINS(amenities, JSON_QUOTE(?))")
        args = append(args, strings.ToLower(strings.TrimSpace(amenity)))
    }
    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }

    q := `SELECT id, name, capacity, floor, amenities, created_at, updated_at
          FROM rooms WHERE ` + cond + ` ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]*model.Room, 0)
    for rows.Next() {
        room, err := scanRoomRow(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, room)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
    Scan(dest ...any) error
}

func (r *RoomRepo) scanRoom(row *sql.Row) (*model.Room, error) {
    room, err := scanRoomRow(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }
    return room, nil
}

func scanRoomRow(s rowScanner) (*model.Room, error) {
    var room model.Room
    var amenities []byte
    if err := s.Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor, &amenities, &room.CreatedAt, &room.UpdatedAt); err != nil {
        return nil, err
    }
    room.Amenities = []string{}
    if len(amenities) > 0 {
        if err := json.Unmarshal(amenities, &room.Amenities); err != nil {
            return nil, err
        }
    }
    return &room, nil
}
