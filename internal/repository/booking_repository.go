package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/meeting-room-reservation/internal/model"
)

// BookingRepo provides CRUD and overlap queries for bookings. Methods
// with a Tx suffix run inside an existing transaction supplied by the
// caller, who must commit or roll back. All timestamps are stored in
// UTC DATETIME columns; the driver is opened with parseTime=true&loc=UTC
// so they scan straight into time.Time.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// queryer is satisfied by both *sql.DB and *sql.Tx so that the same SQL
// can serve the auto-commit and transactional paths.
type queryer interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create inserts a booking outside any transaction (the no-key path).
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    return createBooking(ctx, r.db, b)
}

// CreateTx inserts a booking within the scope of an existing
// transaction (the idempotent-creation path).
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    return createBooking(ctx, tx, b)
}

func createBooking(ctx context.Context, q queryer, b *model.Booking) error {
    const ins = `INSERT INTO bookings (room_id, title, organizer_email, start_time, end_time, status)
                 VALUES (?, ?, ?, ?, ?, ?)`
    res, err := q.ExecContext(ctx, ins,
        b.RoomID, b.Title, b.OrganizerEmail, b.StartTime.UTC(), b.EndTime.UTC(), b.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the row to populate timestamps set by the database.
    const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
    return q.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a booking by id. It returns ErrBookingNotFound when no
// row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return getBooking(ctx, r.db, id)
}

// GetByIDTx is GetByID within an existing transaction; the idempotent
// replay branch uses it to return the booking recorded as done.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    return getBooking(ctx, tx, id)
}

func getBooking(ctx context.Context, q queryer, id uint64) (*model.Booking, error) {
    const sel = `SELECT id, room_id, title, organizer_email, start_time, end_time, status, created_at, updated_at
                 FROM bookings WHERE id = ?`
    var b model.Booking
    err := q.QueryRowContext(ctx, sel, id).Scan(
        &b.ID, &b.RoomID, &b.Title, &b.OrganizerEmail,
        &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return &b, nil
}

// HasOverlap reports whether any confirmed booking for the room overlaps
// the half-open candidate interval [start, end). Touching endpoints do
// not overlap. The (room_id, start_time, end_time) index keeps this a
// range scan.
func (r *BookingRepo) HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
    return hasOverlap(ctx, r.db, roomID, start, end)
}

// HasOverlapTx is HasOverlap within an existing transaction.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, roomID uint64, start, end time.Time) (bool, error) {
    return hasOverlap(ctx, tx, roomID, start, end)
}

func hasOverlap(ctx context.Context, q queryer, roomID uint64, start, end time.Time) (bool, error) {
    const sel = `SELECT EXISTS (
                   SELECT 1 FROM bookings
                   WHERE room_id = ? AND status = ? AND start_time < ? AND end_time > ?
                 )`
    var exists bool
    err := q.QueryRowContext(ctx, sel, roomID, model.BookingStatusConfirmed, end.UTC(), start.UTC()).Scan(&exists)
    return exists, err
}

// UpdateStatus sets the booking status. It returns ErrBookingNotFound
// when no row matched the id. Setting the same status again is a no-op
// at the SQL level but still counts the row as matched.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return err
    }
    // RowsAffected is 0 for both a missing row and an unchanged one, so
    // re-check existence before reporting not found.
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := getBooking(ctx, r.db, id); err != nil {
            return err
        }
    }
    return nil
}

// ListFilter defines the optional filters and pagination for List.
// From keeps bookings with end_time >= From; To keeps bookings with
// start_time <= To (closed bounds, matching the report query).
type ListFilter struct {
    RoomID *uint64
    From   *time.Time
    To     *time.Time
    Limit  int
    Offset int
}

// List returns bookings matching the filter ordered by start_time
// ascending, along with the total number of matches before pagination.
func (r *BookingRepo) List(ctx context.Context, f ListFilter) ([]*model.Booking, int64, error) {
    where := []string{}
    args := []any{}
    if f.RoomID != nil {
        where = append(where, "room_id = ?")
        args = append(args, *f.RoomID)
    }
    if f.From != nil {
        where = append(where, "end_time >= ?")
        args = append(args, f.From.UTC())
    }
    if f.To != nil {
        where = append(where, "start_time <= ?")
        args = append(args, f.To.UTC())
    }
    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }

    var total int64
    countSQL := `SELECT COUNT(*) FROM bookings WHERE ` + cond
    if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    dataSQL := `SELECT id, room_id, title, organizer_email, start_time, end_time, status, created_at, updated_at
                FROM bookings WHERE ` + cond + `
                ORDER BY start_time ASC
                LIMIT ? OFFSET ?`
    argsData := append(append([]any{}, args...), f.Limit, f.Offset)

    rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]*model.Booking, 0, f.Limit)
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(
            &b.ID, &b.RoomID, &b.Title, &b.OrganizerEmail,
            &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
        ); err != nil {
            return nil, 0, err
        }
        out = append(out, &b)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// ListConfirmedInRange returns the confirmed bookings for a room that
// touch the closed window [from, to]: end_time >= from and
// start_time <= to. The utilization reporter clips each result to the
// window afterwards.
func (r *BookingRepo) ListConfirmedInRange(ctx context.Context, roomID uint64, from, to time.Time) ([]*model.Booking, error) {
    const q = `SELECT id, room_id, title, organizer_email, start_time, end_time, status, created_at, updated_at
               FROM bookings
               WHERE room_id = ? AND status = ? AND end_time >= ? AND start_time <= ?
               ORDER BY start_time ASC`
    rows, err := r.db.QueryContext(ctx, q, roomID, model.BookingStatusConfirmed, from.UTC(), to.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.Booking
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(
            &b.ID, &b.RoomID, &b.Title, &b.OrganizerEmail,
            &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, &b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
