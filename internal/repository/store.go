package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/meeting-room-reservation/internal/model"
)

// Tx is the set of operations available inside one atomic unit of work.
// Everything invoked through a Tx commits or rolls back together; the
// idempotent-creation protocol depends on that to keep the ledger and
// the bookings table consistent under retries.
type Tx interface {
    FindIdempotencyKey(ctx context.Context, key, organizerEmail string) (*model.IdempotencyKey, error)
    InsertIdempotencyKey(ctx context.Context, key, organizerEmail string) error
    MarkIdempotencyKeyDone(ctx context.Context, key, organizerEmail string, bookingID uint64) error
    ReclaimIdempotencyKey(ctx context.Context, key, organizerEmail string, cutoff time.Time) (bool, error)
    HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error)
    InsertBooking(ctx context.Context, b *model.Booking) error
    FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error)
}

// Store is the persistence surface consumed by the service layer. The
// auto-commit methods serve the non-transactional paths; WithinTx runs
// fn inside a transaction that is committed when fn returns nil and
// rolled back otherwise. Constructed from *sql.DB in production and
// replaced by an in-memory fake in service tests.
type Store interface {
    WithinTx(ctx context.Context, fn func(tx Tx) error) error
    HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error)
    InsertBooking(ctx context.Context, b *model.Booking) error
    FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error)
    UpdateBookingStatus(ctx context.Context, id uint64, status string) error
    ListBookings(ctx context.Context, f ListFilter) ([]*model.Booking, int64, error)
    ListConfirmedInRange(ctx context.Context, roomID uint64, from, to time.Time) ([]*model.Booking, error)
}

// SQLStore implements Store on top of MySQL, delegating to the booking
// and idempotency repositories.
type SQLStore struct {
    db       *sql.DB
    bookings *BookingRepo
    keys     *IdempotencyKeyRepo
}

// NewSQLStore builds a SQLStore bound to the given database.
func NewSQLStore(db *sql.DB) *SQLStore {
    return &SQLStore{
        db:       db,
        bookings: NewBookingRepo(db),
        keys:     NewIdempotencyKeyRepo(db),
    }
}

// WithinTx begins a database transaction, runs fn against it and
// commits when fn returns nil. Any error from fn (or from commit) rolls
// the whole unit back, including an inserted in_progress ledger record.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&sqlTx{tx: tx, store: s}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

func (s *SQLStore) HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
    return s.bookings.HasOverlap(ctx, roomID, start, end)
}

func (s *SQLStore) InsertBooking(ctx context.Context, b *model.Booking) error {
    return s.bookings.Create(ctx, b)
}

func (s *SQLStore) FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return s.bookings.GetByID(ctx, id)
}

func (s *SQLStore) UpdateBookingStatus(ctx context.Context, id uint64, status string) error {
    return s.bookings.UpdateStatus(ctx, id, status)
}

func (s *SQLStore) ListBookings(ctx context.Context, f ListFilter) ([]*model.Booking, int64, error) {
    return s.bookings.List(ctx, f)
}

func (s *SQLStore) ListConfirmedInRange(ctx context.Context, roomID uint64, from, to time.Time) ([]*model.Booking, error) {
    return s.bookings.ListConfirmedInRange(ctx, roomID, from, to)
}

// sqlTx adapts one *sql.Tx to the Tx contract.
type sqlTx struct {
    tx    *sql.Tx
    store *SQLStore
}

func (t *sqlTx) FindIdempotencyKey(ctx context.Context, key, organizerEmail string) (*model.IdempotencyKey, error) {
    return t.store.keys.GetTx(ctx, t.tx, key, organizerEmail)
}

func (t *sqlTx) InsertIdempotencyKey(ctx context.Context, key, organizerEmail string) error {
    return t.store.keys.InsertInProgressTx(ctx, t.tx, key, organizerEmail)
}

func (t *sqlTx) MarkIdempotencyKeyDone(ctx context.Context, key, organizerEmail string, bookingID uint64) error {
    return t.store.keys.MarkDoneTx(ctx, t.tx, key, organizerEmail, bookingID)
}

func (t *sqlTx) ReclaimIdempotencyKey(ctx context.Context, key, organizerEmail string, cutoff time.Time) (bool, error) {
    return t.store.keys.ReclaimStaleTx(ctx, t.tx, key, organizerEmail, cutoff)
}

func (t *sqlTx) HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
    return t.store.bookings.HasOverlapTx(ctx, t.tx, roomID, start, end)
}

func (t *sqlTx) InsertBooking(ctx context.Context, b *model.Booking) error {
    return t.store.bookings.CreateTx(ctx, t.tx, b)
}

func (t *sqlTx) FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return t.store.bookings.GetByIDTx(ctx, t.tx, id)
}
