package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/meeting-room-reservation/internal/model"
)

// IdempotencyKeyRepo provides data access to the idempotency_keys
// ledger. Every method runs within a caller-supplied transaction: the
// ledger is only ever touched inside the atomic creation protocol, so
// there are no auto-commit variants.
//
// The table carries a unique index on (idem_key, organizer_email). That
// constraint — surfaced as ErrDuplicateKey by InsertInProgressTx — is
// what guarantees at most one concurrent attempt per key wins the
// absent→in_progress transition.
type IdempotencyKeyRepo struct {
    db *sql.DB
}

// NewIdempotencyKeyRepo returns a repo bound to the given database.
func NewIdempotencyKeyRepo(db *sql.DB) *IdempotencyKeyRepo { return &IdempotencyKeyRepo{db: db} }

// GetTx looks up the ledger record for (key, organizerEmail). It
// returns ErrIdempotencyKeyNotFound when no record exists.
func (r *IdempotencyKeyRepo) GetTx(ctx context.Context, tx *sql.Tx, key, organizerEmail string) (*model.IdempotencyKey, error) {
    const q = `SELECT id, idem_key, organizer_email, status, booking_id, created_at, updated_at
               FROM idempotency_keys WHERE idem_key = ? AND organizer_email = ?`
    var rec model.IdempotencyKey
    var bookingID sql.NullInt64
    err := tx.QueryRowContext(ctx, q, key, organizerEmail).Scan(
        &rec.ID, &rec.Key, &rec.OrganizerEmail, &rec.Status, &bookingID, &rec.CreatedAt, &rec.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrIdempotencyKeyNotFound
        }
        return nil, err
    }
    if bookingID.Valid {
        id := uint64(bookingID.Int64)
        rec.BookingID = &id
    }
    return &rec, nil
}

// InsertInProgressTx inserts a fresh in_progress record for
// (key, organizerEmail). A unique-constraint violation is mapped to
// ErrDuplicateKey so callers can tell "someone else got here first"
// apart from infrastructure failures.
func (r *IdempotencyKeyRepo) InsertInProgressTx(ctx context.Context, tx *sql.Tx, key, organizerEmail string) error {
    const q = `INSERT INTO idempotency_keys (idem_key, organizer_email, status) VALUES (?, ?, ?)`
    if _, err := tx.ExecContext(ctx, q, key, organizerEmail, model.IdempotencyStatusInProgress); err != nil {
        if isDuplicateEntry(err) {
            return ErrDuplicateKey
        }
        return err
    }
    return nil
}

// MarkDoneTx transitions the record to done and attaches the created
// booking id. It must be called inside the same transaction that
// inserted the booking so that both commit or roll back together.
func (r *IdempotencyKeyRepo) MarkDoneTx(ctx context.Context, tx *sql.Tx, key, organizerEmail string, bookingID uint64) error {
    const q = `UPDATE idempotency_keys
               SET status = ?, booking_id = ?, updated_at = CURRENT_TIMESTAMP
               WHERE idem_key = ? AND organizer_email = ?`
    res, err := tx.ExecContext(ctx, q, model.IdempotencyStatusDone, bookingID, key, organizerEmail)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrIdempotencyKeyNotFound
    }
    return nil
}

// ReclaimStaleTx removes the ledger record for (key, organizerEmail)
// only if it is still in_progress and was created before cutoff, and
// reports whether a row was removed. The status and age conditions run
// as part of the DELETE itself (a current read), not against the
// transaction's earlier snapshot: a concurrent attempt may have
// completed the record after our SELECT saw it as stale, and its
// committed done record must survive. Completed records are never
// deleted.
func (r *IdempotencyKeyRepo) ReclaimStaleTx(ctx context.Context, tx *sql.Tx, key, organizerEmail string, cutoff time.Time) (bool, error) {
    const q = `DELETE FROM idempotency_keys
               WHERE idem_key = ? AND organizer_email = ? AND status = ? AND created_at < ?`
    res, err := tx.ExecContext(ctx, q, key, organizerEmail, model.IdempotencyStatusInProgress, cutoff)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
