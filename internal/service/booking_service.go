package service

import (
    "context"
    "errors"
    "strconv"
    "time"

    "github.com/iliyamo/meeting-room-reservation/internal/calendar"
    "github.com/iliyamo/meeting-room-reservation/internal/model"
    "github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// Booking duration policy, inclusive on both ends.
const (
    MinBookingDuration = 15 * time.Minute
    MaxBookingDuration = 240 * time.Minute
)

// CancellationLeadTime is how long before the slot start a booking can
// still be cancelled.
const CancellationLeadTime = time.Hour

// RoomDirectory is the read-only view of the room registry the engine
// needs: existence checks during admission and enumeration for reports.
type RoomDirectory interface {
    GetByID(ctx context.Context, id uint64) (*model.Room, error)
    ListAll(ctx context.Context) ([]*model.Room, error)
}

// BookingService is the admission engine. It validates proposed
// bookings, enforces the non-overlap invariant, runs the idempotent
// creation protocol, and applies the cancellation policy. All
// coordination happens through the store's transactions; the service
// itself keeps no mutable state between calls.
type BookingService struct {
    store repository.Store
    rooms RoomDirectory
    clock Clock

    // reclaimAfter > 0 enables TTL-based reclaim of stale in_progress
    // ledger records (left behind by a crash between insert and
    // commit). Zero preserves them forever.
    reclaimAfter time.Duration
}

// NewBookingService constructs the engine. All dependencies must be
// non-nil; reclaimAfter of zero disables stale-key reclaim.
func NewBookingService(store repository.Store, rooms RoomDirectory, clock Clock, reclaimAfter time.Duration) *BookingService {
    if store == nil || rooms == nil || clock == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{store: store, rooms: rooms, clock: clock, reclaimAfter: reclaimAfter}
}

// CreateBookingInput carries the raw, caller-supplied fields of a
// creation request. Times are RFC 3339 strings; parsing them is part of
// the engine's validation order so every failure reports a distinct
// validation message before any side effect.
type CreateBookingInput struct {
    RoomID         string
    Title          string
    OrganizerEmail string
    StartTime      string
    EndTime        string
    IdempotencyKey string
}

// Create admits a proposed booking. Without an idempotency key it
// checks overlap and inserts — accepting the documented race between
// concurrent keyless requests. With a key it runs the sentinel-record
// protocol inside one transaction: look up the ledger, replay a done
// record, report in_progress, or insert in_progress → check overlap →
// insert booking → mark done. Any failure rolls the whole unit back so
// the key stays retryable.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
    roomID, err := strconv.ParseUint(in.RoomID, 10, 64)
    if err != nil || roomID == 0 {
        return nil, validationErr("invalid roomId")
    }
    if in.Title == "" {
        return nil, validationErr("title is required")
    }
    if in.OrganizerEmail == "" {
        return nil, validationErr("organizerEmail is required")
    }
    start, errS := time.Parse(time.RFC3339, in.StartTime)
    end, errE := time.Parse(time.RFC3339, in.EndTime)
    if errS != nil || errE != nil {
        return nil, validationErr("invalid startTime or endTime")
    }
    start, end = start.UTC(), end.UTC()
    if !start.Before(end) {
        return nil, validationErr("startTime must be before endTime")
    }
    if d := end.Sub(start); d < MinBookingDuration || d > MaxBookingDuration {
        return nil, validationErr("booking duration must be 15-240 minutes")
    }
    if !calendar.WithinBusinessHours(start, end) {
        return nil, validationErr("bookings allowed Mon-Fri 08:00-20:00")
    }
    if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
        if errors.Is(err, repository.ErrRoomNotFound) {
            return nil, notFoundErr("unknown room")
        }
        return nil, internalErr("room lookup failed")
    }

    booking := &model.Booking{
        RoomID:         roomID,
        Title:          in.Title,
        OrganizerEmail: in.OrganizerEmail,
        StartTime:      start,
        EndTime:        end,
        Status:         model.BookingStatusConfirmed,
    }

    if in.IdempotencyKey == "" {
        return s.createDirect(ctx, booking)
    }
    return s.createIdempotent(ctx, in.IdempotencyKey, booking)
}

// createDirect is the no-key path. Two concurrent keyless requests can
// both pass the overlap check before either commits; that race is
// accepted for non-idempotent calls and must not be papered over with
// implicit locking. Race-free admission goes through the keyed path.
func (s *BookingService) createDirect(ctx context.Context, b *model.Booking) (*model.Booking, error) {
    overlap, err := s.store.HasOverlap(ctx, b.RoomID, b.StartTime, b.EndTime)
    if err != nil {
        return nil, internalErr("overlap check failed")
    }
    if overlap {
        return nil, conflictErr("overlapping booking")
    }
    if err := s.store.InsertBooking(ctx, b); err != nil {
        return nil, internalErr("booking insert failed")
    }
    return b, nil
}

func (s *BookingService) createIdempotent(ctx context.Context, key string, b *model.Booking) (*model.Booking, error) {
    var out *model.Booking
    err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
        rec, err := tx.FindIdempotencyKey(ctx, key, b.OrganizerEmail)
        switch {
        case err == nil:
            if rec.Status == model.IdempotencyStatusDone {
                if rec.BookingID == nil {
                    return internalErr("completed idempotency record has no booking")
                }
                done, err := tx.FindBookingByID(ctx, *rec.BookingID)
                if err != nil {
                    return internalErr("replay lookup failed")
                }
                out = done
                return nil
            }
            if s.reclaimAfter > 0 && s.clock.Now().Sub(rec.CreatedAt) > s.reclaimAfter {
                // Stale leftover from a crashed attempt. The reclaim is
                // conditional on the row still being a stale in_progress
                // record at delete time: our read may predate a concurrent
                // attempt that has since completed the key, and its
                // committed record must survive. Zero rows removed means
                // we lost that race.
                cutoff := s.clock.Now().Add(-s.reclaimAfter)
                reclaimed, err := tx.ReclaimIdempotencyKey(ctx, key, b.OrganizerEmail, cutoff)
                if err != nil {
                    return internalErr("stale key reclaim failed")
                }
                if !reclaimed {
                    return inProgressErr("request already in progress")
                }
            } else {
                return inProgressErr("request already in progress")
            }
        case errors.Is(err, repository.ErrIdempotencyKeyNotFound):
            // First attempt for this (key, organizer); fall through.
        default:
            return internalErr("idempotency lookup failed")
        }

        if err := tx.InsertIdempotencyKey(ctx, key, b.OrganizerEmail); err != nil {
            if errors.Is(err, repository.ErrDuplicateKey) {
                // A concurrent attempt committed its in_progress record
                // between our lookup and insert.
                return inProgressErr("request already in progress")
            }
            return internalErr("idempotency insert failed")
        }
        overlap, err := tx.HasOverlap(ctx, b.RoomID, b.StartTime, b.EndTime)
        if err != nil {
            return internalErr("overlap check failed")
        }
        if overlap {
            return conflictErr("overlapping booking")
        }
        if err := tx.InsertBooking(ctx, b); err != nil {
            return internalErr("booking insert failed")
        }
        if err := tx.MarkIdempotencyKeyDone(ctx, key, b.OrganizerEmail, b.ID); err != nil {
            return internalErr("idempotency completion failed")
        }
        out = b
        return nil
    })
    if err != nil {
        var se *Error
        if errors.As(err, &se) {
            return nil, se
        }
        return nil, internalErr("transaction failed")
    }
    return out, nil
}

// Cancel applies the cancellation policy: a missing booking is
// NotFound, an already-cancelled booking is an idempotent no-op, and a
// cancellation attempted less than one hour before the slot start is a
// business-rule violation. The status flip itself is a single-row
// mutation; concurrent cancellations converge on the same terminal
// state without a transaction.
func (s *BookingService) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
    b, err := s.store.FindBookingByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return nil, notFoundErr("booking not found")
        }
        return nil, internalErr("booking lookup failed")
    }
    if b.Status == model.BookingStatusCancelled {
        return b, nil
    }
    if s.clock.Now().After(b.StartTime.Add(-CancellationLeadTime)) {
        return nil, businessRuleErr("cannot cancel less than 1 hour before startTime")
    }
    if err := s.store.UpdateBookingStatus(ctx, id, model.BookingStatusCancelled); err != nil {
        return nil, internalErr("cancellation failed")
    }
    b.Status = model.BookingStatusCancelled
    return b, nil
}

// ListBookingsQuery carries the typed filters for List. Limit defaults
// to 20 and Offset to 0 when out of range.
type ListBookingsQuery struct {
    RoomID *uint64
    From   *time.Time
    To     *time.Time
    Limit  int
    Offset int
}

// BookingPage is one page of list results plus the total match count.
type BookingPage struct {
    Items  []*model.Booking `json:"items"`
    Total  int64            `json:"total"`
    Limit  int              `json:"limit"`
    Offset int              `json:"offset"`
}

// List returns bookings matching the query sorted by start time
// ascending. From filters on end_time >= from, To on start_time <= to.
func (s *BookingService) List(ctx context.Context, q ListBookingsQuery) (*BookingPage, error) {
    if q.Limit <= 0 {
        q.Limit = 20
    }
    if q.Offset < 0 {
        q.Offset = 0
    }
    items, total, err := s.store.ListBookings(ctx, repository.ListFilter{
        RoomID: q.RoomID,
        From:   q.From,
        To:     q.To,
        Limit:  q.Limit,
        Offset: q.Offset,
    })
    if err != nil {
        return nil, internalErr("booking list failed")
    }
    return &BookingPage{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Get fetches one booking by id.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.Booking, error) {
    b, err := s.store.FindBookingByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return nil, notFoundErr("booking not found")
        }
        return nil, internalErr("booking lookup failed")
    }
    return b, nil
}
