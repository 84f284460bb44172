package service

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/meeting-room-reservation/internal/model"
    "github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// fakeStore is an in-memory repository.Store. It enforces the unique
// constraint on (key, organizer email) and gives each WithinTx call
// all-or-nothing semantics: mutations are staged and applied only when
// the callback returns nil. The store mutex is held for the whole
// transaction, which serializes units of work the way the database's
// isolation does.
type fakeStore struct {
    mu            sync.Mutex
    bookings      map[uint64]*model.Booking
    keys          map[string]*model.IdempotencyKey
    nextBookingID uint64
    nextKeyID     uint64
    now           func() time.Time
}

func newFakeStore() *fakeStore {
    return &fakeStore{
        bookings: make(map[uint64]*model.Booking),
        keys:     make(map[string]*model.IdempotencyKey),
        now:      func() time.Time { return time.Now().UTC() },
    }
}

func ledgerKey(key, email string) string { return key + "|" + email }

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx repository.Tx) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    tx := &fakeTx{
        store:       s,
        stagedKeys:  make(map[string]*model.IdempotencyKey),
        deletedKeys: make(map[string]bool),
    }
    if err := fn(tx); err != nil {
        return err // staged mutations are discarded
    }
    tx.commit()
    return nil
}

func (s *fakeStore) HasOverlap(_ context.Context, roomID uint64, start, end time.Time) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return overlaps(s.bookings, nil, roomID, start, end), nil
}

func (s *fakeStore) InsertBooking(_ context.Context, b *model.Booking) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.insertBookingLocked(b)
    return nil
}

func (s *fakeStore) FindBookingByID(_ context.Context, id uint64) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return nil, repository.ErrBookingNotFound
    }
    copy := *b
    return &copy, nil
}

func (s *fakeStore) UpdateBookingStatus(_ context.Context, id uint64, status string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return repository.ErrBookingNotFound
    }
    b.Status = status
    return nil
}

func (s *fakeStore) ListBookings(_ context.Context, f repository.ListFilter) ([]*model.Booking, int64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var matched []*model.Booking
    for _, b := range s.bookings {
        if f.RoomID != nil && b.RoomID != *f.RoomID {
            continue
        }
        if f.From != nil && b.EndTime.Before(*f.From) {
            continue
        }
        if f.To != nil && b.StartTime.After(*f.To) {
            continue
        }
        copy := *b
        matched = append(matched, &copy)
    }
    sort.Slice(matched, func(i, j int) bool { return matched[i].StartTime.Before(matched[j].StartTime) })
    total := int64(len(matched))
    if f.Offset >= len(matched) {
        return []*model.Booking{}, total, nil
    }
    matched = matched[f.Offset:]
    if f.Limit < len(matched) {
        matched = matched[:f.Limit]
    }
    return matched, total, nil
}

func (s *fakeStore) ListConfirmedInRange(_ context.Context, roomID uint64, from, to time.Time) ([]*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []*model.Booking
    for _, b := range s.bookings {
        if b.RoomID != roomID || b.Status != model.BookingStatusConfirmed {
            continue
        }
        if b.EndTime.Before(from) || b.StartTime.After(to) {
            continue
        }
        copy := *b
        out = append(out, &copy)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
    return out, nil
}

func (s *fakeStore) insertBookingLocked(b *model.Booking) {
    s.nextBookingID++
    b.ID = s.nextBookingID
    b.CreatedAt = s.now()
    b.UpdatedAt = b.CreatedAt
    copy := *b
    s.bookings[b.ID] = &copy
}

func overlaps(committed map[uint64]*model.Booking, staged []*model.Booking, roomID uint64, start, end time.Time) bool {
    check := func(b *model.Booking) bool {
        return b.RoomID == roomID &&
            b.Status == model.BookingStatusConfirmed &&
            b.StartTime.Before(end) && b.EndTime.After(start)
    }
    for _, b := range committed {
        if check(b) {
            return true
        }
    }
    for _, b := range staged {
        if check(b) {
            return true
        }
    }
    return false
}

// fakeTx stages mutations against the (locked) fakeStore.
type fakeTx struct {
    store          *fakeStore
    stagedBookings []*model.Booking
    stagedKeys     map[string]*model.IdempotencyKey
    deletedKeys    map[string]bool
}

func (t *fakeTx) FindIdempotencyKey(_ context.Context, key, email string) (*model.IdempotencyKey, error) {
    lk := ledgerKey(key, email)
    if rec, ok := t.stagedKeys[lk]; ok {
        copy := *rec
        return &copy, nil
    }
    if t.deletedKeys[lk] {
        return nil, repository.ErrIdempotencyKeyNotFound
    }
    if rec, ok := t.store.keys[lk]; ok {
        copy := *rec
        return &copy, nil
    }
    return nil, repository.ErrIdempotencyKeyNotFound
}

func (t *fakeTx) InsertIdempotencyKey(_ context.Context, key, email string) error {
    lk := ledgerKey(key, email)
    if _, ok := t.stagedKeys[lk]; ok {
        return repository.ErrDuplicateKey
    }
    if _, ok := t.store.keys[lk]; ok && !t.deletedKeys[lk] {
        return repository.ErrDuplicateKey
    }
    t.store.nextKeyID++
    now := t.store.now()
    t.stagedKeys[lk] = &model.IdempotencyKey{
        ID:             t.store.nextKeyID,
        Key:            key,
        OrganizerEmail: email,
        Status:         model.IdempotencyStatusInProgress,
        CreatedAt:      now,
        UpdatedAt:      now,
    }
    return nil
}

func (t *fakeTx) MarkIdempotencyKeyDone(_ context.Context, key, email string, bookingID uint64) error {
    lk := ledgerKey(key, email)
    rec, ok := t.stagedKeys[lk]
    if !ok {
        return repository.ErrIdempotencyKeyNotFound
    }
    rec.Status = model.IdempotencyStatusDone
    rec.BookingID = &bookingID
    rec.UpdatedAt = t.store.now()
    return nil
}

// ReclaimIdempotencyKey mirrors the conditional DELETE: the status and
// age checks run against the current state, not whatever an earlier
// FindIdempotencyKey call in the same transaction observed.
func (t *fakeTx) ReclaimIdempotencyKey(_ context.Context, key, email string, cutoff time.Time) (bool, error) {
    lk := ledgerKey(key, email)
    stale := func(rec *model.IdempotencyKey) bool {
        return rec.Status == model.IdempotencyStatusInProgress && rec.CreatedAt.Before(cutoff)
    }
    if rec, ok := t.stagedKeys[lk]; ok {
        if !stale(rec) {
            return false, nil
        }
        delete(t.stagedKeys, lk)
        t.deletedKeys[lk] = true
        return true, nil
    }
    if t.deletedKeys[lk] {
        return false, nil
    }
    rec, ok := t.store.keys[lk]
    if !ok || !stale(rec) {
        return false, nil
    }
    t.deletedKeys[lk] = true
    return true, nil
}

func (t *fakeTx) HasOverlap(_ context.Context, roomID uint64, start, end time.Time) (bool, error) {
    return overlaps(t.store.bookings, t.stagedBookings, roomID, start, end), nil
}

func (t *fakeTx) InsertBooking(_ context.Context, b *model.Booking) error {
    t.store.nextBookingID++
    b.ID = t.store.nextBookingID
    b.CreatedAt = t.store.now()
    b.UpdatedAt = b.CreatedAt
    copy := *b
    t.stagedBookings = append(t.stagedBookings, &copy)
    return nil
}

func (t *fakeTx) FindBookingByID(_ context.Context, id uint64) (*model.Booking, error) {
    for _, b := range t.stagedBookings {
        if b.ID == id {
            copy := *b
            return &copy, nil
        }
    }
    if b, ok := t.store.bookings[id]; ok {
        copy := *b
        return &copy, nil
    }
    return nil, repository.ErrBookingNotFound
}

func (t *fakeTx) commit() {
    for lk := range t.deletedKeys {
        delete(t.store.keys, lk)
    }
    for lk, rec := range t.stagedKeys {
        t.store.keys[lk] = rec
    }
    for _, b := range t.stagedBookings {
        t.store.bookings[b.ID] = b
    }
}

// snapshotLedgerStore wraps the fake store and serves every ledger
// lookup from a fixed stale view, while writes and the conditional
// reclaim run against the live state. This models a repeatable-read
// transaction whose SELECT observed an in_progress record that a
// concurrent attempt completed before our delete executed.
type snapshotLedgerStore struct {
    *fakeStore
    view model.IdempotencyKey
}

func (s *snapshotLedgerStore) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
    return s.fakeStore.WithinTx(ctx, func(tx repository.Tx) error {
        return fn(&snapshotLedgerTx{Tx: tx, view: s.view})
    })
}

type snapshotLedgerTx struct {
    repository.Tx
    view model.IdempotencyKey
}

func (t *snapshotLedgerTx) FindIdempotencyKey(context.Context, string, string) (*model.IdempotencyKey, error) {
    copy := t.view
    return &copy, nil
}

// fakeRooms is an in-memory RoomDirectory.
type fakeRooms struct {
    mu    sync.Mutex
    rooms map[uint64]*model.Room
}

func newFakeRooms(rooms ...*model.Room) *fakeRooms {
    f := &fakeRooms{rooms: make(map[uint64]*model.Room)}
    for _, r := range rooms {
        f.rooms[r.ID] = r
    }
    return f
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    r, ok := f.rooms[id]
    if !ok {
        return nil, repository.ErrRoomNotFound
    }
    copy := *r
    return &copy, nil
}

func (f *fakeRooms) ListAll(_ context.Context) ([]*model.Room, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    out := make([]*model.Room, 0, len(f.rooms))
    for _, r := range f.rooms {
        copy := *r
        out = append(out, &copy)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

// fixedClock always reports the same instant.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
