//go:build unit

package commands_test

import (
	"context"
	"time"

	"librarium/internal/domain/reservation"
	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the persistence layer. The
// fake unit of work mutates it directly, which is enough to exercise
// the command flow without a database.
type fakeStore struct {
	copies       map[uuid.UUID]*shared.CopySnapshot
	reservations map[uuid.UUID]*shared.ReservationSnapshot
	subscribers  map[uuid.UUID]map[uuid.UUID]string // copyID -> userID -> email
	contacts     map[uuid.UUID]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		copies:       make(map[uuid.UUID]*shared.CopySnapshot),
		reservations: make(map[uuid.UUID]*shared.ReservationSnapshot),
		subscribers:  make(map[uuid.UUID]map[uuid.UUID]string),
		contacts:     make(map[uuid.UUID]string),
	}
}

func (s *fakeStore) addCopy(status string) uuid.UUID {
	id := uuid.New()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.copies[id] = &shared.CopySnapshot{
		ID:        id,
		BookID:    uuid.New(),
		BookTitle: "The Go Programming Language",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id
}

func (s *fakeStore) subscribe(copyID, userID uuid.UUID, email string) {
	if s.subscribers[copyID] == nil {
		s.subscribers[copyID] = make(map[uuid.UUID]string)
	}
	s.subscribers[copyID][userID] = email
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Copies() shared.CopyRepository { return &fakeCopyRepo{store: t.store} }
func (t *fakeTx) Reservations() shared.ReservationRepository {
	return &fakeReservationRepo{store: t.store}
}
func (t *fakeTx) Users() shared.UserRepository { return &fakeUserRepo{} }
func (t *fakeTx) Reads() shared.CommandReads   { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                  { return nil }

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) CopyByID(_ context.Context, id uuid.UUID) (*shared.CopySnapshot, error) {
	snap, ok := r.store.copies[id]
	if !ok {
		return nil, infra.WrapRepoErr("copy not found", nil, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) ReservationWithCopy(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, *shared.CopySnapshot, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	snap, ok := r.store.copies[res.CopyID]
	if !ok {
		return nil, nil, infra.WrapRepoErr("copy not found", nil, infra.KindNotFound)
	}
	resCopy := *res
	cpCopy := *snap
	return &resCopy, &cpCopy, nil
}

func (r *fakeReads) SubscriberAddresses(_ context.Context, copyID uuid.UUID) ([]string, error) {
	addresses := make([]string, 0)
	for _, email := range r.store.subscribers[copyID] {
		addresses = append(addresses, email)
	}
	return addresses, nil
}

func (r *fakeReads) IsSubscribed(_ context.Context, copyID, userID uuid.UUID) (bool, error) {
	_, ok := r.store.subscribers[copyID][userID]
	return ok, nil
}

func (r *fakeReads) ContactAddress(_ context.Context, userID uuid.UUID) (string, error) {
	return r.store.contacts[userID], nil
}

type fakeCopyRepo struct {
	store *fakeStore
}

func (r *fakeCopyRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status string) error {
	snap, ok := r.store.copies[id]
	if !ok {
		return infra.WrapRepoErr("copy not found", nil, infra.KindNotFound)
	}
	snap.Status = status
	return nil
}

func (r *fakeCopyRepo) AddSubscriber(_ context.Context, _ db.DBTX, copyID, userID uuid.UUID) error {
	if _, ok := r.store.subscribers[copyID][userID]; ok {
		return infra.WrapRepoErr("duplicate subscriber", nil, infra.KindDuplicateKey)
	}
	r.store.subscribe(copyID, userID, r.store.contacts[userID])
	return nil
}

func (r *fakeCopyRepo) RemoveSubscriber(_ context.Context, _ db.DBTX, copyID, userID uuid.UUID) (int64, error) {
	if _, ok := r.store.subscribers[copyID][userID]; !ok {
		return 0, nil
	}
	delete(r.store.subscribers[copyID], userID)
	return 1, nil
}

type fakeReservationRepo struct {
	store *fakeStore
}

func snapshotFromDomain(res *reservation.Reservation) *shared.ReservationSnapshot {
	return &shared.ReservationSnapshot{
		ID:         res.ID(),
		CopyID:     res.CopyID(),
		BorrowerID: res.BorrowerID(),
		ReservedAt: res.ReservedAt(),
		BorrowedAt: res.BorrowedAt(),
		ReturnedAt: res.ReturnedAt(),
		DueBack:    res.DueBack(),
	}
}

func (r *fakeReservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	r.store.reservations[res.ID()] = snapshotFromDomain(res)
	return res.ID(), nil
}

func (r *fakeReservationRepo) Update(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	if _, ok := r.store.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	r.store.reservations[res.ID()] = snapshotFromDomain(res)
	return nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

type fakeDispatcher struct {
	enqueued []uuid.UUID
}

func (d *fakeDispatcher) Enqueue(copyID uuid.UUID) {
	d.enqueued = append(d.enqueued, copyID)
}
