//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"librarium/internal/domain/policy"
	"librarium/internal/domain/user"
	"librarium/internal/infra"
	"librarium/internal/pkg/clock"
	"librarium/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeReadStore struct {
	views map[uuid.UUID]*queries.ReservationView
	lists map[uuid.UUID][]*queries.ReservationListItem
}

func (s *fakeReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	view, ok := s.views[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	v := *view
	return &v, nil
}

func (s *fakeReadStore) FindByBorrower(_ context.Context, borrowerID uuid.UUID) ([]*queries.ReservationListItem, error) {
	return s.lists[borrowerID], nil
}

func addView(store *fakeReadStore, borrowerID uuid.UUID, dueBack *time.Time) uuid.UUID {
	id := uuid.New()
	store.views[id] = &queries.ReservationView{
		ID:         id,
		CopyID:     uuid.New(),
		BookTitle:  "The Go Programming Language",
		BorrowerID: borrowerID,
		ReservedAt: testNow.Add(-time.Hour),
		DueBack:    dueBack,
	}
	return id
}

func newStore() *fakeReadStore {
	return &fakeReadStore{
		views: make(map[uuid.UUID]*queries.ReservationView),
		lists: make(map[uuid.UUID][]*queries.ReservationListItem),
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees the claim with overdue derived", func(t *testing.T) {
		store := newStore()
		owner := policy.NewActor(uuid.New(), user.RoleUser)
		past := testNow.Add(-time.Minute)
		id := addView(store, owner.ID, &past)

		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		view, err := q.GetByID(ctx, owner, id)
		require.NoError(t, err)
		assert.True(t, view.IsOverdue)
	})

	t.Run("open claim within deadline is not overdue", func(t *testing.T) {
		store := newStore()
		owner := policy.NewActor(uuid.New(), user.RoleUser)
		future := testNow.Add(time.Hour)
		id := addView(store, owner.ID, &future)

		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		view, err := q.GetByID(ctx, owner, id)
		require.NoError(t, err)
		assert.False(t, view.IsOverdue)
	})

	t.Run("closed claim is never overdue", func(t *testing.T) {
		store := newStore()
		owner := policy.NewActor(uuid.New(), user.RoleUser)
		id := addView(store, owner.ID, nil)

		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		view, err := q.GetByID(ctx, owner, id)
		require.NoError(t, err)
		assert.False(t, view.IsOverdue)
	})

	t.Run("stranger denied", func(t *testing.T) {
		store := newStore()
		owner := policy.NewActor(uuid.New(), user.RoleUser)
		id := addView(store, owner.ID, nil)

		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		_, err := q.GetByID(ctx, policy.NewActor(uuid.New(), user.RoleUser), id)
		require.ErrorIs(t, err, queries.ErrPermissionDenied)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := newStore()
		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		actor := policy.NewActor(uuid.New(), user.RoleUser)
		_, err := q.GetByID(ctx, actor, uuid.New())
		require.ErrorIs(t, err, queries.ErrReservationNotFound)
	})
}

func TestListByBorrower(t *testing.T) {
	ctx := context.Background()

	t.Run("own list with overdue flags", func(t *testing.T) {
		store := newStore()
		owner := policy.NewActor(uuid.New(), user.RoleUser)
		past := testNow.Add(-time.Minute)
		future := testNow.Add(time.Hour)
		store.lists[owner.ID] = []*queries.ReservationListItem{
			{ID: uuid.New(), DueBack: &past},
			{ID: uuid.New(), DueBack: &future},
			{ID: uuid.New()},
		}

		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		items, err := q.ListByBorrower(ctx, owner, owner.ID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.True(t, items[0].IsOverdue)
		assert.False(t, items[1].IsOverdue)
		assert.False(t, items[2].IsOverdue)
	})

	t.Run("user may not list another borrower", func(t *testing.T) {
		store := newStore()
		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		actor := policy.NewActor(uuid.New(), user.RoleUser)
		_, err := q.ListByBorrower(ctx, actor, uuid.New())
		require.ErrorIs(t, err, queries.ErrPermissionDenied)
	})

	t.Run("admin may list any borrower", func(t *testing.T) {
		store := newStore()
		borrowerID := uuid.New()
		store.lists[borrowerID] = []*queries.ReservationListItem{{ID: uuid.New()}}

		q := queries.NewReservationQueries(store, clock.NewMockClock(testNow))
		admin := policy.NewActor(uuid.New(), user.RoleAdmin)
		items, err := q.ListByBorrower(ctx, admin, borrowerID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}
