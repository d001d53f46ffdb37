package queries

import (
	"context"

	"librarium/internal/domain/policy"
	"librarium/internal/infra"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrPermissionDenied    = errs.New("permission denied")
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*ReservationListItem, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ReservationView, error)
	// ListByBorrower scopes non-admins to their own claims; admins may
	// list any borrower's history.
	ListByBorrower(ctx context.Context, actor policy.Actor, borrowerID uuid.UUID) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
	clock clock.Clock
}

func NewReservationQueries(store ReservationReadStore, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{store: store, clock: clk}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ReservationView, error) {
	if !policy.CanAccessReservations(actor, policy.Input{Operation: policy.OpRead}) {
		return nil, ErrPermissionDenied
	}

	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "failed to find reservation")
	}

	borrowerID := view.BorrowerID
	in := policy.Input{Operation: policy.OpRead, BorrowerID: &borrowerID}
	if !policy.Or(policy.IsReserveeOrBorrower, policy.IsAdmin)(actor, in) {
		return nil, ErrPermissionDenied
	}

	q.fillOverdue(view)
	return view, nil
}

func (q *reservationQueriesImpl) ListByBorrower(
	ctx context.Context,
	actor policy.Actor,
	borrowerID uuid.UUID,
) ([]*ReservationListItem, error) {
	if !policy.CanAccessReservations(actor, policy.Input{Operation: policy.OpRead}) {
		return nil, ErrPermissionDenied
	}
	if borrowerID != actor.ID && !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	items, err := q.store.FindByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list reservations")
	}

	now := q.clock.Now()
	for _, item := range items {
		item.IsOverdue = item.DueBack != nil && now.After(*item.DueBack)
	}
	return items, nil
}

func (q *reservationQueriesImpl) fillOverdue(view *ReservationView) {
	now := q.clock.Now()
	view.IsOverdue = view.DueBack != nil && now.After(*view.DueBack)
}
