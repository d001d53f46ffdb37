package commands

import (
	"context"
	"time"

	"librarium/internal/domain/bookcopy"
	"librarium/internal/domain/policy"
	"librarium/internal/domain/reservation"
	"librarium/internal/infra"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPermissionDenied    = errs.New("permission denied")
	ErrCopyNotFound        = errs.New("copy not found")
	ErrReservationNotFound = errs.New("reservation not found")

	// ErrInvalidCopyStatus marks failures where the copy is not in the
	// state the operation requires. Recoverable by the caller after
	// re-inspecting current state.
	ErrInvalidCopyStatus = errs.New("copy is not in the required status")
	// ErrValidation marks business-rule violations: dates out of the
	// allowed window, transitions on closed reservations. Never retried
	// automatically.
	ErrValidation = errs.New("validation failed")

	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ReservationCommands is the lending state machine over copy status,
// driven by five operations. Every operation re-derives legality from
// persisted state inside one isolated transaction and reads the clock
// exactly once.
type ReservationCommands interface {
	Reserve(ctx context.Context, actor policy.Actor, copyID uuid.UUID, dueBack time.Time) (uuid.UUID, error)
	Cancel(ctx context.Context, actor policy.Actor, reservationID uuid.UUID) error
	MarkBorrowed(ctx context.Context, actor policy.Actor, reservationID uuid.UUID, until time.Time) error
	MarkReturned(ctx context.Context, actor policy.Actor, reservationID uuid.UUID) error
	Renew(ctx context.Context, actor policy.Actor, reservationID uuid.UUID, until time.Time) error
}

type reservationCommandsImpl struct {
	uow        shared.UnitOfWork
	dispatcher Dispatcher
	clock      clock.Clock
}

func NewReservationCommands(uow shared.UnitOfWork, dispatcher Dispatcher, clk clock.Clock) ReservationCommands {
	return &reservationCommandsImpl{
		uow:        uow,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

func (c *reservationCommandsImpl) Reserve(
	ctx context.Context,
	actor policy.Actor,
	copyID uuid.UUID,
	dueBack time.Time,
) (uuid.UUID, error) {
	if !policy.CanAccessReservations(actor, policy.Input{Operation: policy.OpCreate}) {
		return uuid.Nil, ErrPermissionDenied
	}

	now := c.clock.Now()

	var reservationID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().CopyByID(ctx, copyID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCopyNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		cp, err := copyFromSnapshot(snap)
		if err != nil {
			return err
		}
		if err := cp.Reserve(); err != nil {
			return errs.Mark(err, ErrInvalidCopyStatus)
		}

		res, err := reservation.NewReservation(copyID, actor.ID, now, dueBack)
		if err != nil {
			return errs.Mark(err, ErrValidation)
		}

		if err := tx.Copies().UpdateStatus(ctx, tx.DB(), cp.ID(), cp.Status().String()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		id, err := tx.Reservations().Create(ctx, tx.DB(), res)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// A reservation fulfills any standing availability subscription
		// the borrower held on this copy.
		if _, err := tx.Copies().RemoveSubscriber(ctx, tx.DB(), copyID, actor.ID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		reservationID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return reservationID, nil
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, actor policy.Actor, reservationID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, cp, err := c.loadClaim(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		borrowerID := res.BorrowerID()
		in := policy.Input{Operation: policy.OpCancel, BorrowerID: &borrowerID}
		if !policy.CanCancelReservation(actor, in) {
			return ErrPermissionDenied
		}

		// The closed-reservation guard runs before the status check so a
		// stale id can never ride on another claim's matching copy state.
		if err := res.Cancel(); err != nil {
			return errs.Mark(err, ErrValidation)
		}
		if err := cp.ReleaseHold(); err != nil {
			return errs.Mark(err, ErrInvalidCopyStatus)
		}

		return c.persistClaim(ctx, tx, res, cp)
	})
}

func (c *reservationCommandsImpl) MarkBorrowed(
	ctx context.Context,
	actor policy.Actor,
	reservationID uuid.UUID,
	until time.Time,
) error {
	if !policy.CanAdvanceLoan(actor, policy.Input{Operation: policy.OpBorrow}) {
		return ErrPermissionDenied
	}

	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, cp, err := c.loadClaim(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		if err := res.MarkBorrowed(now, until); err != nil {
			return errs.Mark(err, ErrValidation)
		}
		if err := cp.LendOut(); err != nil {
			return errs.Mark(err, ErrInvalidCopyStatus)
		}

		return c.persistClaim(ctx, tx, res, cp)
	})
}

func (c *reservationCommandsImpl) MarkReturned(ctx context.Context, actor policy.Actor, reservationID uuid.UUID) error {
	if !policy.CanAdvanceLoan(actor, policy.Input{Operation: policy.OpReturn}) {
		return ErrPermissionDenied
	}

	now := c.clock.Now()

	var copyID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, cp, err := c.loadClaim(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		if err := res.MarkReturned(now); err != nil {
			return errs.Mark(err, ErrValidation)
		}
		if err := cp.AcceptReturn(); err != nil {
			return errs.Mark(err, ErrInvalidCopyStatus)
		}

		if err := c.persistClaim(ctx, tx, res, cp); err != nil {
			return err
		}

		copyID = cp.ID()
		return nil
	})
	if err != nil {
		return err
	}

	// Outside the transaction: delivery failures must never roll back
	// the completed return.
	c.dispatcher.Enqueue(copyID)
	return nil
}

func (c *reservationCommandsImpl) Renew(
	ctx context.Context,
	actor policy.Actor,
	reservationID uuid.UUID,
	until time.Time,
) error {
	if !policy.CanAdvanceLoan(actor, policy.Input{Operation: policy.OpRenew}) {
		return ErrPermissionDenied
	}

	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, cp, err := c.loadClaim(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		// Closed-reservation guard first, as in Cancel: a canceled or
		// returned claim fails validation even though its copy has long
		// since gone back to a renewable-looking state.
		if err := res.Renew(now, until); err != nil {
			return errs.Mark(err, ErrValidation)
		}
		if !cp.CanExtend() {
			return errs.Mark(bookcopy.ErrInvalidStatus, ErrInvalidCopyStatus)
		}

		// Copy status is untouched; only the claim's deadline moves.
		if err := tx.Reservations().Update(ctx, tx.DB(), res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *reservationCommandsImpl) loadClaim(
	ctx context.Context,
	tx shared.Tx,
	reservationID uuid.UUID,
) (*reservation.Reservation, *bookcopy.Copy, error) {
	resSnap, copySnap, err := tx.Reads().ReservationWithCopy(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrReservationNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	res := reservation.ReconstructReservation(
		resSnap.ID,
		resSnap.CopyID,
		resSnap.BorrowerID,
		resSnap.ReservedAt,
		resSnap.BorrowedAt,
		resSnap.ReturnedAt,
		resSnap.DueBack,
	)

	cp, err := copyFromSnapshot(copySnap)
	if err != nil {
		return nil, nil, err
	}

	return res, cp, nil
}

func (c *reservationCommandsImpl) persistClaim(
	ctx context.Context,
	tx shared.Tx,
	res *reservation.Reservation,
	cp *bookcopy.Copy,
) error {
	if err := tx.Copies().UpdateStatus(ctx, tx.DB(), cp.ID(), cp.Status().String()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Reservations().Update(ctx, tx.DB(), res); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func copyFromSnapshot(snap *shared.CopySnapshot) (*bookcopy.Copy, error) {
	status, err := bookcopy.NewStatus(snap.Status)
	if err != nil {
		return nil, errs.Wrap(err, "corrupt copy status in store")
	}
	return bookcopy.ReconstructCopy(snap.ID, snap.BookID, status, snap.CreatedAt, snap.UpdatedAt), nil
}
