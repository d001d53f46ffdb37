package commands

import (
	"context"

	"librarium/internal/domain/policy"
	"librarium/internal/infra"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAlreadySubscribed = errs.New("already subscribed to this copy")
	ErrNotSubscribed     = errs.New("not subscribed to this copy")
	ErrNoContactAddress  = errs.New("no contact address on file")
)

// SubscriptionCommands manages per-copy availability subscriptions.
// A subscriber is notified when the copy next becomes available.
type SubscriptionCommands interface {
	Subscribe(ctx context.Context, actor policy.Actor, copyID uuid.UUID) error
	Unsubscribe(ctx context.Context, actor policy.Actor, copyID uuid.UUID) error
}

type subscriptionCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewSubscriptionCommands(uow shared.UnitOfWork) SubscriptionCommands {
	return &subscriptionCommandsImpl{uow: uow}
}

func (s *subscriptionCommandsImpl) Subscribe(ctx context.Context, actor policy.Actor, copyID uuid.UUID) error {
	if !policy.CanManageSubscription(actor, policy.Input{Operation: policy.OpCreate}) {
		return ErrPermissionDenied
	}

	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().CopyByID(ctx, copyID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCopyNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		address, err := tx.Reads().ContactAddress(ctx, actor.ID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if address == "" {
			return errs.Mark(ErrNoContactAddress, ErrValidation)
		}

		subscribed, err := tx.Reads().IsSubscribed(ctx, copyID, actor.ID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if subscribed {
			return errs.Mark(ErrAlreadySubscribed, ErrValidation)
		}

		if err := tx.Copies().AddSubscriber(ctx, tx.DB(), copyID, actor.ID); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(ErrAlreadySubscribed, ErrValidation)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (s *subscriptionCommandsImpl) Unsubscribe(ctx context.Context, actor policy.Actor, copyID uuid.UUID) error {
	if !policy.CanManageSubscription(actor, policy.Input{Operation: policy.OpDelete}) {
		return ErrPermissionDenied
	}

	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		removed, err := tx.Copies().RemoveSubscriber(ctx, tx.DB(), copyID, actor.ID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if removed == 0 {
			return errs.Mark(ErrNotSubscribed, ErrValidation)
		}
		return nil
	})
}
