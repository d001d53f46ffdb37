package commands

import (
	"context"
	"fmt"
	"log/slog"

	"librarium/internal/infra"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationCommands fans an availability message out to every
// subscriber of a copy. It does not clear the subscriber set: each
// subscription is removed individually when its holder reserves the
// copy.
type NotificationCommands interface {
	NotifySubscribers(ctx context.Context, copyID uuid.UUID) error
}

type notificationCommandsImpl struct {
	reads  shared.CommandReads
	mailer Mailer
}

func NewNotificationCommands(uow shared.UnitOfWork, mailer Mailer) NotificationCommands {
	return &notificationCommandsImpl{
		reads:  uow.CommandReads(),
		mailer: mailer,
	}
}

func (n *notificationCommandsImpl) NotifySubscribers(ctx context.Context, copyID uuid.UUID) error {
	snap, err := n.reads.CopyByID(ctx, copyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCopyNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	addresses, err := n.reads.SubscriberAddresses(ctx, copyID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(addresses) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%q is available again", snap.BookTitle)
	body := fmt.Sprintf(
		"The copy of %q you subscribed to (copy %s) has just become available. Reserve it before someone else does.",
		snap.BookTitle, snap.ID,
	)

	// One message per subscriber; a failed delivery is logged and
	// skipped so the remaining subscribers still hear about the copy.
	for _, to := range addresses {
		if sendErr := n.mailer.Send(ctx, subject, body, []string{to}); sendErr != nil {
			slog.Warn("availability notification failed",
				"copy_id", copyID,
				"recipient", to,
				"error", sendErr.Error())
		}
	}

	return nil
}
