package shared

import (
	"context"

	"librarium/internal/domain/reservation"
	"librarium/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork scopes every lending transition to a single isolated
// transaction: read current state, validate, write all affected rows,
// commit. Partial application is never observable.
type UnitOfWork interface {
	// Within runs fn in a serializable transaction with retry on
	// serialization conflicts.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads exposes command-side reads outside a transaction,
	// for collaborators that must not join one (e.g. the notification
	// dispatcher).
	CommandReads() CommandReads
}

type Tx interface {
	Copies() CopyRepository
	Reservations() ReservationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	CopyByID(ctx context.Context, id uuid.UUID) (*CopySnapshot, error)
	// ReservationWithCopy eager-loads the claim together with its copy.
	ReservationWithCopy(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, *CopySnapshot, error)
	SubscriberAddresses(ctx context.Context, copyID uuid.UUID) ([]string, error)
	IsSubscribed(ctx context.Context, copyID, userID uuid.UUID) (bool, error)
	ContactAddress(ctx context.Context, userID uuid.UUID) (string, error)
}

type CopyRepository interface {
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status string) error
	AddSubscriber(ctx context.Context, dbtx db.DBTX, copyID, userID uuid.UUID) error
	// RemoveSubscriber reports how many rows were removed so callers
	// can tell absent subscriptions apart from store failures.
	RemoveSubscriber(ctx context.Context, dbtx db.DBTX, copyID, userID uuid.UUID) (int64, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}
