package bookcopy

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownStatus = errors.New("unknown copy status")
	// ErrInvalidStatus signals that the copy is not in the state the
	// requested transition needs. Callers may retry after re-inspecting
	// current state.
	ErrInvalidStatus = errors.New("copy is not in the required status")
)

// Copy is one lendable unit of a cataloged book. Its status is only
// ever advanced through the transition methods below; legality is
// re-derived from the persisted state loaded into the entity, never
// from caller-supplied state.
type Copy struct {
	id        uuid.UUID
	bookID    uuid.UUID
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewCopy creates a copy in maintenance; catalog management moves it
// to available before it can circulate.
func NewCopy(bookID uuid.UUID) *Copy {
	return &Copy{
		id:     uuid.New(),
		bookID: bookID,
		status: StatusMaintenance,
	}
}

func ReconstructCopy(id, bookID uuid.UUID, status Status, createdAt, updatedAt time.Time) *Copy {
	return &Copy{
		id:        id,
		bookID:    bookID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Reserve transitions available → reserved.
func (c *Copy) Reserve() error {
	if c.status != StatusAvailable {
		return ErrInvalidStatus
	}
	c.status = StatusReserved
	return nil
}

// ReleaseHold transitions reserved → available (reservation canceled).
func (c *Copy) ReleaseHold() error {
	if c.status != StatusReserved {
		return ErrInvalidStatus
	}
	c.status = StatusAvailable
	return nil
}

// LendOut transitions reserved → on_loan.
func (c *Copy) LendOut() error {
	if c.status != StatusReserved {
		return ErrInvalidStatus
	}
	c.status = StatusOnLoan
	return nil
}

// AcceptReturn transitions on_loan → available.
func (c *Copy) AcceptReturn() error {
	if c.status != StatusOnLoan {
		return ErrInvalidStatus
	}
	c.status = StatusAvailable
	return nil
}

// CanExtend reports whether the copy is held by an active claim whose
// deadline may be pushed out.
func (c *Copy) CanExtend() bool {
	return c.status == StatusReserved || c.status == StatusOnLoan
}

func (c *Copy) ID() uuid.UUID        { return c.id }
func (c *Copy) BookID() uuid.UUID    { return c.bookID }
func (c *Copy) Status() Status       { return c.status }
func (c *Copy) CreatedAt() time.Time { return c.createdAt }
func (c *Copy) UpdatedAt() time.Time { return c.updatedAt }
