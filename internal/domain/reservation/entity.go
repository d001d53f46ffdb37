package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxReserveDays bounds how far ahead a hold may run before it is
// either borrowed or canceled.
const MaxReserveDays = 2

var (
	ErrClosed          = errors.New("reservation is already closed")
	ErrDueBackInPast   = errors.New("due back date cannot be in the past")
	ErrDueBackTooFar   = errors.New("due back date exceeds the maximum reserve window")
	ErrUntilDateInPast = errors.New("until date cannot be in the past")
)

// Reservation is a single claim on a copy spanning hold → loan →
// return. It is active while dueBack is set; once dueBack is cleared
// the record is terminal and every further transition fails with
// ErrClosed, regardless of what the copy's status happens to be.
type Reservation struct {
	id         uuid.UUID
	copyID     uuid.UUID
	borrowerID uuid.UUID
	reservedAt time.Time
	borrowedAt *time.Time
	returnedAt *time.Time
	dueBack    *time.Time
}

// NewReservation opens a claim. The due-back date must fall strictly
// after now and no later than now + MaxReserveDays (inclusive bound).
func NewReservation(copyID, borrowerID uuid.UUID, now, dueBack time.Time) (*Reservation, error) {
	if !dueBack.After(now) {
		return nil, ErrDueBackInPast
	}
	if dueBack.After(now.AddDate(0, 0, MaxReserveDays)) {
		return nil, ErrDueBackTooFar
	}

	due := dueBack
	return &Reservation{
		id:         uuid.New(),
		copyID:     copyID,
		borrowerID: borrowerID,
		reservedAt: now,
		dueBack:    &due,
	}, nil
}

func ReconstructReservation(
	id, copyID, borrowerID uuid.UUID,
	reservedAt time.Time,
	borrowedAt, returnedAt, dueBack *time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		copyID:     copyID,
		borrowerID: borrowerID,
		reservedAt: reservedAt,
		borrowedAt: borrowedAt,
		returnedAt: returnedAt,
		dueBack:    dueBack,
	}
}

// IsOpen reports whether the claim still drives the copy's state.
func (r *Reservation) IsOpen() bool {
	return r.dueBack != nil
}

// Cancel closes the claim before borrowing.
func (r *Reservation) Cancel() error {
	if !r.IsOpen() {
		return ErrClosed
	}
	r.dueBack = nil
	return nil
}

// MarkBorrowed starts the loan phase and moves the deadline to until.
func (r *Reservation) MarkBorrowed(now, until time.Time) error {
	if !r.IsOpen() {
		return ErrClosed
	}
	if until.Before(now) {
		return ErrUntilDateInPast
	}
	borrowed := now
	due := until
	r.borrowedAt = &borrowed
	r.dueBack = &due
	return nil
}

// MarkReturned closes the claim after the loan.
func (r *Reservation) MarkReturned(now time.Time) error {
	if !r.IsOpen() {
		return ErrClosed
	}
	returned := now
	r.returnedAt = &returned
	r.dueBack = nil
	return nil
}

// Renew pushes the active deadline out without touching the copy.
func (r *Reservation) Renew(now, until time.Time) error {
	if !r.IsOpen() {
		return ErrClosed
	}
	if until.Before(now) {
		return ErrUntilDateInPast
	}
	due := until
	r.dueBack = &due
	return nil
}

// IsOverdue reports whether an open claim has slipped past its deadline.
func (r *Reservation) IsOverdue(now time.Time) bool {
	return r.dueBack != nil && now.After(*r.dueBack)
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) CopyID() uuid.UUID      { return r.copyID }
func (r *Reservation) BorrowerID() uuid.UUID  { return r.borrowerID }
func (r *Reservation) ReservedAt() time.Time  { return r.reservedAt }
func (r *Reservation) BorrowedAt() *time.Time { return r.borrowedAt }
func (r *Reservation) ReturnedAt() *time.Time { return r.returnedAt }
func (r *Reservation) DueBack() *time.Time    { return r.dueBack }
