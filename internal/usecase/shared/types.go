package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep command validation off the read-side view
// types.
type CopySnapshot struct {
	ID        uuid.UUID
	BookID    uuid.UUID
	BookTitle string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReservationSnapshot struct {
	ID         uuid.UUID
	CopyID     uuid.UUID
	BorrowerID uuid.UUID
	ReservedAt time.Time
	BorrowedAt *time.Time
	ReturnedAt *time.Time
	DueBack    *time.Time
}
