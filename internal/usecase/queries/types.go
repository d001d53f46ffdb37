package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTOs for the read side).

type ReservationView struct {
	ID            uuid.UUID  `json:"id"`
	CopyID        uuid.UUID  `json:"copy"`
	BookTitle     string     `json:"book_title"`
	BorrowerID    uuid.UUID  `json:"borrower"`
	BorrowerEmail string     `json:"borrower_email"`
	ReservedAt    time.Time  `json:"reserved_at"`
	BorrowedAt    *time.Time `json:"borrowed_at"`
	ReturnedAt    *time.Time `json:"returned_at"`
	DueBack       *time.Time `json:"due_back"`
	IsOverdue     bool       `json:"is_overdue"`
}

type ReservationListItem struct {
	ID         uuid.UUID  `json:"id"`
	CopyID     uuid.UUID  `json:"copy"`
	BookTitle  string     `json:"book_title"`
	ReservedAt time.Time  `json:"reserved_at"`
	DueBack    *time.Time `json:"due_back"`
	IsOverdue  bool       `json:"is_overdue"`
}

type CopyView struct {
	ID              uuid.UUID `json:"id"`
	BookID          uuid.UUID `json:"book"`
	BookTitle       string    `json:"book_title"`
	Status          string    `json:"status"`
	SubscriberCount int       `json:"subscriber_count"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
