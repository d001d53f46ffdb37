package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	CopyID  uuid.UUID `json:"copy" binding:"required"`
	DueBack time.Time `json:"due_back" binding:"required"`
}

// ExtendLoanRequest carries the new deadline for borrow and renew.
type ExtendLoanRequest struct {
	Until time.Time `json:"until" binding:"required"`
}
