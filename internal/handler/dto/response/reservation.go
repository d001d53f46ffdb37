package response

import (
	"github.com/google/uuid"
)

type CreateReservationResponse struct {
	ID uuid.UUID `json:"id"`
}
