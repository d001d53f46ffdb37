package commands

import (
	"context"

	"github.com/google/uuid"
)

// Dispatcher accepts fire-and-forget availability notifications. An
// enqueue must never block or fail the state transition that
// triggered it.
type Dispatcher interface {
	Enqueue(copyID uuid.UUID)
}

// Mailer is the outbound messaging collaborator.
type Mailer interface {
	Send(ctx context.Context, subject, body string, to []string) error
}
