package policy

import (
	"librarium/internal/domain/user"

	"github.com/google/uuid"
)

// Operation classifies what an actor is trying to do, independent of
// transport verbs.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpCancel Operation = "cancel"
	OpBorrow Operation = "borrow"
	OpReturn Operation = "return"
	OpRenew  Operation = "renew"
)

// Actor is the authenticated identity threaded explicitly through
// every engine call. The zero value is anonymous and fails every
// role predicate.
type Actor struct {
	ID            uuid.UUID
	Role          user.Role
	Authenticated bool
}

func NewActor(id uuid.UUID, role user.Role) Actor {
	return Actor{ID: id, Role: role, Authenticated: true}
}

func Anonymous() Actor {
	return Actor{}
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && a.Role == user.RoleAdmin
}

// Input carries the operation and, for object-level checks, the
// target reservation's borrower.
type Input struct {
	Operation  Operation
	BorrowerID *uuid.UUID
}

// Predicate is a pure allow/deny check. Predicates compose with And
// and Or exactly as declared per endpoint.
type Predicate func(Actor, Input) bool

func And(ps ...Predicate) Predicate {
	return func(a Actor, in Input) bool {
		for _, p := range ps {
			if !p(a, in) {
				return false
			}
		}
		return true
	}
}

func Or(ps ...Predicate) Predicate {
	return func(a Actor, in Input) bool {
		for _, p := range ps {
			if p(a, in) {
				return true
			}
		}
		return false
	}
}

func IsAuthenticated(a Actor, _ Input) bool {
	return a.Authenticated
}

func IsUser(a Actor, _ Input) bool {
	return a.Authenticated && a.Role == user.RoleUser
}

func IsLibrarian(a Actor, _ Input) bool {
	return a.Authenticated && a.Role == user.RoleLibrarian
}

func IsAdmin(a Actor, _ Input) bool {
	return a.IsAdmin()
}

func IsAdminOrReadOnly(a Actor, in Input) bool {
	return in.Operation == OpRead || a.IsAdmin()
}

func IsNotUpdate(_ Actor, in Input) bool {
	return in.Operation != OpUpdate
}

func IsNotDelete(_ Actor, in Input) bool {
	return in.Operation != OpDelete
}

// IsReserveeOrBorrower requires the target reservation to be loaded
// first; it compares the actor against the claim's borrower.
func IsReserveeOrBorrower(a Actor, in Input) bool {
	return a.Authenticated && in.BorrowerID != nil && *in.BorrowerID == a.ID
}

// Endpoint compositions.
var (
	// Users may list/retrieve/create their reservations; admins may do
	// anything with them.
	CanAccessReservations = Or(And(IsUser, IsNotUpdate, IsNotDelete), IsAdmin)

	// Only the reservee (or an admin) may cancel a claim.
	CanCancelReservation = Or(And(IsUser, IsReserveeOrBorrower), IsAdmin)

	// Borrow/return/renew are desk operations.
	CanAdvanceLoan = Or(IsLibrarian, IsAdmin)

	// Any authenticated account may manage its own availability
	// subscriptions.
	CanManageSubscription = Predicate(IsAuthenticated)
)
