package usecase

import (
	"librarium/internal/domain/policy"
	"librarium/internal/pkg/errs"
	"librarium/internal/pkg/jwt"
)

var ErrInvalidToken = errs.New("invalid token")

// TokenValidator turns a bearer token into an Actor for the policy
// layer. Handlers depend on this instead of the jwt package directly.
type TokenValidator interface {
	Validate(token string) (policy.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (v *tokenValidatorImpl) Validate(token string) (policy.Actor, error) {
	userID, role, err := v.jwtService.Authenticate(token)
	if err != nil {
		return policy.Anonymous(), errs.Mark(err, ErrInvalidToken)
	}

	return policy.NewActor(userID, role), nil
}
