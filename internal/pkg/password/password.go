package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMismatch = errors.New("password does not match")
	ErrEmpty    = errors.New("password must not be empty")
)

// Hash produces the bcrypt hash stored on a member account. The
// default cost keeps login verification well under interactive
// latency while staying resistant to offline guessing.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks a login attempt against the stored member hash.
func Verify(hash, plain string) error {
	if hash == "" || plain == "" {
		return ErrEmpty
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
