//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"librarium/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	category := errs.New("validation failed")

	t.Run("mark and cause both match errors.Is", func(t *testing.T) {
		cause := errs.New("reservation is already closed")
		err := errs.Mark(cause, category)

		require.ErrorIs(t, err, category)
		require.ErrorIs(t, err, cause)
	})

	t.Run("message stays the cause's message", func(t *testing.T) {
		err := errs.Mark(errs.New("reservation is already closed"), category)

		assert.Equal(t, "reservation is already closed", err.Error())
	})

	t.Run("mark survives wrapping", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errs.New("boom"), category), "saving claim")

		require.ErrorIs(t, err, category)
	})

	t.Run("marking nil yields the mark itself", func(t *testing.T) {
		err := errs.Mark(nil, category)

		assert.True(t, errors.Is(err, category))
	})

	t.Run("stacked marks all match", func(t *testing.T) {
		inner := errs.New("no contact address on file")
		err := errs.Mark(inner, category)

		require.ErrorIs(t, err, inner)
		require.ErrorIs(t, err, category)
	})
}
