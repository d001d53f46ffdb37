//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"librarium/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewReservation(t *testing.T) {
	copyID := uuid.New()
	borrowerID := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		dueBack := baseTime.Add(24 * time.Hour)

		res, err := reservation.NewReservation(copyID, borrowerID, baseTime, dueBack)
		require.NoError(t, err)
		require.NotNil(t, res)

		assert.NotEqual(t, uuid.Nil, res.ID())
		assert.Equal(t, copyID, res.CopyID())
		assert.Equal(t, borrowerID, res.BorrowerID())
		assert.Equal(t, baseTime, res.ReservedAt())
		assert.Nil(t, res.BorrowedAt())
		assert.Nil(t, res.ReturnedAt())
		require.NotNil(t, res.DueBack())
		assert.Equal(t, dueBack, *res.DueBack())
		assert.True(t, res.IsOpen())
	})

	t.Run("due back window validation", func(t *testing.T) {
		tests := []struct {
			name    string
			dueBack time.Time
			errIs   error
		}{
			{
				name:    "due back equal to now",
				dueBack: baseTime,
				errIs:   reservation.ErrDueBackInPast,
			},
			{
				name:    "due back in the past",
				dueBack: baseTime.Add(-time.Hour),
				errIs:   reservation.ErrDueBackInPast,
			},
			{
				name:    "due back one second ahead",
				dueBack: baseTime.Add(time.Second),
			},
			{
				name:    "due back exactly at the window edge",
				dueBack: baseTime.AddDate(0, 0, reservation.MaxReserveDays),
			},
			{
				name:    "due back one second past the window edge",
				dueBack: baseTime.AddDate(0, 0, reservation.MaxReserveDays).Add(time.Second),
				errIs:   reservation.ErrDueBackTooFar,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res, err := reservation.NewReservation(copyID, borrowerID, baseTime, tt.dueBack)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
					assert.Nil(t, res)
					return
				}
				require.NoError(t, err)
				require.NotNil(t, res)
			})
		}
	})
}

func openReservation(t *testing.T) *reservation.Reservation {
	t.Helper()
	res, err := reservation.NewReservation(uuid.New(), uuid.New(), baseTime, baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	return res
}

func TestReservationLifecycle(t *testing.T) {
	t.Run("full lifecycle reserve borrow return", func(t *testing.T) {
		res := openReservation(t)

		borrowTime := baseTime.Add(2 * time.Hour)
		until := borrowTime.Add(14 * 24 * time.Hour)
		require.NoError(t, res.MarkBorrowed(borrowTime, until))

		require.NotNil(t, res.BorrowedAt())
		assert.Equal(t, borrowTime, *res.BorrowedAt())
		require.NotNil(t, res.DueBack())
		assert.Equal(t, until, *res.DueBack())
		assert.True(t, res.IsOpen())

		returnTime := borrowTime.Add(7 * 24 * time.Hour)
		require.NoError(t, res.MarkReturned(returnTime))

		require.NotNil(t, res.ReturnedAt())
		assert.Equal(t, returnTime, *res.ReturnedAt())
		assert.Nil(t, res.DueBack())
		assert.False(t, res.IsOpen())
	})

	t.Run("cancel closes an open hold", func(t *testing.T) {
		res := openReservation(t)

		require.NoError(t, res.Cancel())
		assert.False(t, res.IsOpen())
		assert.Nil(t, res.DueBack())
	})

	t.Run("renew moves the deadline only", func(t *testing.T) {
		res := openReservation(t)

		newDeadline := baseTime.Add(36 * time.Hour)
		require.NoError(t, res.Renew(baseTime.Add(time.Hour), newDeadline))

		require.NotNil(t, res.DueBack())
		assert.Equal(t, newDeadline, *res.DueBack())
		assert.Nil(t, res.BorrowedAt())
	})

	t.Run("closed reservation rejects every transition", func(t *testing.T) {
		res := openReservation(t)
		require.NoError(t, res.Cancel())

		later := baseTime.Add(time.Hour)
		assert.ErrorIs(t, res.Cancel(), reservation.ErrClosed)
		assert.ErrorIs(t, res.MarkBorrowed(later, later.Add(time.Hour)), reservation.ErrClosed)
		assert.ErrorIs(t, res.MarkReturned(later), reservation.ErrClosed)
		assert.ErrorIs(t, res.Renew(later, later.Add(time.Hour)), reservation.ErrClosed)
	})

	t.Run("until date in the past rejected and state unchanged", func(t *testing.T) {
		res := openReservation(t)
		originalDue := *res.DueBack()

		now := baseTime.Add(2 * time.Hour)
		require.ErrorIs(t, res.MarkBorrowed(now, now.Add(-time.Minute)), reservation.ErrUntilDateInPast)
		assert.Nil(t, res.BorrowedAt())
		require.NotNil(t, res.DueBack())
		assert.Equal(t, originalDue, *res.DueBack())

		require.ErrorIs(t, res.Renew(now, now.Add(-time.Minute)), reservation.ErrUntilDateInPast)
		assert.Equal(t, originalDue, *res.DueBack())
	})

	t.Run("until equal to now accepted", func(t *testing.T) {
		res := openReservation(t)

		now := baseTime.Add(time.Hour)
		require.NoError(t, res.MarkBorrowed(now, now))
	})
}

func TestReservationIsOverdue(t *testing.T) {
	res := openReservation(t)
	due := *res.DueBack()

	assert.False(t, res.IsOverdue(due))
	assert.False(t, res.IsOverdue(due.Add(-time.Second)))
	assert.True(t, res.IsOverdue(due.Add(time.Second)))

	require.NoError(t, res.Cancel())
	assert.False(t, res.IsOverdue(due.Add(time.Hour)))
}
