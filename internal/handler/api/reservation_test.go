//go:build unit

package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"librarium/internal/domain/bookcopy"
	"librarium/internal/domain/policy"
	"librarium/internal/domain/reservation"
	"librarium/internal/domain/user"
	"librarium/internal/handler/api"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReservationCommands returns the configured error from every
// operation, which is all the handler's status mapping needs.
type stubReservationCommands struct {
	err error
	id  uuid.UUID
}

func (s *stubReservationCommands) Reserve(context.Context, policy.Actor, uuid.UUID, time.Time) (uuid.UUID, error) {
	return s.id, s.err
}

func (s *stubReservationCommands) Cancel(context.Context, policy.Actor, uuid.UUID) error {
	return s.err
}

func (s *stubReservationCommands) MarkBorrowed(context.Context, policy.Actor, uuid.UUID, time.Time) error {
	return s.err
}

func (s *stubReservationCommands) MarkReturned(context.Context, policy.Actor, uuid.UUID) error {
	return s.err
}

func (s *stubReservationCommands) Renew(context.Context, policy.Actor, uuid.UUID, time.Time) error {
	return s.err
}

type stubReservationQueries struct {
	view *queries.ReservationView
	err  error
}

func (s *stubReservationQueries) GetByID(context.Context, policy.Actor, uuid.UUID) (*queries.ReservationView, error) {
	return s.view, s.err
}

func (s *stubReservationQueries) ListByBorrower(context.Context, policy.Actor, uuid.UUID) ([]*queries.ReservationListItem, error) {
	return nil, s.err
}

func newTestRouter(h *api.ReservationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("actor", policy.NewActor(uuid.New(), user.RoleUser))
		c.Next()
	})
	router.POST("/reservations", h.CreateReservation)
	router.GET("/reservations/:id", h.GetReservation)
	router.POST("/reservations/:id/cancel", h.CancelReservation)
	return router
}

func TestCreateReservationStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		commandErr error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"copy missing", commands.ErrCopyNotFound, http.StatusNotFound},
		{"wrong copy status", commands.ErrInvalidCopyStatus, http.StatusConflict},
		{"window violation", commands.ErrValidation, http.StatusUnprocessableEntity},
		{"forbidden", commands.ErrPermissionDenied, http.StatusForbidden},
		// Marked causes, as the engine actually returns them.
		{
			"domain status error behind the category",
			errs.Mark(bookcopy.ErrInvalidStatus, commands.ErrInvalidCopyStatus),
			http.StatusConflict,
		},
		{
			"domain window error behind the category",
			errs.Mark(reservation.ErrDueBackTooFar, commands.ErrValidation),
			http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := api.NewReservationHandler(
				&stubReservationCommands{err: tt.commandErr, id: uuid.New()},
				&stubReservationQueries{},
			)
			router := newTestRouter(h)

			body := fmt.Sprintf(`{"copy":%q,"due_back":"2025-03-11T12:00:00Z"}`, uuid.New())
			req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateReservationBadBody(t *testing.T) {
	h := api.NewReservationHandler(&stubReservationCommands{}, &stubReservationQueries{})
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReservation(t *testing.T) {
	t.Run("invalid id format", func(t *testing.T) {
		h := api.NewReservationHandler(&stubReservationCommands{}, &stubReservationQueries{})
		router := newTestRouter(h)

		req := httptest.NewRequest(http.MethodGet, "/reservations/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		h := api.NewReservationHandler(
			&stubReservationCommands{},
			&stubReservationQueries{err: queries.ErrReservationNotFound},
		)
		router := newTestRouter(h)

		req := httptest.NewRequest(http.MethodGet, "/reservations/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("found", func(t *testing.T) {
		view := &queries.ReservationView{ID: uuid.New(), BookTitle: "Clean Architecture"}
		h := api.NewReservationHandler(&stubReservationCommands{}, &stubReservationQueries{view: view})
		router := newTestRouter(h)

		req := httptest.NewRequest(http.MethodGet, "/reservations/"+view.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Clean Architecture")
	})
}

func TestCancelReservationStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		commandErr error
		wantStatus int
	}{
		{"no content", nil, http.StatusNoContent},
		{"closed claim", commands.ErrValidation, http.StatusUnprocessableEntity},
		{
			"closed claim behind the category",
			errs.Mark(reservation.ErrClosed, commands.ErrValidation),
			http.StatusUnprocessableEntity,
		},
		{"not owner", commands.ErrPermissionDenied, http.StatusForbidden},
		{"unknown claim", commands.ErrReservationNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := api.NewReservationHandler(
				&stubReservationCommands{err: tt.commandErr},
				&stubReservationQueries{},
			)
			router := newTestRouter(h)

			req := httptest.NewRequest(http.MethodPost, "/reservations/"+uuid.NewString()+"/cancel", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
