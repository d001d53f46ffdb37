package api

import (
	"context"
	"errors"
	"net/http"

	"librarium/internal/domain/policy"
	"librarium/internal/handler/middleware"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CopyHandler struct {
	subscriptionCommands commands.SubscriptionCommands
	copyQueries          queries.CopyQueries
}

func NewCopyHandler(
	subscriptionCommands commands.SubscriptionCommands,
	copyQueries queries.CopyQueries,
) *CopyHandler {
	return &CopyHandler{
		subscriptionCommands: subscriptionCommands,
		copyQueries:          copyQueries,
	}
}

// @Summary Get copy
// @Description Get a copy's current status and subscriber count
// @Tags copies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Copy ID"
// @Success 200 {object} queries.CopyView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /copies/{id} [get]
func (h *CopyHandler) GetCopy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid copy ID format",
		})
		return
	}

	view, err := h.copyQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrCopyNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Copy not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Subscribe to copy availability
// @Description Be notified when the copy next becomes available
// @Tags copies
// @Security BearerAuth
// @Param id path string true "Copy ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /copies/{id}/subscribe [post]
func (h *CopyHandler) Subscribe(c *gin.Context) {
	h.manageSubscription(c, h.subscriptionCommands.Subscribe)
}

// @Summary Unsubscribe from copy availability
// @Description Drop a standing availability subscription
// @Tags copies
// @Security BearerAuth
// @Param id path string true "Copy ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /copies/{id}/unsubscribe [post]
func (h *CopyHandler) Unsubscribe(c *gin.Context) {
	h.manageSubscription(c, h.subscriptionCommands.Unsubscribe)
}

func (h *CopyHandler) manageSubscription(
	c *gin.Context,
	fn func(ctx context.Context, actor policy.Actor, copyID uuid.UUID) error,
) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid copy ID format",
		})
		return
	}

	if err := fn(c.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Permission denied",
			})
		case errors.Is(err, commands.ErrCopyNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Copy not found",
			})
		case errors.Is(err, commands.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
