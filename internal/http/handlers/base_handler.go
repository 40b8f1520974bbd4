// README: Shared handler utilities (JSON helpers, domain error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/modules/route"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/modules/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps service errors onto HTTP statuses. Store outages
// are 503 so clients know to retry; lost acceptance races are 409 so
// clients know to re-search instead.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, user.ErrBadRequest),
		errors.Is(err, history.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound), errors.Is(err, user.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrInvalidState), errors.Is(err, trip.ErrCandidateUnavailable):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, trip.ErrStoreUnavailable), errors.Is(err, user.ErrStoreUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, route.ErrRouteUnavailable):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
