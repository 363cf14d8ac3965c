package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
)

var (
	errMalformedID   = errors.New("id invalido")
	errFechaRequired = errors.New("parametro fecha es obligatorio")
)

// parseID coerces a path parameter into a numeric id; non-numeric input
// is the caller's fault, not a 500.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errMalformedID)
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps the service error taxonomy onto HTTP codes.
// Unexpected errors surface as a generic 500; the detail is only echoed
// back in development mode.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrClientBlacklisted):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrSlotConflict),
		errors.Is(err, services.ErrDuplicateClientBooking),
		errors.Is(err, services.ErrTableBlocked):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrBlockInPast),
		services.IsValidation(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if os.Getenv("APP_ENV") == "development" {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error interno del servidor"))
	}
}
