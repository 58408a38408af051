package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
)

var (
	errUnauthenticated = errors.New("authentication credentials were not provided")
	errInternal        = errors.New("internal server error")
	errInvalidPage     = errors.New("Invalid page.")
)

// respondServiceError maps service sentinel errors onto HTTP statuses.
// Anything unrecognised is logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPage):
		utils.RespondError(c, http.StatusNotFound, errInvalidPage)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		_ = c.Error(err)
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}
