package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/shelf/internal/helpers"
	"github.com/joshua-takyi/shelf/internal/middleware"
	"github.com/joshua-takyi/shelf/internal/models"
	"github.com/joshua-takyi/shelf/internal/services"
)

func currentSession(c *gin.Context) (*services.Session, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("session not initialized"))
		return nil, false
	}
	session, ok := v.(*services.Session)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid session"))
		return nil, false
	}
	return session, true
}

// respondError writes recoverable domain failures directly; anything else is
// handed to the error middleware as a 500.
func respondError(c *gin.Context, err error, data interface{}) {
	var perr *models.ProfileError
	var rerr *models.ReviewError
	switch {
	case errors.As(err, &perr):
		c.JSON(http.StatusUnprocessableEntity, models.ValidationResponse(perr.Message, string(perr.Kind), perr.Field, data))
	case errors.As(err, &rerr):
		c.JSON(http.StatusUnprocessableEntity, models.ValidationResponse(rerr.Message, string(rerr.Kind), "", data))
	case errors.Is(err, models.ErrItemNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	case errors.Is(err, helpers.ErrAvatarTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse(err.Error()))
	case errors.Is(err, helpers.ErrNotAnImage):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	default:
		_ = c.Error(err)
	}
}
