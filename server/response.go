package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/server/middleware"
)

// RespondWithError writes err as {"error": "..."}. AppErrors keep their
// status; a body cut off by the size limit becomes 413; anything else is 500.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	if limit, ok := middleware.TooLarge(err); ok {
		tooLarge := apperrors.PayloadTooLarge(limit)
		c.AbortWithStatusJSON(tooLarge.HTTPStatus, tooLarge.ToResponse())
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondOK writes data as the 200 body, unwrapped.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
