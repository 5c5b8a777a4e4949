package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/gin-gonic/gin"
)

type detailResponse struct {
	Detail any `json:"detail"`
}

// abortUnauthorized ends the request with the single 401 body used for
// every authentication failure.
func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, detailResponse{Detail: "Could not validate credentials"})
}

// writeError maps service errors to HTTP responses and aborts the chain.
func writeError(c *gin.Context, err error) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, detailResponse{Detail: verr.fields})
	case errors.Is(err, common.ErrorValidation):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, detailResponse{Detail: "Invalid request"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.AbortWithStatusJSON(http.StatusConflict, detailResponse{Detail: "User already exists"})
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, detailResponse{Detail: "User not found"})
	case errors.Is(err, common.ErrorForbidden):
		// non-admins on admin routes get 401, not 403
		c.AbortWithStatusJSON(http.StatusUnauthorized, detailResponse{Detail: "User Unauthorized"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		abortUnauthorized(c)
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, detailResponse{Detail: "Internal Error"})
	}
}
