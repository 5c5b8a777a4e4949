package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Gate authenticates the request. The token must validate and its subject
// must still resolve to an active account; every failure is the same 401.
// The account is then available through CurrentUser.
func Gate(tokens TokenValidator, users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.Authenticate(c.Request.Context(), claims.Subject)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole must run after Gate. A role mismatch is common.ErrorForbidden.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		if user.UserType != role {
			writeError(c, common.ErrorForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account resolved by Gate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
