package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/server/services"
	"github.com/gin-gonic/gin"
)

type adminHandlers struct {
	admin AdminService
}

func notFound(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusNotFound, detailResponse{Detail: detail})
}

func (h *adminHandlers) list(c *gin.Context) {
	limit := services.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > services.MaxListLimit {
			writeError(c, newValidationError("limit", fmt.Sprintf("must be an integer between 1 and %d", services.MaxListLimit)))
			return
		}
		limit = n
	}

	users, err := h.admin.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfiles(users))
}

func (h *adminHandlers) getByEmail(c *gin.Context) {
	email := c.Param("email")

	user, err := h.admin.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			notFound(c, fmt.Sprintf("Error. User e-mail: %s Not found", email))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfile(user))
}

func (h *adminHandlers) getByID(c *gin.Context) {
	id := c.Param("id")

	user, err := h.admin.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			notFound(c, fmt.Sprintf("Error. User uuid:%s Not found", id))
		case errors.Is(err, common.ErrorValidation):
			writeError(c, newValidationError("id", "must be a valid UUID"))
		default:
			writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, toProfile(user))
}

func (h *adminHandlers) deleteByID(c *gin.Context) {
	id := c.Param("id")

	if err := h.admin.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			notFound(c, fmt.Sprintf("Error. User uuid:%s Not found", id))
		case errors.Is(err, common.ErrorValidation):
			writeError(c, newValidationError("id", "must be a valid UUID"))
		default:
			writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("User uuid:%s deleted", id)})
}
