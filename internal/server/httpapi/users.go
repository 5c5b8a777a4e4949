package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type signupRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email,min=10,max=50"`
	Password   string `json:"password" validate:"required,min=8,max=35"`
	UserType   string `json:"userType"`
	City       string `json:"city" validate:"max=100"`
	Country    string `json:"country" validate:"max=100"`
	TelegramID string `json:"idTelegram" validate:"max=100"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type profileUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=3,max=50"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	Country    *string `json:"country" validate:"omitempty,max=100"`
	TelegramID *string `json:"idTelegram" validate:"omitempty,max=100"`
}

type changePasswordForm struct {
	ActualPassword string `form:"actual_password" validate:"required,min=8,max=35"`
	NewPassword    string `form:"new_password" validate:"required,min=8,max=35"`
}

type userHandlers struct {
	users UserService
}

// bindJSON decodes the body into dst and validates it.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return newValidationError("body", "must be a valid JSON object")
	}
	return validateStruct(dst)
}

// bindForm decodes url-encoded or multipart form fields into dst and
// validates it.
func bindForm(c *gin.Context, dst any) error {
	if err := c.ShouldBindWith(dst, binding.Form); err != nil {
		return newValidationError("body", "must be a valid form")
	}
	return validateStruct(dst)
}

func (h *userHandlers) signup(c *gin.Context) {
	var req signupRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.NewUser{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		UserType:   req.UserType,
		City:       req.City,
		Country:    req.Country,
		TelegramID: req.TelegramID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProfile(user))
}

func (h *userHandlers) login(c *gin.Context) {
	var form loginForm
	if err := bindForm(c, &form); err != nil {
		writeError(c, err)
		return
	}

	tok, err := h.users.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, detailResponse{Detail: "Incorrect username or password"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType})
}

func (h *userHandlers) me(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, toProfile(user))
}

func (h *userHandlers) updateMe(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req profileUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, services.ProfileUpdate{
		Name:       req.Name,
		City:       req.City,
		Country:    req.Country,
		TelegramID: req.TelegramID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfile(updated))
}

func (h *userHandlers) deleteMe(c *gin.Context) {
	user, _ := CurrentUser(c)

	if err := h.users.Deactivate(c.Request.Context(), user.ID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("User id:%s disabled", user.ID)})
}

func (h *userHandlers) changePassword(c *gin.Context) {
	user, _ := CurrentUser(c)

	var form changePasswordForm
	if err := bindForm(c, &form); err != nil {
		writeError(c, err)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), user.ID, form.ActualPassword, form.NewPassword); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("User id:%s password updated", user.ID)})
}
