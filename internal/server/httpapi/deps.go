package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/auth"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/dmitrijs2005/usersapi/internal/server/services"
)

// UserService is implemented by *services.UserService.
type UserService interface {
	Register(ctx context.Context, in services.NewUser) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Token, error)
	Authenticate(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID, actual, newPassword string) error
	Deactivate(ctx context.Context, userID string) error
}

// AdminService is implemented by *services.AdminService.
type AdminService interface {
	List(ctx context.Context, limit int) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// FileService is implemented by *services.FileService.
type FileService interface {
	Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (*services.UploadedFile, error)
	PresignUpload(ctx context.Context, userID string) (string, string, error)
}

// TokenValidator is implemented by *auth.Issuer.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// HealthChecker reports whether the backing storage is reachable.
type HealthChecker func(ctx context.Context) error

// Deps groups everything the router needs.
type Deps struct {
	Users         UserService
	Admin         AdminService
	Files         FileService
	Tokens        TokenValidator
	Health        HealthChecker
	Log           logging.Logger
	MaxUploadSize int64
}

// profile is the public account representation. It never carries the hash.
type profile struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	UserType   string    `json:"userType"`
	InitDate   time.Time `json:"initDate"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	TelegramID string    `json:"idTelegram"`
}

func toProfile(u *models.User) profile {
	return profile{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		UserType:   u.UserType,
		InitDate:   u.CreatedAt,
		City:       u.City,
		Country:    u.Country,
		TelegramID: u.TelegramID,
	}
}

func toProfiles(us []*models.User) []profile {
	out := make([]profile, 0, len(us))
	for _, u := range us {
		out = append(out, toProfile(u))
	}
	return out
}

type messageResponse struct {
	Message string `json:"message"`
}
