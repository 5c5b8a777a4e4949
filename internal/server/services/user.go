// Package services contains server-side business logic. This file implements
// UserService: registration, credential verification, token issuance and the
// owner-scoped account operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/dbx"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/auth"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PasswordHasher is satisfied by *auth.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// TokenIssuer is satisfied by *auth.Issuer.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

const TokenTypeBearer = "bearer"

// NewUser is the sign-up payload. UserType is accepted for compatibility
// with clients that send it but is always replaced by common.UserTypeFree.
type NewUser struct {
	Name       string
	Email      string
	Password   string
	UserType   string
	City       string
	Country    string
	TelegramID string
}

// ProfileUpdate carries the owner-editable fields; nil means unchanged.
type ProfileUpdate struct {
	Name       *string
	City       *string
	Country    *string
	TelegramID *string
}

// dummyPasswordSize is the random byte length of the password behind
// dummyHash. Logins for unknown emails are verified against that hash so
// they still pay for one bcrypt comparison.
const dummyPasswordSize = 24

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	issuer      TokenIssuer
	log         logging.Logger
	now         func() time.Time
	dummyHash   string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, issuer TokenIssuer, log logging.Logger) (*UserService, error) {
	pw, err := common.MakeRandHexString(dummyPasswordSize)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(pw)
	if err != nil {
		return nil, err
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		log:         log.With("component", "user_service"),
		now:         func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		dummyHash:   dummy,
	}, nil
}

// Register creates an active account with the default role.
func (s *UserService) Register(ctx context.Context, in NewUser) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, common.ErrorValidation
		}
		s.log.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		PassHash:   hash,
		UserType:   common.UserTypeFree,
		IsActive:   true,
		CreatedAt:  s.now(),
		City:       in.City,
		Country:    in.Country,
		TelegramID: in.TelegramID,
	}

	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.log.Error(ctx, "create user", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies email and password and issues an access token. Unknown
// email, wrong password and a deactivated account all yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Verify(password, user.PassHash)
	if err != nil {
		s.log.Error(ctx, "verify password", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok || !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	access, exp, err := s.issuer.Issue(user.Email, 0)
	if err != nil {
		s.log.Error(ctx, "issue token", "error", err)
		return nil, common.ErrorInternal
	}

	return &Token{AccessToken: access, TokenType: TokenTypeBearer, ExpiresAt: exp}, nil
}

// Authenticate re-resolves the account behind a validated token subject.
// Missing and deactivated accounts are both common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// UpdateProfile applies upd to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.City != nil {
			u.City = *upd.City
		}
		if upd.Country != nil {
			u.Country = *upd.Country
		}
		if upd.TelegramID != nil {
			u.TelegramID = *upd.TelegramID
		}

		if err := repo.UpdateProfile(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, s.mapErr(ctx, "update profile", err)
	}

	return user, nil
}

// ChangePassword replaces the password hash after checking actual against
// the stored one. A wrong actual password is common.ErrorUnauthorized.
func (s *UserService) ChangePassword(ctx context.Context, userID, actual, newPassword string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		ok, err := s.hasher.Verify(actual, u.PassHash)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrorUnauthorized
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooLong) {
				return common.ErrorValidation
			}
			return err
		}

		return repo.UpdatePassword(ctx, userID, hash)
	})
	if err != nil {
		return s.mapErr(ctx, "change password", err)
	}

	s.log.Info(ctx, "password updated", "user_id", userID)
	return nil
}

// Deactivate soft-deletes the caller's account.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).SetActive(ctx, userID, false); err != nil {
		return s.mapErr(ctx, "deactivate user", err)
	}
	s.log.Info(ctx, "user deactivated", "user_id", userID)
	return nil
}

// mapErr passes known sentinel errors through and collapses the rest to
// common.ErrorInternal after logging them.
func (s *UserService) mapErr(ctx context.Context, op string, err error) error {
	return mapServiceErr(ctx, s.log, op, err)
}

func mapServiceErr(ctx context.Context, log logging.Logger, op string, err error) error {
	for _, known := range []error{
		common.ErrorNotFound,
		common.ErrorUnauthorized,
		common.ErrorValidation,
		common.ErrorAlreadyExists,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	log.Error(ctx, op, "error", err)
	return common.ErrorInternal
}
