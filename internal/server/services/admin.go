package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// AdminService exposes account listing, lookup and hard deletion. Callers
// are expected to have checked the admin role already.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *AdminService {
	return &AdminService{db: db, repomanager: m, log: log.With("component", "admin_service")}
}

// List returns up to limit accounts; zero means DefaultListLimit.
func (s *AdminService) List(ctx context.Context, limit int) ([]*models.User, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return nil, common.ErrorValidation
	}

	users, err := s.repomanager.Users(s.db).List(ctx, limit)
	if err != nil {
		return nil, mapServiceErr(ctx, s.log, "list users", err)
	}
	return users, nil
}

func (s *AdminService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, mapServiceErr(ctx, s.log, "get user by email", err)
	}
	return u, nil
}

// GetByID rejects identifiers that are not UUIDs with common.ErrorValidation.
func (s *AdminService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorValidation
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapServiceErr(ctx, s.log, "get user by id", err)
	}
	return u, nil
}

// Delete removes the account row permanently.
func (s *AdminService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorValidation
	}

	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return mapServiceErr(ctx, s.log, "delete user", err)
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}
