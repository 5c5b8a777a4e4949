package services

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/dbx"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/auth"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/usersapi/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	hasher *countingHasher
	issuer *auth.Issuer
	users  *UserService
	admin  *AdminService
}

// countingHasher records how many bcrypt comparisons were made.
type countingHasher struct {
	*auth.Hasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(plaintext, digest string) (bool, error) {
	h.verifies.Add(1)
	return h.Hasher.Verify(plaintext, digest)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, d, err := repomanager.Open(ctx, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(d)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	h := &countingHasher{Hasher: auth.NewHasher(bcrypt.MinCost)}
	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)

	us, err := NewUserService(db, rm, h, issuer, logging.Nop{})
	require.NoError(t, err)

	return &testEnv{
		db:     db,
		rm:     rm,
		hasher: h,
		issuer: issuer,
		users:  us,
		admin:  NewAdminService(db, rm, logging.Nop{}),
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), NewUser{Name: "Testing", Email: email, Password: password})
	require.NoError(t, err)
	return u
}

// fakeUsersRepo lets tests force storage failures.
type fakeUsersRepo struct {
	usersrepo.Repository
	err error
}

func (f *fakeUsersRepo) Create(context.Context, *models.User) error { return f.err }
func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) { return nil, f.err }
func (f *fakeUsersRepo) SetActive(context.Context, string, bool) error        { return f.err }
func (f *fakeUsersRepo) List(context.Context, int) ([]*models.User, error)    { return nil, f.err }
func (f *fakeUsersRepo) Delete(context.Context, string) error                 { return f.err }

type fakeRepoManager struct {
	u usersrepo.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Dialect() repomanager.Dialect                 { return repomanager.DialectSQLite }
