package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_ForcesDefaultRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, role := range []string{"", common.UserTypeAdmin, common.UserTypeUser, "root"} {
		email := "role-" + role + "@example.com"
		u, err := env.users.Register(ctx, NewUser{Name: "Testing", Email: email, Password: "MyPassword", UserType: role})
		require.NoError(t, err)
		assert.Equal(t, common.UserTypeFree, u.UserType)
		assert.True(t, u.IsActive)
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		stored, err := env.rm.Users(env.db).GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, common.UserTypeFree, stored.UserType, "supplied role %q", role)
		assert.NotEqual(t, "MyPassword", stored.PassHash)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "test@example.com", "MyPassword")

	_, err := env.users.Register(context.Background(), NewUser{Name: "Testing", Email: "test@example.com", Password: "MyPassword"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(context.Background(), NewUser{Name: "Testing", Email: "long@example.com", Password: strings.Repeat("p", 80)})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_StorageError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{err: errors.New("disk full")}}
	s, err := NewUserService(nil, rm, auth.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte("k"), 0), logging.Nop{})
	require.NoError(t, err)

	_, err = s.Register(context.Background(), NewUser{Name: "Testing", Email: "x@example.com", Password: "MyPassword"})
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "test@example.com", "MyPassword")

	tok, err := env.users.Login(context.Background(), "test@example.com", "MyPassword")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	claims, err := env.issuer.Validate(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", claims.Subject)
	assert.WithinDuration(t, tok.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestLogin_UndifferentiatedFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "test@example.com", "MyPassword")

	_, wrongPassword := env.users.Login(ctx, "test@example.com", "NotMyPassword")
	_, unknownEmail := env.users.Login(ctx, "ghost@example.com", "MyPassword")

	require.Error(t, wrongPassword)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.ErrorIs(t, unknownEmail, common.ErrorUnauthorized)
}

func TestLogin_UnknownEmailStillComparesHash(t *testing.T) {
	env := newTestEnv(t)

	before := env.hasher.verifies.Load()
	_, err := env.users.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, before+1, env.hasher.verifies.Load())
}

func TestLogin_StorageError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{err: errors.New("conn reset")}}
	s, err := NewUserService(nil, rm, auth.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte("k"), 0), logging.Nop{})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "a@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)

	_, err = s.Authenticate(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "test@example.com", "MyPassword")

	got, err := env.users.Authenticate(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = env.users.Authenticate(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "test@example.com", "OldPassword")

	err := env.users.ChangePassword(ctx, u.ID, "WrongPassword", "NewPassword")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	require.NoError(t, env.users.ChangePassword(ctx, u.ID, "OldPassword", "NewPassword"))

	_, err = env.users.Login(ctx, "test@example.com", "OldPassword")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = env.users.Login(ctx, "test@example.com", "NewPassword")
	assert.NoError(t, err)
}

func TestChangePassword_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	err := env.users.ChangePassword(context.Background(), "00000000-0000-0000-0000-000000000000", "a", "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeactivate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "test@example.com", "MyPassword")

	tok, err := env.users.Login(ctx, "test@example.com", "MyPassword")
	require.NoError(t, err)

	require.NoError(t, env.users.Deactivate(ctx, u.ID))

	_, err = env.users.Login(ctx, "test@example.com", "MyPassword")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// the old token is still cryptographically valid, but re-resolution fails
	claims, err := env.issuer.Validate(tok.AccessToken)
	require.NoError(t, err)
	_, err = env.users.Authenticate(ctx, claims.Subject)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// still readable by id for admins
	got, err := env.admin.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestDeactivate_StorageError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{err: errors.New("boom")}}
	s, err := NewUserService(nil, rm, auth.NewHasher(bcrypt.MinCost), auth.NewIssuer([]byte("k"), 0), logging.Nop{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Deactivate(context.Background(), "id"), common.ErrorInternal)
}

func TestUpdateProfile_Partial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u, err := env.users.Register(ctx, NewUser{Name: "Testing", Email: "test@example.com", Password: "MyPassword", City: "Riga"})
	require.NoError(t, err)

	country := "Latvia"
	name := "Renamed"
	got, err := env.users.UpdateProfile(ctx, u.ID, ProfileUpdate{Name: &name, Country: &country})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Riga", got.City)
	assert.Equal(t, "Latvia", got.Country)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, common.UserTypeFree, got.UserType)

	stored, err := env.rm.Users(env.db).GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Name, stored.Name)
	assert.Equal(t, u.PassHash, stored.PassHash)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.UpdateProfile(context.Background(), "missing", ProfileUpdate{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
