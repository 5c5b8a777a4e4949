package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminList_Limits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		env.register(t, fmt.Sprintf("user%d@example.com", i), "MyPassword")
	}

	all, err := env.admin.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	two, err := env.admin.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	_, err = env.admin.List(ctx, MaxListLimit+1)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.admin.List(ctx, -1)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestAdminLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "test@example.com", "MyPassword")

	got, err := env.admin.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = env.admin.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = env.admin.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.admin.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.admin.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestAdminDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "test@example.com", "MyPassword")

	require.NoError(t, env.admin.Delete(ctx, u.ID))

	_, err := env.admin.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, env.admin.Delete(ctx, u.ID), common.ErrorNotFound)
	assert.ErrorIs(t, env.admin.Delete(ctx, "nope"), common.ErrorValidation)

	// a removed account cannot pass re-resolution
	_, err = env.users.Authenticate(ctx, "test@example.com")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAdmin_StorageError(t *testing.T) {
	s := NewAdminService(nil, &fakeRepoManager{u: &fakeUsersRepo{err: errors.New("boom")}}, logging.Nop{})
	ctx := context.Background()

	_, err := s.List(ctx, 10)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, s.Delete(ctx, "00000000-0000-0000-0000-000000000000"), common.ErrorInternal)
}
