package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/usersapi/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	out := captureOutput(t)
	f := &fakeAPI{}
	a := &App{api: f}

	stubInputs(t, []string{"Testing", "test@example.com"}, "MyPassword")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, client.Signup{Name: "Testing", Email: "test@example.com", Password: "MyPassword"}, f.signup)
	require.Len(t, *out, 1)
	assert.Contains(t, (*out)[0], "role free")
}

func TestRegister_ErrorPropagates(t *testing.T) {
	captureOutput(t)
	f := &fakeAPI{err: client.ErrAlreadyExists}
	a := &App{api: f}
	stubInputs(t, []string{"Testing", "test@example.com"}, "MyPassword")

	require.ErrorIs(t, a.Register(context.Background()), client.ErrAlreadyExists)
}

func TestLoginLogout(t *testing.T) {
	captureOutput(t)
	f := &fakeAPI{}
	a := &App{api: f}
	stubInputs(t, []string{"test@example.com"}, "MyPassword")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "test@example.com", f.loginUser)
	assert.Equal(t, "MyPassword", string(f.loginPass))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(test@example.com)", a.getStatus())

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestLogin_Failure(t *testing.T) {
	captureOutput(t)
	f := &fakeAPI{err: client.ErrUnauthorized}
	a := &App{api: f}
	stubInputs(t, []string{"test@example.com"}, "wrong")

	err := a.Login(context.Background())
	require.True(t, errors.Is(err, client.ErrUnauthorized))
	assert.False(t, a.isLoggedIn())
}

func TestLogin_InputError(t *testing.T) {
	f := &fakeAPI{}
	a := &App{api: f}
	stubInputs(t, nil)

	require.Error(t, a.Login(context.Background()))
	assert.Empty(t, f.loginUser)
}
