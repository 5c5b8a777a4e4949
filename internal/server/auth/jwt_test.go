package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	is := NewIssuer([]byte("super-secret"), time.Hour)

	tok, exp, err := is.Issue("test@example.com", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := is.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	is := NewIssuer([]byte("k"), 0)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	is.now = fixedClock(start)

	_, exp, err := is.Issue("a@b.cd", -time.Second)
	require.NoError(t, err)
	assert.Equal(t, start.Add(DefaultTokenTTL), exp)
}

func TestValidate_AcceptedBeforeExpiryRejectedAfter(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	is := NewIssuer([]byte("secret"), time.Minute)
	is.now = fixedClock(start)

	tok, _, err := is.Issue("u1@example.com", 10*time.Minute)
	require.NoError(t, err)

	is.now = fixedClock(start.Add(9 * time.Minute))
	_, err = is.Validate(tok)
	require.NoError(t, err)

	is.now = fixedClock(start.Add(11 * time.Minute))
	_, err = is.Validate(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewIssuer([]byte("right-secret"), time.Hour).Issue("u2@example.com", 0)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("wrong-secret"), time.Hour).Validate(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	is := NewIssuer([]byte("k"), time.Hour)
	for _, s := range []string{"", "not.a.jwt", "abc"} {
		_, err := is.Validate(s)
		assert.ErrorIs(t, err, common.ErrInvalidToken, "token %q", s)
	}
}

func TestValidate_MissingSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewIssuer(secret, time.Hour).Validate(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestValidate_MissingExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "a@b.cd",
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewIssuer(secret, time.Hour).Validate(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	claims := jwt.RegisteredClaims{
		Subject:   "a@b.cd",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = NewIssuer(secret, time.Hour).Validate(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewIssuer(secret, time.Hour).Validate(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
