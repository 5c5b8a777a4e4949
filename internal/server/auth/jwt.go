package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when Issue is called with a non-positive ttl and the
// Issuer was built without one.
const DefaultTokenTTL = 30 * time.Minute

// Claims carries the standard registered claims. Subject holds the account
// email.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 access tokens with a process-wide secret.
type Issuer struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret []byte, defaultTTL time.Duration) *Issuer {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &Issuer{secret: secret, defaultTTL: defaultTTL, now: time.Now}
}

// Issue mints a token for subject that expires ttl from now.
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = i.defaultTTL
	}

	now := i.now()
	exp := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, exp, nil
}

// Validate checks signature, structure and expiry of tokenString.
// It returns common.ErrTokenExpired for an expired token and
// common.ErrInvalidToken for everything else.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
