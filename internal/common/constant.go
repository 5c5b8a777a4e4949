// Package common contains shared constants and sentinel errors used across
// the users API server and its command-line client.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme accepted by the access gate and
// reported back to clients as the token type on login.
const BearerScheme = "bearer"

// Account tiers. New accounts always start as UserTypeFree.
const (
	UserTypeFree  = "free"
	UserTypeUser  = "user"
	UserTypeAdmin = "admin"
)
