// Package httpapi exposes the users API over HTTP with gin: routing, request
// validation, error mapping, the bearer-token access gate and the common
// middleware stack (recovery, request id, request logging).
package httpapi
