package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("invalid input")
	ErrServer        = errors.New("server error")
	ErrNotLoggedIn   = errors.New("not logged in")
)

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// readDetail returns the "detail" of an error body as text. Field lists
// are rendered as "field: message; ...".
func readDetail(body io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	b, _ := io.ReadAll(io.LimitReader(body, 64<<10))
	if err := json.Unmarshal(b, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(b))
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var fields []fieldDetail
	if err := json.Unmarshal(payload.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return strings.Join(parts, "; ")
	}

	return string(payload.Detail)
}

// statusError maps a non-2xx response to a sentinel error.
func statusError(resp *http.Response) error {
	detail := readDetail(resp.Body)

	var base error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		base = ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		base = ErrAlreadyExists
	case resp.StatusCode == http.StatusNotFound:
		base = ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity, resp.StatusCode == http.StatusBadRequest:
		base = ErrValidation
	case resp.StatusCode == http.StatusServiceUnavailable:
		base = ErrUnavailable
	default:
		base = ErrServer
	}

	if detail == "" {
		return fmt.Errorf("%w (%s)", base, resp.Status)
	}
	return fmt.Errorf("%w: %s", base, detail)
}
