package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Profile is the public account representation returned by the API.
type Profile struct {
	ID         string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	UserType   string    `json:"userType"`
	CreatedAt  time.Time `json:"initDate"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	TelegramID string    `json:"idTelegram"`
}

// Signup is the sign-up payload.
type Signup struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	TelegramID string `json:"idTelegram,omitempty"`
}

// ProfileUpdate carries the profile fields to change; nil leaves a field as is.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	City       *string `json:"city,omitempty"`
	Country    *string `json:"country,omitempty"`
	TelegramID *string `json:"idTelegram,omitempty"`
}

// UploadedFile describes a file stored by the API.
type UploadedFile struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	Key      string `json:"key"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	conn    *grpc.ClientConn
	health  healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

// NewHTTPClient builds a client for the API at baseURL. healthAddr may be
// empty, in which case Ping uses GET /health.
func NewHTTPClient(baseURL, healthAddr string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}

	if healthAddr != "" {
		conn, err := grpc.NewClient(healthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		c.conn = conn
		c.health = healthpb.NewHealthClient(conn)
	}

	return c, nil
}

func (c *HTTPClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}

// LoggedIn reports whether a token is held.
func (c *HTTPClient) LoggedIn() bool {
	return c.token() != ""
}

// Logout forgets the token. The server keeps no session to end.
func (c *HTTPClient) Logout() {
	c.setToken("")
}

func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader, auth bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if auth {
		t := c.token()
		if t == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	ct := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		ct = "application/json"
	}
	return c.do(ctx, method, path, ct, body, auth, out)
}

func (c *HTTPClient) doForm(ctx context.Context, method, path string, form url.Values, auth bool, out any) error {
	return c.do(ctx, method, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), auth, out)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Register(ctx context.Context, s Signup) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodPost, "/users/newuser", s, false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login exchanges credentials for a bearer token and keeps it.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) error {
	var tr struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	form := url.Values{"username": {email}, "password": {string(password)}}
	if err := c.doForm(ctx, http.MethodPost, "/userlogin", form, false, &tr); err != nil {
		return err
	}
	if tr.AccessToken == "" || !strings.EqualFold(tr.TokenType, "bearer") {
		return fmt.Errorf("%w: unexpected token response", ErrServer)
	}
	c.setToken(tr.AccessToken)
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodGet, "/users/myuser", nil, true, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateMe(ctx context.Context, u ProfileUpdate) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodPut, "/users/myuser", u, true, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, actual, next []byte) (string, error) {
	var m messageResponse
	form := url.Values{"actual_password": {string(actual)}, "new_password": {string(next)}}
	if err := c.doForm(ctx, http.MethodPut, "/users/myuser/changepassword", form, true, &m); err != nil {
		return "", err
	}
	return m.Message, nil
}

// Deactivate disables the account and drops the token, which the server
// no longer accepts.
func (c *HTTPClient) Deactivate(ctx context.Context) (string, error) {
	var m messageResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/users/myuser", nil, true, &m); err != nil {
		return "", err
	}
	c.Logout()
	return m.Message, nil
}

// UploadFile sends r as the multipart "file" field.
func (c *HTTPClient) UploadFile(ctx context.Context, filename string, r io.Reader) (*UploadedFile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var f UploadedFile
	if err := c.do(ctx, http.MethodPost, "/uploadFile/", w.FormDataContentType(), &buf, true, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// PresignUpload returns a storage key and a presigned PUT URL for it.
func (c *HTTPClient) PresignUpload(ctx context.Context) (string, string, error) {
	var pr struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/uploadFile/presign", nil, true, &pr); err != nil {
		return "", "", err
	}
	return pr.Key, pr.URL, nil
}

// Ping reports whether the server is serving.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.health == nil {
		return c.doJSON(ctx, http.MethodGet, "/health", nil, false, nil)
	}

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}
