package cli

import (
	"bufio"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/usersapi/internal/client/client"
)

type fakeAPI struct {
	token string

	signup    client.Signup
	loginUser string
	loginPass []byte
	update    client.ProfileUpdate
	actual    []byte
	next      []byte
	uploaded  []byte
	upName    string

	profile  *client.Profile
	pingErr  error
	err      error
	closed   bool
	deactive bool
}

func (f *fakeAPI) Register(_ context.Context, s client.Signup) (*client.Profile, error) {
	f.signup = s
	if f.err != nil {
		return nil, f.err
	}
	return &client.Profile{ID: "u1", Email: s.Email, Name: s.Name, UserType: "free"}, nil
}
func (f *fakeAPI) Login(_ context.Context, email string, password []byte) error {
	f.loginUser, f.loginPass = email, append([]byte(nil), password...)
	if f.err != nil {
		return f.err
	}
	f.token = "tok"
	return nil
}
func (f *fakeAPI) Logout()        { f.token = "" }
func (f *fakeAPI) LoggedIn() bool { return f.token != "" }
func (f *fakeAPI) Me(context.Context) (*client.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
func (f *fakeAPI) UpdateMe(_ context.Context, u client.ProfileUpdate) (*client.Profile, error) {
	f.update = u
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
func (f *fakeAPI) ChangePassword(_ context.Context, actual, next []byte) (string, error) {
	f.actual, f.next = append([]byte(nil), actual...), append([]byte(nil), next...)
	if f.err != nil {
		return "", f.err
	}
	return "User id:u1 password updated", nil
}
func (f *fakeAPI) Deactivate(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.deactive = true
	f.token = ""
	return "User id:u1 disabled", nil
}
func (f *fakeAPI) UploadFile(_ context.Context, filename string, r io.Reader) (*client.UploadedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(r)
	f.upName, f.uploaded = filename, b
	return &client.UploadedFile{Filename: filename, Size: int64(len(b)), Key: "users/u1/k"}, nil
}
func (f *fakeAPI) PresignUpload(context.Context) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "users/u1/k", "http://s3/k?sig", nil
}
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }
func (f *fakeAPI) Close() error               { f.closed = true; return nil }

// captureOutput swaps printlnFn and returns what was printed.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := ""
		for i, v := range a {
			if i > 0 {
				s += " "
			}
			s += toString(v)
		}
		lines = append(lines, s)
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// stubInputs answers text prompts from texts in order and password prompts
// from passwords in order.
func stubInputs(t *testing.T, texts []string, passwords ...string) {
	t.Helper()
	origST, origGP, origOT := getSimpleText, getPassword, getOptionalText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getOptionalText = func(r *bufio.Reader, p string, w io.Writer) (string, bool, error) {
		v, err := getSimpleText(r, p, w)
		return v, v != "", err
	}
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
	t.Cleanup(func() {
		getSimpleText, getPassword, getOptionalText = origST, origGP, origOT
	})
}
