package httpx

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	lovenote "github.com/lovenote/lovenote-web"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/service"
)

// fakeAuthService is a test double for service.AuthService.
type fakeAuthService struct {
	sessions map[string]*domainauth.Session
	loading  bool

	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	loggedOut         []string
}

func newFakeAuth(sessions ...*domainauth.Session) *fakeAuthService {
	f := &fakeAuthService{sessions: make(map[string]*domainauth.Session)}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeAuthService) ResolveSession(_ context.Context, id string) domainauth.SessionState {
	if f.loading {
		return domainauth.Loading()
	}
	if s, ok := f.sessions[id]; ok {
		return domainauth.Authenticated(s)
	}
	return domainauth.Anonymous()
}

func (f *fakeAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginLoginFunc != nil {
		return f.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (f *fakeAuthService) CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*domainauth.Session, error) {
	if f.completeLoginFunc != nil {
		return f.completeLoginFunc(ctx, in)
	}
	return testSession("new-session", domainauth.RoleUser), nil
}

func (f *fakeAuthService) Logout(_ context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	delete(f.sessions, id)
	return nil
}

func testSession(id string, roles ...domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		FirstName: "Camille",
		LastName:  "Martin",
		Email:     id + "@example.com",
		Roles:     roles,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func withPermissions(s *domainauth.Session, perms ...string) *domainauth.Session {
	s.Permissions = append(s.Permissions, perms...)
	return s
}

func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	sub, err := fs.Sub(lovenote.TemplateFS, "web/templates")
	require.NoError(t, err)
	r, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: sub})
	require.NoError(t, err)
	return r
}

// requestAs builds a request carrying the given session cookie (may be empty).
func requestAs(method, target, sessionID string) *http.Request {
	var req *http.Request
	if method == http.MethodPost {
		req = httptest.NewRequest(method, target, strings.NewReader(""))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	return req
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
