package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/lovenote/lovenote-web/internal/domain/access"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/service"
)

// AuthServiceInterface defines the auth operations used by the HTTP layer.
type AuthServiceInterface interface {
	SessionResolver
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Cookies Cookies
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Begin starts the sign-in or sign-up flow.
// POST /auth/login and /auth/register.
//
// The post-login destination is the "from" parameter set by a guarded page,
// else the public-only target computed from "redirect" and "template".
func (h *AuthHandlers) Begin(w http.ResponseWriter, r *http.Request) {
	redirectURI := postLoginTarget(r.URL.Query())

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "login_failed"})
		return
	}

	ttl := oauthCookieLifetime
	h.Cookies.set(w, r, cookieSpec{Name: oauthStateCookie, Value: result.State, MaxAge: ttl})
	h.Cookies.set(w, r, cookieSpec{Name: oauthNonceCookie, Value: result.Nonce, MaxAge: ttl})
	h.Cookies.set(w, r, cookieSpec{Name: postLoginCookie, Value: redirectURI, MaxAge: ttl})

	http.Redirect(w, r, result.AuthURL, http.StatusSeeOther)
}

func postLoginTarget(q url.Values) string {
	if from := q.Get(access.FromParam); access.IsSafeRedirect(from) {
		return from
	}
	return access.PublicTarget(q, access.DefaultPublicRedirect)
}

// Callback completes the flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	switch {
	case code == "":
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "missing_code",
			Err: errors.New("authorization code is required"),
		})
		return
	case state == "" || cookieValue(r, oauthStateCookie) != state:
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "invalid_state",
			Err: errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonce := cookieValue(r, oauthNonceCookie)
	if nonce == "" {
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "missing_nonce",
			Err: errors.New("missing nonce parameter"),
		})
		return
	}

	sess, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state, Nonce: nonce})
	if err != nil {
		h.logger().WarnContext(r.Context(), "complete login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_completion_failed"})
		return
	}

	h.Cookies.set(w, r, cookieSpec{
		Name:   SessionCookieName,
		Value:  sess.ID,
		MaxAge: time.Until(sess.ExpiresAt),
	})
	h.Cookies.clear(w, r, oauthStateCookie)
	h.Cookies.clear(w, r, oauthNonceCookie)

	redirectURI := access.DefaultPublicRedirect
	if candidate := cookieValue(r, postLoginCookie); access.IsSafeRedirect(candidate) {
		redirectURI = candidate
	}
	h.Cookies.clear(w, r, postLoginCookie)
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// Logout ends the session.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id := cookieValue(r, SessionCookieName); id != "" {
		if err := h.Svc.Logout(r.Context(), id); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", slog.Any("error", err))
		}
	}
	h.Cookies.clear(w, r, SessionCookieName)

	if IsAPIRequest(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": "/"})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type statusUser struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	Loading       bool        `json:"loading,omitempty"`
	User          *statusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
}

// Status reports the visitor's session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	st := GetSessionState(r.Context())
	if st.IsLoading() {
		w.Header().Set("Retry-After", "1")
		WriteJSON(w, http.StatusServiceUnavailable, statusResponse{Loading: true})
		return
	}
	if !st.IsAuthenticated() {
		if cookieValue(r, SessionCookieName) != "" {
			h.Cookies.clear(w, r, SessionCookieName)
		}
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	s := st.Session
	roles := make([]string, 0, len(s.Roles))
	for _, role := range s.Roles {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	perms := append([]string{}, s.Permissions...)
	sort.Strings(perms)
	expires := s.ExpiresAt
	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User: &statusUser{
			ID:          s.UserID,
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			Email:       s.Email,
			Roles:       roles,
			Permissions: perms,
		},
		ExpiresAt: &expires,
	})
}
