package httpx

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names.
const (
	SessionCookieName = "session_id"
	TabCookieName     = "tab_id"

	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 10 * time.Minute
)

// Cookies writes cookies with the application's domain and security attributes.
type Cookies struct {
	Domain string
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// cookieSpec describes one cookie to set. A zero MaxAge makes a browser-session cookie.
type cookieSpec struct {
	Name     string
	Value    string
	MaxAge   time.Duration
	Readable bool // visible to page scripts
}

func (c Cookies) set(w http.ResponseWriter, r *http.Request, spec cookieSpec) {
	ck := &http.Cookie{
		Name:     spec.Name,
		Value:    spec.Value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: !spec.Readable,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
	if spec.MaxAge > 0 {
		ck.MaxAge = int(spec.MaxAge.Seconds())
	}
	http.SetCookie(w, ck)
}

// clear expires a cookie, mirroring the attributes used when it was set.
func (c Cookies) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
