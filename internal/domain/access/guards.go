package access

import (
	"net/url"
	"strings"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
)

// Default fallback targets per guard.
const (
	DefaultProtectedFallback = "/auth/login"
	DefaultPublicRedirect    = "/dashboard"
	DefaultGateFallback      = "/"
)

// FromParam carries the attempted location through a login redirect.
const FromParam = "from"

// Outcome is what a guard decided to do with a request.
type Outcome uint8

const (
	RenderChildren Outcome = iota
	ShowLoading
	Redirect
	ShowDenied
	ShowPrompt
)

func (o Outcome) String() string {
	switch o {
	case RenderChildren:
		return "render"
	case ShowLoading:
		return "loading"
	case Redirect:
		return "redirect"
	case ShowDenied:
		return "denied"
	case ShowPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Result is a guard decision. Location is set for Redirect, Decision for ShowDenied.
type Result struct {
	Outcome  Outcome
	Location string
	Decision Decision
}

// ProtectedConfig configures a member-only route.
type ProtectedConfig struct {
	Rules        []Rule
	FallbackPath string
}

// Protected decides a member-only route. Unauthenticated visitors are sent to
// the fallback with the attempted location attached; authenticated visitors
// failing a rule get the denial view, never the page.
func Protected(state domainauth.SessionState, cfg ProtectedConfig, attempted string) Result {
	if state.IsLoading() {
		return Result{Outcome: ShowLoading}
	}
	if !state.IsAuthenticated() {
		fallback := cfg.FallbackPath
		if fallback == "" {
			fallback = DefaultProtectedFallback
		}
		return Result{
			Outcome:  Redirect,
			Location: WithFrom(fallback, attempted),
			Decision: Deny(ReasonUnauthenticated, NoRequirement()),
		}
	}
	if d := Evaluate(*state.Session, cfg.Rules...); !d.Allowed {
		return Result{Outcome: ShowDenied, Decision: d}
	}
	return Result{Outcome: RenderChildren, Decision: Allow()}
}

// Admin decides an admin-only route: admin role plus an optional admin permission.
func Admin(state domainauth.SessionState, permission, fallbackPath, attempted string) Result {
	return Protected(state, ProtectedConfig{
		Rules:        []Rule{AdminRequired(permission)},
		FallbackPath: fallbackPath,
	}, attempted)
}

// Public decides a public-only page such as login or register.
// Authenticated visitors are sent to PublicTarget.
func Public(state domainauth.SessionState, redirectTo string, query url.Values) Result {
	if state.IsLoading() {
		return Result{Outcome: ShowLoading}
	}
	if state.IsAuthenticated() {
		return Result{Outcome: Redirect, Location: PublicTarget(query, redirectTo)}
	}
	return Result{Outcome: RenderChildren, Decision: Allow()}
}

// PublicTarget computes where an authenticated visitor of a public-only page goes.
// A same-origin "redirect" parameter wins over redirectTo and carries the
// "template" parameter along.
func PublicTarget(query url.Values, redirectTo string) string {
	if redirect := query.Get("redirect"); redirect != "" && IsSafeRedirect(redirect) {
		tpl := query.Get("template")
		if tpl == "" {
			return redirect
		}
		sep := "?"
		if strings.Contains(redirect, "?") {
			sep = "&"
		}
		return redirect + sep + "template=" + url.QueryEscape(tpl)
	}
	if redirectTo == "" || !IsSafeRedirect(redirectTo) {
		return DefaultPublicRedirect
	}
	return redirectTo
}

// WithFrom appends the attempted location to target as the "from" parameter.
// Unsafe or empty attempted locations are dropped.
func WithFrom(target, attempted string) string {
	if attempted == "" || !IsSafeRedirect(attempted) {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(FromParam, attempted)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsSafeRedirect reports whether candidate is a same-origin relative path.
func IsSafeRedirect(candidate string) bool {
	if candidate == "" || strings.HasPrefix(candidate, "//") || strings.Contains(candidate, `\`) {
		return false
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" {
		return false
	}
	return strings.HasPrefix(u.Path, "/")
}
