package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lovenote/lovenote-web/internal/domain/access"
	"github.com/lovenote/lovenote-web/internal/observability/metrics"
)

// loadingRetrySeconds is how soon a loading page asks the browser to retry.
const loadingRetrySeconds = 1

// Guards turns access decisions into HTTP responses.
type Guards struct {
	Renderer *TemplateRenderer
	Logger   *slog.Logger
	Metrics  metrics.Sink // optional
}

// Protected serves next only to authenticated visitors satisfying every rule.
func (g *Guards) Protected(cfg access.ProtectedConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := access.Protected(GetSessionState(r.Context()), cfg, r.URL.RequestURI())
			g.Respond(w, r, res, next)
		})
	}
}

// Admin serves next only to admins, optionally holding permission.
func (g *Guards) Admin(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := access.Admin(GetSessionState(r.Context()), permission, "", r.URL.RequestURI())
			g.Respond(w, r, res, next)
		})
	}
}

// Public serves next only to visitors who are not signed in.
func (g *Guards) Public(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := access.Public(GetSessionState(r.Context()), redirectTo, r.URL.Query())
			g.Respond(w, r, res, next)
		})
	}
}

// Respond writes the response for a guard result. RenderChildren serves next.
func (g *Guards) Respond(w http.ResponseWriter, r *http.Request, res access.Result, next http.Handler) {
	if res.Outcome != access.RenderChildren {
		w.Header().Set("Cache-Control", "no-store")
		metrics.Count(g.Metrics, metrics.GuardOutcome, metrics.Tags{
			"outcome": res.Outcome.String(),
			"reason":  string(res.Decision.Reason),
		})
	}
	switch res.Outcome {
	case access.RenderChildren:
		next.ServeHTTP(w, r)
	case access.ShowLoading:
		g.loading(w, r)
	case access.Redirect:
		if IsAPIRequest(r) && res.Decision.Reason == access.ReasonUnauthenticated {
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: string(access.ReasonUnauthenticated)})
			return
		}
		http.Redirect(w, r, res.Location, http.StatusSeeOther)
	case access.ShowDenied:
		g.denied(w, r, res.Decision)
	default:
		g.logger().ErrorContext(r.Context(), "unhandled guard outcome", slog.String("outcome", res.Outcome.String()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (g *Guards) loading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", strconv.Itoa(loadingRetrySeconds))
	if IsAPIRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "session_loading"})
		return
	}
	data := newPageData(r, "Chargement", contentLoading)
	data.RefreshSeconds = loadingRetrySeconds
	g.render(w, http.StatusServiceUnavailable, data)
}

func (g *Guards) denied(w http.ResponseWriter, r *http.Request, d access.Decision) {
	g.logger().InfoContext(r.Context(), "access denied",
		slog.String("path", r.URL.Path),
		slog.String("decision", d.String()),
	)
	if IsAPIRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: string(d.Reason)})
		return
	}
	data := newPageData(r, "Accès refusé", contentDenied)
	data.Reason = string(d.Reason)
	g.render(w, http.StatusForbidden, data)
}

func (g *Guards) render(w http.ResponseWriter, status int, data PageData) {
	renderPage(g.Renderer, w, status, data)
}

func (g *Guards) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
