package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/lovenote/lovenote-web/internal/domain/access"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/observability/metrics"
	"github.com/lovenote/lovenote-web/internal/ports"
)

// Permissions checked by the route table.
const (
	PermGuestsRead        = "guests.read"
	PermInvitationsCreate = "invitations.create"
	PermAdminDashboard    = "admin.dashboard.read"
	PermAdminUsers        = "admin.users.read"
	PermAdminTemplates    = "admin.templates.read"
	PermAdminAnalytics    = "admin.analytics.read"
	PermAdminSettings     = "admin.settings.read"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Catalog    CatalogServiceInterface
	Connection BannerRegistry
	Flags      ports.FlagStore // tab-scoped flags for the key gate
	Renderer   *TemplateRenderer
	StaticFS   fs.FS // contents served under /static/

	HealthChecks  []HealthCheck
	HealthTimeout time.Duration

	GateSecret       string
	GateFallbackPath string

	CookieDomain     string
	RecommendedLimit int

	IsDev   bool
	Logger  *slog.Logger
	Metrics metrics.Sink // optional
}

// NewRouter creates the application handler. Session and tab resolution run
// inside the router; transport middleware is applied by the caller.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookies := Cookies{Domain: services.CookieDomain}
	mux := http.NewServeMux()

	pages := &PageHandlers{Renderer: services.Renderer}
	guards := &Guards{Renderer: services.Renderer, Logger: logger, Metrics: services.Metrics}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /api/health-check", &HealthHandler{
		Checks:  services.HealthChecks,
		Timeout: services.HealthTimeout,
		Logger:  logger,
	})
	if services.StaticFS != nil {
		mux.Handle("GET /static/", staticHandler(services.StaticFS, services.IsDev))
	}

	registerPublicPages(mux, pages)
	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, Cookies: cookies, Logger: logger}, pages, guards)
	}
	registerProtectedPages(mux, pages, guards)
	registerAdminPages(mux, pages, guards)

	gate := &KeyGateHandler{
		Secret:       services.GateSecret,
		FallbackPath: services.GateFallbackPath,
		Flags:        services.Flags,
		Guards:       guards,
		Page:         pages.Page("Mon espace"),
		Logger:       logger,
	}
	mux.Handle("GET /me", gate)
	mux.Handle("POST /me", gate)

	if services.Catalog != nil {
		registerCatalogRoutes(mux, &CatalogHandlers{
			Svc:              services.Catalog,
			RecommendedLimit: services.RecommendedLimit,
			Logger:           logger,
		})
	}
	if services.Connection != nil {
		registerConnectionRoutes(mux, &ConnectionHandlers{Registry: services.Connection})
	}
	registerConsentRoutes(mux, &ConsentHandlers{Cookies: cookies, Logger: logger})

	mux.HandleFunc("/", pages.NotFound)

	var handler http.Handler = mux
	if services.Auth != nil {
		handler = ResolveSession(services.Auth)(handler)
	}
	return TabID(cookies)(handler)
}

func registerPublicPages(mux *http.ServeMux, p *PageHandlers) {
	mux.Handle("GET /{$}", p.Page("Accueil"))
	for path, title := range map[string]string{
		"/templates":                 "Modèles",
		"/pricing":                   "Tarifs",
		"/testimonials":              "Témoignages",
		"/contact":                   "Contact",
		"/privacy":                   "Politique de confidentialité",
		"/terms":                     "Conditions d'utilisation",
		"/cookies":                   "Politique des cookies",
		"/invitation/{invitationId}": "Invitation",
		"/i/{id}":                    "Invitation",
	} {
		mux.Handle("GET "+path, p.Page(title))
	}
	mux.Handle("GET /error", p.ErrorPage("Une erreur est survenue", ""))
	mux.Handle("GET /error/connection", p.ErrorPage("Problème de connexion", "Impossible de joindre le serveur"))
	mux.Handle("GET /500", p.ErrorPage("Erreur serveur", "Le serveur a rencontré une erreur."))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, p *PageHandlers, g *Guards) {
	public := g.Public(access.DefaultPublicRedirect)

	mux.Handle("GET /auth/login", public(p.AuthPage("Connexion")))
	mux.Handle("GET /auth/register", public(p.AuthPage("Inscription")))
	mux.Handle("GET /auth/forgot-password", public(p.Page("Mot de passe oublié")))
	mux.Handle("GET /auth/reset-password", public(p.Page("Réinitialiser le mot de passe")))
	mux.Handle("POST /auth/login", public(http.HandlerFunc(h.Begin)))
	mux.Handle("POST /auth/register", public(http.HandlerFunc(h.Begin)))

	mux.Handle("GET /auth/confirm", p.Page("Confirmation"))
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

type protectedPage struct {
	path  string
	title string
	rules []access.Rule
}

func registerProtectedPages(mux *http.ServeMux, p *PageHandlers, g *Guards) {
	for _, pg := range []protectedPage{
		{"/success", "Paiement confirmé", nil},
		{"/dashboard", "Tableau de bord", nil},
		{"/dashboard/invitations", "Mes invitations", nil},
		{"/dashboard/guests", "Invités", access.Rules(PermGuestsRead, "")},
		{"/dashboard/editor/{templateId...}", "Éditeur", access.Rules(PermInvitationsCreate, "")},
		{"/dashboard/settings", "Paramètres", nil},
		{"/dashboard/premium-features", "Fonctionnalités premium", access.Rules("", string(domainauth.RolePremium))},
	} {
		guard := g.Protected(access.ProtectedConfig{Rules: pg.rules})
		mux.Handle("GET "+pg.path, guard(p.Page(pg.title)))
	}
}

func registerAdminPages(mux *http.ServeMux, p *PageHandlers, g *Guards) {
	for path, perm := range map[string]string{
		"/dashboard/admin":           PermAdminDashboard,
		"/dashboard/admin/users":     PermAdminUsers,
		"/dashboard/admin/templates": PermAdminTemplates,
		"/dashboard/admin/analytics": PermAdminAnalytics,
		"/dashboard/admin/settings":  PermAdminSettings,
	} {
		mux.Handle("GET "+path, g.Admin(perm)(p.Page("Administration")))
	}
}

func registerCatalogRoutes(mux *http.ServeMux, h *CatalogHandlers) {
	mux.HandleFunc("GET /api/templates", h.List)
	mux.HandleFunc("GET /api/templates/recommended", h.Recommended)
	mux.HandleFunc("GET /api/templates/{id}", h.Get)
	mux.HandleFunc("GET /api/templates/{id}/images", h.Images)
	mux.HandleFunc("GET /api/categories", h.Categories)
	mux.HandleFunc("GET /api/catalog/status", h.Status)
}

func registerConnectionRoutes(mux *http.ServeMux, h *ConnectionHandlers) {
	mux.HandleFunc("GET /api/connection", h.Get)
	mux.HandleFunc("POST /api/connection/offline", h.Offline)
	mux.HandleFunc("POST /api/connection/online", h.Online)
	mux.HandleFunc("POST /api/connection/dismiss", h.Dismiss)
	mux.HandleFunc("POST /api/connection/retry", h.Retry)
}

func registerConsentRoutes(mux *http.ServeMux, h *ConsentHandlers) {
	mux.HandleFunc("GET /api/consent", h.Get)
	mux.HandleFunc("PUT /api/consent", h.Update)
	mux.HandleFunc("POST /api/consent/accept-all", h.AcceptAll)
	mux.HandleFunc("POST /api/consent/reject-all", h.RejectAll)
	mux.HandleFunc("POST /api/consent/close", h.Close)
}

// staticHandler serves fsys with cache headers; dev builds are never cached.
func staticHandler(fsys fs.FS, isDev bool) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		files.ServeHTTP(w, r)
	})
}
