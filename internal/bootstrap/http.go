package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	lovenote "github.com/lovenote/lovenote-web"
	"github.com/lovenote/lovenote-web/config"
	httpx "github.com/lovenote/lovenote-web/internal/http"
)

const (
	templatesDir = "web/templates"
	staticDir    = "web/static"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	log := logger(cfg.Logger)
	appCfg := cfg.Config

	templates, static, err := assetFS(appCfg.IsDev)
	if err != nil {
		return nil, err
	}
	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: templates,
		DevMode:    appCfg.IsDev,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	services := httpx.RouterServices{
		Renderer:         renderer,
		StaticFS:         static,
		HealthChecks:     cfg.Services.HealthChecks,
		GateSecret:       appCfg.Gate.Secret,
		GateFallbackPath: appCfg.Gate.FallbackPath,
		CookieDomain:     appCfg.HTTP.CookieDomain,
		RecommendedLimit: appCfg.Catalog.RecommendedLimit,
		IsDev:            appCfg.IsDev,
		Logger:           log,
		Metrics:          cfg.Services.Metrics,
	}
	// Leave interface fields nil rather than wrapping nil pointers.
	if cfg.Services.Auth != nil {
		services.Auth = cfg.Services.Auth
	}
	if cfg.Services.Catalog != nil {
		services.Catalog = cfg.Services.Catalog
	}
	if cfg.Services.Registry != nil {
		services.Connection = cfg.Services.Registry
	}
	if cfg.Services.Flags != nil {
		services.Flags = cfg.Services.Flags
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   log,
		Services: services,
		HTTP:     appCfg.HTTP,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: appCfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       appCfg.HTTP.ReadTimeout,
		WriteTimeout:      appCfg.HTTP.WriteTimeout,
		IdleTimeout:       appCfg.HTTP.IdleTimeout,
	}, nil
}

// assetFS reads templates and static files from disk in dev mode so edits
// show up without a rebuild.
//
//nolint:ireturn // fs.FS is the natural return type for either source.
func assetFS(isDev bool) (fs.FS, fs.FS, error) {
	if isDev {
		return os.DirFS(templatesDir), os.DirFS(staticDir), nil
	}
	templates, err := fs.Sub(lovenote.TemplateFS, templatesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("embedded templates: %w", err)
	}
	static, err := fs.Sub(lovenote.StaticFS, staticDir)
	if err != nil {
		return nil, nil, fmt.Errorf("embedded static files: %w", err)
	}
	return templates, static, nil
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	// Order: Recover -> Logging -> RequestMetrics -> Compression -> Router
	h := httpx.NewRouter(cfg.Services)
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger})(h)
	}
	h = httpx.RequestMetrics(cfg.Services.Metrics)(h)
	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)
	return h
}

// ServeHTTP runs server until ctx is cancelled, then gives in-flight
// requests up to grace to finish.
func ServeHTTP(ctx context.Context, server *http.Server, grace time.Duration, log *slog.Logger) error {
	log = logger(log)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	log.Info("HTTP server stopped")
	return nil
}
