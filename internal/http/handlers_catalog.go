package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lovenote/lovenote-web/internal/domain/model"
	"github.com/lovenote/lovenote-web/internal/service"
)

// CatalogServiceInterface defines the catalog operations used by the HTTP layer.
type CatalogServiceInterface interface {
	Status() model.ConnectionStatus
	RefreshTemplates(ctx context.Context, viewer model.Viewer, filter model.TemplateFilter) (service.TemplateList, error)
	GetTemplateDetails(ctx context.Context, id string) (model.Template, error)
	GetTemplateImages(ctx context.Context, id string) []model.TemplateImage
	GetRecommendedTemplates(ctx context.Context, viewer model.Viewer, limit int) ([]model.RecommendedTemplate, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// CatalogHandlers serves the template catalog.
type CatalogHandlers struct {
	Svc              CatalogServiceInterface
	RecommendedLimit int
	Logger           *slog.Logger
}

func (h *CatalogHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// List returns templates visible to the visitor.
// GET /api/templates?category=&search=&premium_only=&limit=.
func (h *CatalogHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.TemplateFilter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
	}
	if v := q.Get("premium_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_premium_only", Err: err})
			return
		}
		filter.PremiumOnly = b
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	filter.Limit = limit

	list, err := h.Svc.RefreshTemplates(r.Context(), ViewerFromContext(r.Context()), filter)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if list.Templates == nil {
		list.Templates = []model.Template{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// Recommended returns scored templates for signed-in visitors.
// GET /api/templates/recommended?limit=.
func (h *CatalogHandlers) Recommended(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	if limit == 0 {
		limit = h.RecommendedLimit
	}
	recs, err := h.Svc.GetRecommendedTemplates(r.Context(), ViewerFromContext(r.Context()), limit)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"templates": recs})
}

// Get returns one template.
// GET /api/templates/{id}.
func (h *CatalogHandlers) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.GetTemplateDetails(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// Images returns a template's gallery.
// GET /api/templates/{id}/images.
func (h *CatalogHandlers) Images(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"images": h.Svc.GetTemplateImages(r.Context(), r.PathValue("id"))})
}

// Categories returns active categories.
// GET /api/categories.
func (h *CatalogHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.ListCategories(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// Status reports the catalog connection status.
// GET /api/catalog/status.
func (h *CatalogHandlers) Status(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]model.ConnectionStatus{"connection_status": h.Svc.Status()})
}

func (h *CatalogHandlers) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		w.Header().Set("Retry-After", "1")
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "catalog_not_ready", Err: err})
	case errors.Is(err, service.ErrTemplateNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "template_not_found", Err: err})
	default:
		h.logger().ErrorContext(r.Context(), "catalog request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		WriteAppError(w, err)
	}
}

// parseLimit reads ?limit=; 0 means unset. On failure a 400 has been written.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_limit"})
		return 0, false
	}
	return n, true
}
