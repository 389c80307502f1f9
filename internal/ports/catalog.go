package ports

import (
	"context"
	"errors"

	"github.com/lovenote/lovenote-web/internal/domain/model"
)

// ErrTemplateNotFound is returned by a TemplateSource when an id matches no template.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateSource reads the template catalog. The live implementation is
// backed by Postgres; the fallback implementation serves a built-in catalog.
type TemplateSource interface {
	// Ping reports whether the source is reachable.
	Ping(ctx context.Context) error
	// ListTemplates returns active templates matching the filter.
	ListTemplates(ctx context.Context, filter model.TemplateFilter) ([]model.Template, error)
	// GetTemplate returns one template by id, or a not-found error.
	GetTemplate(ctx context.Context, id string) (model.Template, error)
	// ListTemplateImages returns the gallery of a template ordered by display order.
	ListTemplateImages(ctx context.Context, templateID string) ([]model.TemplateImage, error)
	// ListCategories returns active categories ordered by display order.
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Prober checks reachability of the application backend.
type Prober interface {
	Probe(ctx context.Context) error
}

// FlagStore holds small per-tab values that survive a page reload but not the tab.
type FlagStore interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, tabID, name string) (string, bool, error)
	Set(ctx context.Context, tabID, name, value string) error
	Delete(ctx context.Context, tabID, name string) error
}
