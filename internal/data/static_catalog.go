package data

import (
	"context"
	"time"

	"github.com/lovenote/lovenote-web/internal/domain/model"
)

// StaticCatalog is the built-in catalog served when the live source is unreachable.
// It never touches the network.
type StaticCatalog struct {
	templates  []model.Template
	categories []model.Category
}

var staticEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewStaticCatalog returns the built-in catalog of four templates in three categories.
func NewStaticCatalog() *StaticCatalog {
	cats := []model.Category{
		{ID: "00000000-0000-4000-8000-0000000000c1", Name: "Classique", Slug: "classique", Icon: "crown", Description: "Élégance intemporelle", DisplayOrder: 1},
		{ID: "00000000-0000-4000-8000-0000000000c2", Name: "Nature", Slug: "nature", Icon: "leaf", Description: "Inspirations florales et champêtres", DisplayOrder: 2},
		{ID: "00000000-0000-4000-8000-0000000000c3", Name: "Moderne", Slug: "moderne", Icon: "sparkles", Description: "Lignes épurées", DisplayOrder: 3},
	}
	for i := range cats {
		cats[i].IsActive = true
		cats[i].CreatedAt, cats[i].UpdatedAt = staticEpoch, staticEpoch
	}

	tpls := []model.Template{
		{
			ID: "00000000-0000-4000-8000-000000000001", Name: "Élégance Classique", Slug: "elegance-classique",
			Description:  "Typographie raffinée et ornements dorés",
			ColorPalette: model.ColorPalette{Primary: "#1f2937", Secondary: "#f9fafb", Accent: "#d4af37"},
		},
		{
			ID: "00000000-0000-4000-8000-000000000002", Name: "Jardin Bohème", Slug: "jardin-boheme",
			Description:  "Feuillages aquarelle pour un mariage en plein air",
			ColorPalette: model.ColorPalette{Primary: "#365314", Secondary: "#fefce8", Accent: "#a3e635"},
		},
		{
			ID: "00000000-0000-4000-8000-000000000003", Name: "Minimaliste", Slug: "minimaliste",
			Description:  "Mise en page sobre et contrastée",
			ColorPalette: model.ColorPalette{Primary: "#111827", Secondary: "#ffffff", Accent: "#6b7280"},
		},
		{
			ID: "00000000-0000-4000-8000-000000000004", Name: "Forêt Enchantée", Slug: "foret-enchantee",
			Description:  "Motifs botaniques animés et palette sous-bois",
			ColorPalette: model.ColorPalette{Primary: "#14532d", Secondary: "#f0fdf4", Accent: "#ca8a04"},
			IsPremium:    true,
		},
	}
	catBySlug := map[string]model.Category{}
	for _, c := range cats {
		catBySlug[c.Slug] = c
	}
	for i, slug := range []string{"classique", "nature", "moderne", "nature"} {
		c := catBySlug[slug]
		tpls[i].CategoryID, tpls[i].CategoryName, tpls[i].CategorySlug = c.ID, c.Name, c.Slug
		tpls[i].IsActive = true
		tpls[i].PreviewImageURL = "/static/templates/" + tpls[i].Slug + ".webp"
		tpls[i].CreatedAt, tpls[i].UpdatedAt = staticEpoch, staticEpoch
	}

	return &StaticCatalog{templates: tpls, categories: cats}
}

// Ping always succeeds.
func (s *StaticCatalog) Ping(context.Context) error { return nil }

// ListTemplates filters the built-in templates in memory.
func (s *StaticCatalog) ListTemplates(_ context.Context, filter model.TemplateFilter) ([]model.Template, error) {
	out := make([]model.Template, 0, len(s.templates))
	for _, t := range s.templates {
		if !filter.Matches(t) {
			continue
		}
		out = append(out, t)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// GetTemplate looks a built-in template up by id.
func (s *StaticCatalog) GetTemplate(_ context.Context, id string) (model.Template, error) {
	for _, t := range s.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Template{}, ErrTemplateNotFound
}

// ListTemplateImages returns no images; built-in templates have only a preview.
func (s *StaticCatalog) ListTemplateImages(context.Context, string) ([]model.TemplateImage, error) {
	return []model.TemplateImage{}, nil
}

// ListCategories returns the built-in categories by display order.
func (s *StaticCatalog) ListCategories(context.Context) ([]model.Category, error) {
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// Templates returns a copy of every built-in template, for seeding.
func (s *StaticCatalog) Templates() []model.Template {
	out := make([]model.Template, len(s.templates))
	copy(out, s.templates)
	return out
}
