//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// ColorPalette is the three-colour theme of an invitation template.
type ColorPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Template is an invitation template with its denormalised category and usage statistics.
type Template struct {
	ID              string       `json:"id"                db:"id"`
	Name            string       `json:"name"              db:"name"`
	Slug            string       `json:"slug"              db:"slug"`
	CategoryID      string       `json:"category_id"       db:"category_id"`
	CategoryName    string       `json:"category_name"     db:"category_name"`
	CategorySlug    string       `json:"category_slug"     db:"category_slug"`
	IsPremium       bool         `json:"is_premium"        db:"is_premium"`
	IsActive        bool         `json:"is_active"         db:"is_active"`
	PreviewImageURL string       `json:"preview_image_url" db:"preview_image_url"`
	Description     string       `json:"description"       db:"description"`
	ColorPalette    ColorPalette `json:"color_palette"     db:"color_palette"`
	UsageCount      int          `json:"usage_count"       db:"usage_count"`
	UniqueUsers     int          `json:"unique_users"      db:"unique_users"`
	TotalViews      int          `json:"total_views"       db:"total_views"`
	CreatedAt       time.Time    `json:"created_at"        db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"        db:"updated_at"`
}

// Category groups templates for browsing.
type Category struct {
	ID           string    `json:"id"            db:"id"`
	Name         string    `json:"name"          db:"name"`
	Slug         string    `json:"slug"          db:"slug"`
	Icon         string    `json:"icon"          db:"icon"`
	Description  string    `json:"description"   db:"description"`
	IsActive     bool      `json:"is_active"     db:"is_active"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// TemplateImage is one gallery image of a template.
type TemplateImage struct {
	ID           string `json:"id"            db:"id"`
	TemplateID   string `json:"template_id"   db:"template_id"`
	ImageURL     string `json:"image_url"     db:"image_url"`
	AltText      string `json:"alt_text"      db:"alt_text"`
	DisplayOrder int    `json:"display_order" db:"display_order"`
}

// TemplateFilter narrows a template listing.
// Notes:
// - CategorySlug matches exactly; empty or "all" means every category.
// - Search matches name or description, case-insensitive substring.
// - Limit <= 0 lets the source apply its default.
type TemplateFilter struct {
	CategorySlug string
	Search       string
	PremiumOnly  bool
	Limit        int
}

// AllCategories is the category selector value meaning "no category filter".
const AllCategories = "all"

// HasCategory reports whether the filter restricts the category.
func (f TemplateFilter) HasCategory() bool {
	slug := strings.TrimSpace(f.CategorySlug)
	return slug != "" && slug != AllCategories
}

// Matches applies the filter to t in memory. Inactive templates never match.
func (f TemplateFilter) Matches(t Template) bool {
	if !t.IsActive {
		return false
	}
	if f.HasCategory() && t.CategorySlug != strings.TrimSpace(f.CategorySlug) {
		return false
	}
	if f.PremiumOnly && !t.IsPremium {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// Viewer is who a catalog read is performed for.
type Viewer struct {
	Loading       bool // session not yet resolved
	Authenticated bool
	Premium       bool
}

// CanSee reports whether the viewer may see t. Premium templates require an
// authenticated viewer holding the premium role.
func (v Viewer) CanSee(t Template) bool {
	return !t.IsPremium || (v.Authenticated && v.Premium)
}

// VisibleTo returns the templates of ts the viewer may see, preserving order.
func VisibleTo(v Viewer, ts []Template) []Template {
	out := make([]Template, 0, len(ts))
	for _, t := range ts {
		if v.CanSee(t) {
			out = append(out, t)
		}
	}
	return out
}

// ConnectionStatus reports whether catalog reads hit the live source.
type ConnectionStatus string

const (
	ConnectionChecking  ConnectionStatus = "checking"
	ConnectionConnected ConnectionStatus = "connected"
	ConnectionFailed    ConnectionStatus = "failed"
)

// RecommendedTemplate is a template with its relevance score.
type RecommendedTemplate struct {
	Template
	Score float64 `json:"score"`
}
