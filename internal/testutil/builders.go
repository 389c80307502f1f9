// Package testutil provides testing utilities and helpers for the lovenote web shell.
package testutil

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lovenote/lovenote-web/internal/domain/model"
)

// TemplateBuilder provides a fluent interface for building templates in tests.
type TemplateBuilder struct {
	tpl model.Template
}

// NewTemplate creates an active, free template with a fresh ID and a slug derived from name.
func NewTemplate(name string) *TemplateBuilder {
	return &TemplateBuilder{tpl: model.Template{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		IsActive:  true,
		CreatedAt: TestTime(),
		UpdatedAt: TestTime(),
	}}
}

// InCategory sets the category slug and name.
func (b *TemplateBuilder) InCategory(slug string) *TemplateBuilder {
	b.tpl.CategorySlug = slug
	b.tpl.CategoryName = strings.ToUpper(slug[:1]) + slug[1:]
	return b
}

// WithCategoryID sets the category foreign key.
func (b *TemplateBuilder) WithCategoryID(id string) *TemplateBuilder {
	b.tpl.CategoryID = id
	return b
}

// WithDescription sets the description.
func (b *TemplateBuilder) WithDescription(d string) *TemplateBuilder {
	b.tpl.Description = d
	return b
}

// Premium marks the template as premium.
func (b *TemplateBuilder) Premium() *TemplateBuilder {
	b.tpl.IsPremium = true
	return b
}

// Inactive marks the template as inactive.
func (b *TemplateBuilder) Inactive() *TemplateBuilder {
	b.tpl.IsActive = false
	return b
}

// Build returns the template.
func (b *TemplateBuilder) Build() model.Template {
	return b.tpl
}
