package data

import (
	"context"
	"testing"

	"github.com/lovenote/lovenote-web/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(ts []model.Template) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Slug
	}
	return out
}

func TestStaticCatalog_ListTemplates(t *testing.T) {
	cat := NewStaticCatalog()
	ctx := context.Background()

	tests := []struct {
		name   string
		filter model.TemplateFilter
		want   []string
	}{
		{name: "everything", filter: model.TemplateFilter{}, want: []string{"elegance-classique", "jardin-boheme", "minimaliste", "foret-enchantee"}},
		{name: "all selector", filter: model.TemplateFilter{CategorySlug: "all"}, want: []string{"elegance-classique", "jardin-boheme", "minimaliste", "foret-enchantee"}},
		{name: "nature", filter: model.TemplateFilter{CategorySlug: "nature"}, want: []string{"jardin-boheme", "foret-enchantee"}},
		{name: "search description", filter: model.TemplateFilter{Search: "AQUARELLE"}, want: []string{"jardin-boheme"}},
		{name: "premium only", filter: model.TemplateFilter{PremiumOnly: true}, want: []string{"foret-enchantee"}},
		{name: "limit", filter: model.TemplateFilter{Limit: 2}, want: []string{"elegance-classique", "jardin-boheme"}},
		{name: "no match", filter: model.TemplateFilter{CategorySlug: "vintage"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cat.ListTemplates(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugs(got))
		})
	}
}

func TestStaticCatalog_GetTemplate(t *testing.T) {
	cat := NewStaticCatalog()

	tpl, err := cat.GetTemplate(context.Background(), "00000000-0000-4000-8000-000000000002")
	require.NoError(t, err)
	assert.Equal(t, "Jardin Bohème", tpl.Name)
	assert.Equal(t, "nature", tpl.CategorySlug)

	_, err = cat.GetTemplate(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestStaticCatalog_Categories(t *testing.T) {
	cat := NewStaticCatalog()

	cats, err := cat.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)
	for i, c := range cats {
		assert.Equal(t, i+1, c.DisplayOrder)
		assert.True(t, c.IsActive)
	}

	cats[0].Name = "mutated"
	again, _ := cat.ListCategories(context.Background())
	assert.Equal(t, "Classique", again[0].Name)

	imgs, err := cat.ListTemplateImages(context.Background(), "00000000-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Empty(t, imgs)
	require.NoError(t, cat.Ping(context.Background()))
}
