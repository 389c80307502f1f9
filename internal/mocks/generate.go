// Package mocks provides gomock implementations of the lovenote ports for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	src := mocks.NewMockTemplateSource(ctrl)
//	src.EXPECT().Ping(gomock.Any()).Return(nil)
package mocks

// Generate mock for TemplateSource interface from internal/ports package.
// Ping, ListTemplates, GetTemplate, ListTemplateImages, ListCategories
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=template_source_mock.go github.com/lovenote/lovenote-web/internal/ports TemplateSource

// Generate mock for CacheRepository interface from internal/core package.
// Get, Set, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/lovenote/lovenote-web/internal/core CacheRepository
