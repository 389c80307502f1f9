// Package lovenote provides embedded assets for production builds.
package lovenote

import "embed"

// In dev mode (IsDev=true) assets are read from disk; otherwise they are
// served from these embedded filesystems.

//go:embed all:web/static
var StaticFS embed.FS

//go:embed web/templates/*.tmpl
var TemplateFS embed.FS
