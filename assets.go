// Package carehomeadmin provides embedded assets for production builds.
package carehomeadmin

import "embed"

// In dev mode templates and static files are read from disk; otherwise these are served.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
