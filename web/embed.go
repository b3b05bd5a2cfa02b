// Package web holds the embedded HTML templates.
package web

import "embed"

// TemplatesFS embeds the printable report templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
