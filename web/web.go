// Package web holds the embedded UI assets.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
