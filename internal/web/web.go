// Package web holds the HTML templates rendered by the api handlers.
package web

import (
	"embed"         // Embedded template files
	"html/template" // Page templates
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
