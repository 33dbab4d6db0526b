package ui

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl static content/*.yaml locales/*.json
var files embed.FS

// FS returns the embedded ui tree: templates, static, content and locales.
func FS() fs.FS {
	return files
}

// StaticFS returns the static assets rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(files, "static")
}
