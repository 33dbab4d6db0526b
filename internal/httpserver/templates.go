package httpserver

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/JospenWolongwo/barber-shop-website/internal/format"
	custommw "github.com/JospenWolongwo/barber-shop-website/internal/middleware"
	"github.com/JospenWolongwo/barber-shop-website/internal/nav"
	"github.com/JospenWolongwo/barber-shop-website/internal/observability"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

const templatesDir = "templates"

var funcMap = template.FuncMap{
	"duration": format.Duration,
	"stars":    format.Stars,
	"href":     func(s site.Section) string { return nav.Href(s) },
	"upper":    strings.ToUpper,
}

// Templates holds the parsed page and fragment templates. Reload swaps the
// whole set so in-flight renders keep the version they started with.
type Templates struct {
	fsys fs.FS

	mu  sync.RWMutex
	set *template.Template
}

// NewTemplates parses every .tmpl file under templates/ in fsys.
func NewTemplates(fsys fs.FS) (*Templates, error) {
	t := &Templates{fsys: fsys}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload reparses the templates. On error the previous set stays active.
func (t *Templates) Reload() error {
	set, err := parseTemplates(t.fsys)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	return nil
}

// Lookup returns the named template.
func (t *Templates) Lookup(name string) (*template.Template, error) {
	t.mu.RLock()
	set := t.set
	t.mu.RUnlock()
	if set == nil {
		return nil, fmt.Errorf("templates not initialised")
	}
	tmpl := set.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	var files []string
	if err := fs.WalkDir(fsys, templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFS(fsys, files...)
}

// render executes the named template through templ so status, content type
// and buffering are handled in one place.
func (t *Templates) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, err := t.Lookup(name)
	if err != nil {
		observability.FromContext(r.Context()).Error("lookup template", zap.String("template", name), zap.Error(err))
		custommw.WriteError(w, r, http.StatusInternalServerError, "template error")
		return
	}
	templ.Handler(
		templ.FromGoHTML(tmpl, data),
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				observability.FromContext(r.Context()).Error("render template", zap.String("template", name), zap.Error(err))
				custommw.WriteError(w, r, http.StatusInternalServerError, "template error")
			})
		}),
	).ServeHTTP(w, r)
}
