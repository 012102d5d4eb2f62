// Package web renders the HTML pages of the site and handles its forms.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

// Templates holds one parsed template set per page, each combined with the base layout.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"mediaURL": func(rel string) string {
		if rel == "" {
			return ""
		}
		return "/media/" + strings.TrimPrefix(rel, "/")
	},
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"truncate": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "…"
	},
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
}

// NewTemplates parses every page template together with base.html and the partials.
func NewTemplates() (*Templates, error) {
	pageFiles, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := path.Base(file)
		if name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templatesFS,
			"templates/base.html", "templates/partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Templates{pages: pages}, nil
}

// Render renders a named page with the provided data to the response writer.
// Output is buffered so a failing template never produces half a page.
func (t *Templates) Render(w http.ResponseWriter, name string, data interface{}) error {
	return t.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code
func (t *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// ProjectStaticFileServer serves files below dir at /static/.
func ProjectStaticFileServer(staticDir string) http.Handler {
	absPath, err := filepath.Abs(staticDir)
	if err != nil {
		panic(fmt.Sprintf("failed to get absolute path for static directory: %v", err))
	}
	return http.StripPrefix("/static/", http.FileServer(http.Dir(absPath)))
}

// MediaFileServer serves uploaded images below root at /media/.
func MediaFileServer(root string) http.Handler {
	return http.StripPrefix("/media/", http.FileServer(http.Dir(root)))
}
