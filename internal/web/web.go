package web

import (
	"embed"
	"html/template"
	"slices"
)

// Embed the 'templates' directory.
// The path is relative to this file (internal/web/web.go).
//
//go:embed templates
var Assets embed.FS

var funcMap = template.FuncMap{
	"has": func(list []string, s string) bool { return slices.Contains(list, s) },
}

// Pages holds one parsed template set per page, each sharing base.html.
type Pages struct {
	Home    *template.Template
	Results *template.Template
}

// ParsePages builds the page templates. Each page is parsed into its own
// clone of the base so their "content" blocks do not collide.
func ParsePages() (*Pages, error) {
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(Assets, "templates/base.html")
	if err != nil {
		return nil, err
	}

	page := func(name string) (*template.Template, error) {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		return t.ParseFS(Assets, "templates/"+name)
	}

	home, err := page("home.html")
	if err != nil {
		return nil, err
	}
	results, err := page("results.html")
	if err != nil {
		return nil, err
	}
	return &Pages{Home: home, Results: results}, nil
}
