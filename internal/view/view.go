// Package view renders the HTML pages and serves the embedded static assets.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/city-weather/internal/model"
	"github.com/iliyamo/city-weather/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages rendered through the layout.
var pages = []string{"home", "signup", "login", "dashboard", "search"}

// Page is the data every template receives.
type Page struct {
	Title     string
	User      *model.User
	Flashes   []session.FlashMessage
	Errors    []string // inline form errors
	Form      any      // submitted values to refill the form
	Favorites []model.Favorite
	CSRFToken string
}

// Renderer implements echo.Renderer over one template set per page.
type Renderer struct {
	sets map[string]*template.Template
}

// NewRenderer parses the layout once per page.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{sets: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.sets[name] = t
	}
	return r, nil
}

// Render executes the layout with the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.sets[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Static returns the asset tree mounted under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}
