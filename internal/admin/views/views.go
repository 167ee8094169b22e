package views

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
)

const (
	LoginTemplate     = "login.html"
	DashboardTemplate = "dashboard.html"

	layoutTemplate = "base.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

type (
	LoginData struct {
		Lang  i18n.Lang
		Error string
	}

	Item struct {
		Idx    int
		Record dal.Record
	}

	CardItem struct {
		Idx  int
		Card dal.Card
	}

	Section struct {
		Name  string
		Title string
		Items []Item
	}

	DashboardData struct {
		Lang      i18n.Lang
		User      dal.User
		IsAdmin   bool
		Languages []i18n.Lang
		Sections  []Section
		Cards     []CardItem
		Users     []dal.User
		Audit     []dal.AuditEntry
	}

	// Renderer implements echo.Renderer. Every page is parsed together with
	// the shared layout.
	Renderer struct {
		pages map[string]*template.Template
	}
)

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"t": func(key string, lang i18n.Lang) string {
			return i18n.T(key, lang)
		},
		"langName": i18n.Name,
		"text": func(r dal.Record, lang i18n.Lang) string {
			return r.Text(string(lang))
		},
		"ts": func(ts int64) string {
			return time.Unix(ts, 0).UTC().Format(time.DateTime)
		},
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}

	pages := make(map[string]*template.Template, 2) //nolint:mnd // login and dashboard
	for _, name := range []string{LoginTemplate, DashboardTemplate} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/"+layoutTemplate, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, layoutTemplate, data)
}

// Static returns the assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets: %v", err))
	}
	return sub
}
