// Package views is the default set of page components for a foodies site.
// Pages are html/template files embedded in the binary and exposed as templ
// components so they plug straight into foodies.ViewFuncs.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/foodies"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"instructions": instructionsHTML,
}

// pages maps a page name to its template set (layout + partials + page).
var pages = func() map[string]*template.Template {
	m := make(map[string]*template.Template)
	for _, name := range []string{"home", "meals", "meal", "share", "notfound", "error"} {
		m[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		))
	}
	return m
}()

// page is the data every full page template receives.
type page struct {
	Site  foodies.SiteConfig
	Title string
	Meals []foodies.Meal
	Meal  foodies.Meal
	Flash string
	Form  foodies.ShareFormState
	CSRF  string
}

// New returns the default ViewFuncs for cfg.
func New(cfg foodies.SiteConfig) foodies.ViewFuncs {
	return foodies.ViewFuncs{
		Home: func(meals []foodies.Meal) templ.Component {
			return render("home", "layout", page{Site: cfg, Meals: meals})
		},
		Meals: func(meals []foodies.Meal, flash string) templ.Component {
			return render("meals", "layout", page{Site: cfg, Title: "All Meals", Meals: meals, Flash: flash})
		},
		Meal: func(meal foodies.Meal) templ.Component {
			return render("meal", "layout", page{Site: cfg, Title: meal.Title, Meal: meal})
		},
		ShareForm: func(state foodies.ShareFormState, csrfToken string) templ.Component {
			return render("share", "layout", page{Site: cfg, Title: "Share a Meal", Form: state, CSRF: csrfToken})
		},
		NotFound: func() templ.Component {
			return render("notfound", "layout", page{Site: cfg, Title: "Not Found"})
		},
		ServerError: func() templ.Component {
			return render("error", "layout", page{Site: cfg, Title: "Error"})
		},
	}
}

func render(set, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[set].ExecuteTemplate(w, name, data)
	})
}

// instructionsHTML turns stored instructions into markup with line breaks.
// Instructions are sanitized before they are persisted, so the text is
// trusted here.
func instructionsHTML(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(s, "\n", "<br>\n"))
}
