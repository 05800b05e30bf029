package assemble

import (
	"embed"
	"html/template"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

type pageData struct {
	Lang        string
	Title       string
	SiteTitle   string
	Revision    string
	Stylesheets []string
	Scripts     []string
	Nav         []navLink
	Content     template.HTML
}

type notFoundData struct {
	Lang        string
	SiteTitle   string
	Revision    string
	Stylesheets []string
	Nav         []navLink
	Redirects   template.JS
}

func loadTemplates(pageFile string) (page, notFound *template.Template, err error) {
	notFound, err = template.ParseFS(templateFS, "templates/notfound.html.tmpl")
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryInternal, "parse embedded 404 template").Fatal().Build()
	}

	if pageFile == "" {
		page, err = template.ParseFS(templateFS, "templates/page.html.tmpl")
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryInternal, "parse embedded page template").Fatal().Build()
		}
		return page, notFound, nil
	}

	page, err = template.New(filepath.Base(pageFile)).ParseFiles(pageFile)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryConfig, "parse page template").
			Fatal().WithPath(pageFile).Build()
	}
	return page, notFound, nil
}
