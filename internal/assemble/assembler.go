// Package assemble turns converted page fragments into complete HTML documents.
//
// For every discovered page the assembler joins its conversion, strips converter
// noise, rewrites in-site links, and renders the page template with the page's
// navigation. It also synthesizes the 404 fallback that redirects extension-less
// request paths to canonical page paths.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/sitegen/internal/artifact"
	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Options controls document rendering.
type Options struct {
	Lang         string
	SiteTitle    string
	Stylesheets  []string
	Scripts      []string
	Revision     string // emitted as <meta name="source-revision"> when set
	NoiseMarker  byte
	TemplateFile string // replaces the embedded page template when set
}

// Assembler renders pages for one catalog.
type Assembler struct {
	catalog  *catalog.Catalog
	opts     Options
	linker   *linker
	page     *template.Template
	notFound *template.Template
	logger   *slog.Logger
}

// New creates an assembler. Templates are parsed up front.
func New(cat *catalog.Catalog, opts Options) (*Assembler, error) {
	page, notFound, err := loadTemplates(opts.TemplateFile)
	if err != nil {
		return nil, err
	}
	if opts.NoiseMarker == 0 {
		opts.NoiseMarker = '>'
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	return &Assembler{
		catalog:  cat,
		opts:     opts,
		linker:   newLinker(cat),
		page:     page,
		notFound: notFound,
		logger:   slog.Default(),
	}, nil
}

// WithLogger sets a custom logger.
func (a *Assembler) WithLogger(l *slog.Logger) *Assembler {
	if l != nil {
		a.logger = l
	}
	return a
}

// Assemble joins every page's conversion in source path order and renders it.
// The first conversion or rendering failure aborts. When two sources share a
// stem, the one later in source path order replaces the earlier artifact.
func (a *Assembler) Assemble(ctx context.Context, pages []discovery.Page) ([]artifact.Page, error) {
	ordered := make([]discovery.Page, len(pages))
	copy(ordered, pages)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].SourcePath < ordered[j].SourcePath })

	out := make([]artifact.Page, 0, len(ordered))
	byOutput := make(map[string]int, len(ordered))
	for _, p := range ordered {
		if p.Job == nil {
			return nil, errors.InternalError(fmt.Sprintf("page %s has no conversion", p.SourcePath)).WithPath(p.SourcePath).Build()
		}
		converted, err := p.Job.Wait(ctx)
		if err != nil {
			return nil, err
		}

		doc, err := a.Render(p.Descriptor, converted)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConversion, "render page "+p.Descriptor.Key).
				Fatal().WithPath(p.SourcePath).Build()
		}

		art := artifact.Page{Path: p.Descriptor.OutputName(), Key: p.Descriptor.Key, Source: p.SourcePath, HTML: doc}
		if i, dup := byOutput[art.Path]; dup {
			a.logger.Warn("Replacing page from colliding source", logfields.Link(art.Path),
				slog.String("replaced", out[i].Source), logfields.Path(art.Source))
			out[i] = art
			continue
		}
		byOutput[art.Path] = len(out)
		out = append(out, art)
		a.logger.Debug("Assembled page", logfields.Page(art.Key), logfields.Link(art.Path), logfields.Bytes(len(doc)))
	}
	return out, nil
}

// Render wraps one converted fragment in the page document for d.
func (a *Assembler) Render(d catalog.Descriptor, converted []byte) ([]byte, error) {
	content := StripNoise(converted, a.opts.NoiseMarker)
	content, err := a.linker.rewrite(content)
	if err != nil {
		return nil, fmt.Errorf("rewrite links: %w", err)
	}

	data := pageData{
		Lang:        a.opts.Lang,
		Title:       d.Title,
		SiteTitle:   a.opts.SiteTitle,
		Revision:    a.opts.Revision,
		Stylesheets: a.opts.Stylesheets,
		Scripts:     a.opts.Scripts,
		Nav:         navLinks(a.catalog, d),
		Content:     template.HTML(content), //nolint:gosec // converter output is trusted HTML
	}
	var buf bytes.Buffer
	if err := a.page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// NotFound renders the 404 fallback with one redirect check per catalog entry.
func (a *Assembler) NotFound() (artifact.Page, error) {
	script, err := redirectScript(a.catalog.Entries())
	if err != nil {
		return artifact.Page{}, errors.WrapError(err, errors.CategoryInternal, "build 404 redirect script").Fatal().Build()
	}
	data := notFoundData{
		Lang:        a.opts.Lang,
		SiteTitle:   a.opts.SiteTitle,
		Revision:    a.opts.Revision,
		Stylesheets: a.opts.Stylesheets,
		Nav:         navLinks(a.catalog, catalog.Descriptor{Nav: catalog.NavPage}),
		Redirects:   template.JS(script), //nolint:gosec // built from JSON-encoded catalog paths
	}
	var buf bytes.Buffer
	if err := a.notFound.Execute(&buf, data); err != nil {
		return artifact.Page{}, errors.WrapError(err, errors.CategoryInternal, "execute 404 template").Fatal().Build()
	}
	return artifact.Page{Path: artifact.NotFoundName, HTML: buf.Bytes()}, nil
}
