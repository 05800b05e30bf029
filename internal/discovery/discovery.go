// Package discovery walks the source tree, classifies every file against the page
// catalog and starts its conversion as soon as it is found.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/convert"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Submitter starts the conversion of one source document. *convert.Pool implements it.
type Submitter interface {
	Submit(page, path string) *convert.Job
}

// Page is a classified source document with its in-flight conversion.
type Page struct {
	Descriptor catalog.Descriptor
	SourcePath string
	Job        *convert.Job
}

// Discovery classifies source documents against a catalog.
type Discovery struct {
	catalog   *catalog.Catalog
	submitter Submitter
	logger    *slog.Logger
}

// New creates a discovery bound to a catalog. A nil submitter classifies without converting.
func New(cat *catalog.Catalog, submitter Submitter) *Discovery {
	return &Discovery{catalog: cat, submitter: submitter, logger: slog.Default()}
}

// WithLogger sets a custom logger.
func (d *Discovery) WithLogger(l *slog.Logger) *Discovery {
	if l != nil {
		d.logger = l
	}
	return d
}

// Stem returns the part of a file name before its first '.'.
func Stem(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Discover walks root recursively. Every regular file must match a catalog key and
// every catalog entry must have a source document. Pages are returned in traversal order.
func (d *Discovery) Discover(ctx context.Context, root string) ([]Page, error) {
	var pages []Page
	seen := make(map[string]string, d.catalog.Len())

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryDiscovery, "cannot read source entry").
				Fatal().WithPath(path).Build()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			d.logger.Warn("Skipping non-regular source entry", logfields.Path(path), slog.String("mode", entry.Type().String()))
			return nil
		}

		stem := Stem(entry.Name())
		desc, ok := d.catalog.Lookup(stem)
		if !ok {
			return errors.ClassificationError(fmt.Sprintf("source file %s does not match any catalog entry (stem %q)", path, stem)).
				WithPath(path).
				WithContext("stem", stem).
				Build()
		}

		winner := path
		if prev, dup := seen[stem]; dup {
			winner = max(prev, path)
			d.logger.Warn("Source documents share a stem; they collide in the output namespace",
				logfields.Page(stem), slog.String("first", prev), slog.String("second", path), slog.String("published", winner))
		}
		seen[stem] = winner

		page := Page{Descriptor: desc, SourcePath: path}
		if d.submitter != nil {
			page.Job = d.submitter.Submit(desc.Key, path)
		}
		pages = append(pages, page)
		d.logger.Debug("Discovered page", logfields.Page(desc.Key), logfields.Path(path), logfields.Link(desc.Link))
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, desc := range d.catalog.Entries() {
		if _, ok := seen[desc.Key]; !ok {
			return nil, errors.ClassificationError(fmt.Sprintf("catalog entry %q has no source document under %s", desc.Key, root)).
				WithPath(root).
				WithContext("page", desc.Key).
				Build()
		}
	}

	d.logger.Info("Source tree classified", logfields.Path(root), logfields.Count(len(pages)))
	return pages, nil
}
