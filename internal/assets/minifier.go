// Package assets prepares the static asset directory for publication and runs
// the final minification pass over generated HTML.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"

	"git.home.luguber.info/inful/sitegen/internal/artifact"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

const mimeHTML = "text/html"

// mediaTypes maps minifiable extensions to the media type their minifier is registered for.
var mediaTypes = map[string]string{
	".css":  "text/css",
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".html": mimeHTML,
	".htm":  mimeHTML,
	".svg":  "image/svg+xml",
	".json": "application/json",
	".xml":  "text/xml",
}

// MinifiableExtensions lists the extensions a Minifier can minify, sorted.
func MinifiableExtensions() []string {
	exts := make([]string, 0, len(mediaTypes))
	for ext := range mediaTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// NormalizeExtension lowercases ext and checks it has the form ".name".
func NormalizeExtension(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext[1:], "./\\") {
		return "", errors.ValidationError(fmt.Sprintf("asset extension %q must look like \".css\"", ext)).Build()
	}
	return ext, nil
}

// Minifier classifies assets by extension against an explicit allow-list.
type Minifier struct {
	m      *minify.M
	minify map[string]string
	copy   map[string]bool
	logger *slog.Logger
}

// New creates a minifier. minifyExts are minified, copyExts are copied byte for byte;
// any other extension is rejected when the directory is processed.
func New(minifyExts, copyExts []string) (*Minifier, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	m.Add(mimeHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})

	mn := &Minifier{m: m, minify: map[string]string{}, copy: map[string]bool{}, logger: slog.Default()}
	for _, ext := range minifyExts {
		ext, err := NormalizeExtension(ext)
		if err != nil {
			return nil, err
		}
		mt, ok := mediaTypes[ext]
		if !ok {
			return nil, errors.ValidationError(fmt.Sprintf("no minifier for asset extension %q", ext)).Build()
		}
		mn.minify[ext] = mt
	}
	for _, ext := range copyExts {
		ext, err := NormalizeExtension(ext)
		if err != nil {
			return nil, err
		}
		if _, dup := mn.minify[ext]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("asset extension %q is listed as both minified and copied", ext)).Build()
		}
		mn.copy[ext] = true
	}
	return mn, nil
}

// WithLogger sets a custom logger.
func (mn *Minifier) WithLogger(l *slog.Logger) *Minifier {
	if l != nil {
		mn.logger = l
	}
	return mn
}

// MinifyDir processes every entry of the flat directory dir. A subdirectory, any other
// non-regular entry or an extension outside the allow-list fails the whole directory.
func (mn *Minifier) MinifyDir(ctx context.Context, dir string) ([]artifact.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryAsset, "cannot read asset directory").
			Fatal().WithPath(dir).Build()
	}

	out := make([]artifact.Asset, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := filepath.Join(dir, entry.Name())
		if !entry.Type().IsRegular() {
			return nil, errors.AssetError(fmt.Sprintf("asset entry %s is not a regular file; nested asset directories are not supported", entry.Name())).
				WithPath(p).Build()
		}

		asset, err := mn.process(p, entry.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	mn.logger.Info("Assets prepared", logfields.Path(dir), logfields.Count(len(out)))
	return out, nil
}

func (mn *Minifier) process(p, name string) (artifact.Asset, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mt, minifiable := mn.minify[ext]
	if !minifiable && !mn.copy[ext] {
		return artifact.Asset{}, errors.AssetError(fmt.Sprintf("asset %s has unsupported extension %q", name, ext)).
			WithPath(p).WithContext("extension", ext).Build()
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return artifact.Asset{}, errors.WrapError(err, errors.CategoryAsset, "cannot read asset "+name).
			Fatal().WithPath(p).Build()
	}
	if !minifiable {
		mn.logger.Debug("Copying asset", logfields.Path(p), logfields.Bytes(len(data)))
		return artifact.Asset{Path: name, Source: p, Data: data}, nil
	}

	minified, err := mn.m.Bytes(mt, data)
	if err != nil {
		return artifact.Asset{}, errors.WrapError(err, errors.CategoryAsset, "cannot minify asset "+name).
			Fatal().WithPath(p).Build()
	}
	mn.logger.Debug("Minified asset", logfields.Path(p), slog.Int("from", len(data)), logfields.Bytes(len(minified)))
	return artifact.Asset{Path: name, Source: p, Data: minified, Minified: true}, nil
}

// MinifyHTML minifies every page document and returns new artifacts; inputs are not modified.
func (mn *Minifier) MinifyHTML(pages []artifact.Page) ([]artifact.Page, error) {
	out := make([]artifact.Page, len(pages))
	for i, p := range pages {
		minified, err := mn.m.Bytes(mimeHTML, p.HTML)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryAsset, "cannot minify page "+p.Path).
				Fatal().WithPath(p.Path).Build()
		}
		p.HTML = minified
		out[i] = p
	}
	return out, nil
}
