package assemble

import (
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
)

// SelfLinkClass marks anchors rewritten to a catalog page.
const SelfLinkClass = "self-link"

// linker rewrites in-site anchors to canonical page paths.
type linker struct {
	byPath   map[string]catalog.Descriptor
	bySource map[string]catalog.Descriptor
}

func newLinker(cat *catalog.Catalog) *linker {
	l := &linker{
		byPath:   make(map[string]catalog.Descriptor),
		bySource: make(map[string]catalog.Descriptor),
	}
	for _, d := range cat.Entries() {
		for _, p := range d.PrettyPaths() {
			l.byPath[p] = d
		}
		l.byPath[d.Path] = d
		l.bySource[d.Key+".md"] = d
	}
	return l
}

// resolve returns the canonical href for a link to a catalog page.
func (l *linker) resolve(href string) (string, bool) {
	if href == "" || strings.Contains(href, "://") || strings.HasPrefix(href, "//") || strings.HasPrefix(href, "#") {
		return "", false
	}
	base, suffix := href, ""
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		base, suffix = href[:i], href[i:]
	}
	if d, ok := l.byPath[base]; ok {
		return d.Path + suffix, true
	}
	if d, ok := l.bySource[path.Base(base)]; ok {
		return d.Path + suffix, true
	}
	return "", false
}

// rewrite copies content through, replacing only matching <a> tags.
func (l *linker) rewrite(content []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(content))
	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				// An unfinished tag at the end is left in Raw, not emitted as a token.
				out.Write(z.Raw())
				return out.Bytes(), nil
			}
			return nil, z.Err()
		}
		raw := append([]byte(nil), z.Raw()...)
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "a" || !hasAttr {
			out.Write(raw)
			continue
		}

		var attrs []html.Attribute
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
		}
		attrs, ok := l.rewriteAttrs(attrs)
		if !ok {
			out.Write(raw)
			continue
		}
		writeTag(&out, "a", attrs, tt == html.SelfClosingTagToken)
	}
}

func (l *linker) rewriteAttrs(attrs []html.Attribute) ([]html.Attribute, bool) {
	hrefAt := -1
	for i, a := range attrs {
		if a.Key == "href" {
			hrefAt = i
			break
		}
	}
	if hrefAt < 0 {
		return attrs, false
	}
	target, ok := l.resolve(attrs[hrefAt].Val)
	if !ok {
		return attrs, false
	}
	attrs[hrefAt].Val = target

	for i, a := range attrs {
		if a.Key == "class" {
			if !hasClass(a.Val, SelfLinkClass) {
				attrs[i].Val = strings.TrimSpace(a.Val + " " + SelfLinkClass)
			}
			return attrs, true
		}
	}
	return append(attrs, html.Attribute{Key: "class", Val: SelfLinkClass}), true
}

func hasClass(list, class string) bool {
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}

func writeTag(w *bytes.Buffer, name string, attrs []html.Attribute, selfClosing bool) {
	w.WriteByte('<')
	w.WriteString(name)
	for _, a := range attrs {
		w.WriteByte(' ')
		w.WriteString(a.Key)
		w.WriteString(`="`)
		w.WriteString(html.EscapeString(a.Val))
		w.WriteByte('"')
	}
	if selfClosing {
		w.WriteString("/")
	}
	w.WriteByte('>')
}
