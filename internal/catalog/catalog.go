// Package catalog holds the closed set of pages a site build recognizes.
//
// A Catalog is built once from configuration, validated, and then shared read-only
// by discovery (stem lookup), assembly (navigation and link rewriting) and the 404
// fallback generator.
package catalog

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// NavPolicy selects which navigation links a page renders.
type NavPolicy string

const (
	// NavHome marks the landing page; it links to the index page only.
	NavHome NavPolicy = "home"
	// NavIndex marks the table of contents; it links back home only.
	NavIndex NavPolicy = "index"
	// NavPage is every other page; it links to home and index.
	NavPage NavPolicy = "page"
)

// navTargets lists, per policy, the policies of the entries a page links to, in order.
var navTargets = map[NavPolicy][]NavPolicy{
	NavHome:  {NavIndex},
	NavIndex: {NavHome},
	NavPage:  {NavHome, NavIndex},
}

// Valid reports whether p is a known navigation policy.
func (p NavPolicy) Valid() bool {
	_, ok := navTargets[p]
	return ok
}

// Descriptor is one catalog entry.
type Descriptor struct {
	Key   string    // source document stem, case-sensitive
	Link  string    // output link name; the page is published as Link + ".html"
	Path  string    // canonical URL path the page is served from
	Title string    // document title
	Label string    // navigation link text
	Nav   NavPolicy // navigation policy
}

// OutputName is the file name of the page in the deployment directory.
func (d Descriptor) OutputName() string {
	return d.Link + ".html"
}

// PrettyPaths are the extension-less request paths a static host may receive for the page.
func (d Descriptor) PrettyPaths() []string {
	p := "/" + d.Link
	return []string{p, p + "/"}
}

// ReservedLink is the link name of the generated 404 fallback page.
const ReservedLink = "404"

// DefaultPath derives the canonical path for a link name.
func DefaultPath(link string) string {
	if link == "index" {
		return "/"
	}
	return "/" + link + ".html"
}

// Catalog is an immutable, validated set of descriptors.
type Catalog struct {
	entries []Descriptor
	byKey   map[string]int
	home    int
	index   int
}

// New validates descriptors and builds a catalog. Entry order is preserved.
func New(descriptors []Descriptor) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Descriptor, len(descriptors)),
		byKey:   make(map[string]int, len(descriptors)),
		home:    -1,
		index:   -1,
	}
	copy(c.entries, descriptors)

	if len(c.entries) == 0 {
		return nil, errors.ConfigError("page catalog is empty").Build()
	}

	links := make(map[string]string, len(c.entries))
	paths := make(map[string]string, len(c.entries))
	for i, d := range c.entries {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if prev, dup := c.byKey[d.Key]; dup {
			return nil, errors.ConfigError(fmt.Sprintf("duplicate catalog key %q (entries %d and %d)", d.Key, prev, i)).
				WithContext("key", d.Key).
				Build()
		}
		c.byKey[d.Key] = i

		if other, dup := links[d.Link]; dup {
			return nil, errors.ConfigError(fmt.Sprintf("catalog entries %q and %q share link name %q", other, d.Key, d.Link)).
				WithContext("link", d.Link).
				Build()
		}
		links[d.Link] = d.Key

		if other, dup := paths[d.Path]; dup {
			return nil, errors.ConfigError(fmt.Sprintf("catalog entries %q and %q share canonical path %q", other, d.Key, d.Path)).
				WithContext("path", d.Path).
				Build()
		}
		paths[d.Path] = d.Key

		switch d.Nav {
		case NavHome:
			if c.home >= 0 {
				return nil, errors.ConfigError(fmt.Sprintf("catalog has more than one home entry (%q and %q)", c.entries[c.home].Key, d.Key)).Build()
			}
			c.home = i
		case NavIndex:
			if c.index >= 0 {
				return nil, errors.ConfigError(fmt.Sprintf("catalog has more than one index entry (%q and %q)", c.entries[c.index].Key, d.Key)).Build()
			}
			c.index = i
		}
	}

	if c.home < 0 {
		return nil, errors.ConfigError("catalog has no entry with nav policy \"home\"").Build()
	}
	if c.index < 0 {
		return nil, errors.ConfigError("catalog has no entry with nav policy \"index\"").Build()
	}
	return c, nil
}

func validateDescriptor(d Descriptor) error {
	switch {
	case d.Key == "":
		return errors.ConfigError("catalog entry has an empty key").Build()
	case strings.Contains(d.Key, "."):
		return errors.ConfigError(fmt.Sprintf("catalog key %q must not contain '.'; keys match file name stems", d.Key)).Build()
	case d.Link == "":
		return errors.ConfigError(fmt.Sprintf("catalog entry %q has an empty link name", d.Key)).Build()
	case d.Link == ReservedLink:
		return errors.ConfigError(fmt.Sprintf("catalog entry %q: link name %q is reserved for the 404 fallback", d.Key, d.Link)).Build()
	case strings.ContainsAny(d.Link, "/\\"):
		return errors.ConfigError(fmt.Sprintf("catalog entry %q: link name %q must be a plain file name", d.Key, d.Link)).Build()
	case !strings.HasPrefix(d.Path, "/"):
		return errors.ConfigError(fmt.Sprintf("catalog entry %q: canonical path %q must start with '/'", d.Key, d.Path)).Build()
	case !d.Nav.Valid():
		return errors.ConfigError(fmt.Sprintf("catalog entry %q: unknown nav policy %q", d.Key, d.Nav)).Build()
	}
	for _, p := range d.PrettyPaths() {
		if path.Clean(d.Path) == path.Clean(p) {
			return errors.ConfigError(fmt.Sprintf("catalog entry %q: canonical path %q equals its link path; the 404 fallback would redirect to itself", d.Key, d.Path)).Build()
		}
	}
	return nil
}

// Lookup finds the descriptor for a source stem.
func (c *Catalog) Lookup(key string) (Descriptor, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// Entries returns the descriptors in configuration order.
func (c *Catalog) Entries() []Descriptor {
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Home returns the landing page entry.
func (c *Catalog) Home() Descriptor { return c.entries[c.home] }

// Index returns the table of contents entry.
func (c *Catalog) Index() Descriptor { return c.entries[c.index] }

// NavTargets returns the entries d links to, according to its policy.
func (c *Catalog) NavTargets(d Descriptor) []Descriptor {
	policies := navTargets[d.Nav]
	out := make([]Descriptor, 0, len(policies))
	for _, p := range policies {
		for _, e := range c.entries {
			if e.Nav == p {
				out = append(out, e)
			}
		}
	}
	return out
}
