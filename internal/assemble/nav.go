package assemble

import "git.home.luguber.info/inful/sitegen/internal/catalog"

type navLink struct {
	Href  string
	Label string
}

// navLinks renders the navigation entries of d according to its policy.
func navLinks(cat *catalog.Catalog, d catalog.Descriptor) []navLink {
	targets := cat.NavTargets(d)
	links := make([]navLink, 0, len(targets))
	for _, t := range targets {
		links = append(links, navLink{Href: t.Path, Label: t.Label})
	}
	return links
}
