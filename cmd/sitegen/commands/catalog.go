package commands

import (
	"git.home.luguber.info/inful/sitegen/internal/output"
)

// CatalogCmd implements the 'catalog' command.
type CatalogCmd struct {
	OutputFlags
}

func (c *CatalogCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	cat, err := cfg.BuildCatalog()
	if err != nil {
		return err
	}

	entries := make([]output.CatalogEntry, 0, cat.Len())
	for _, d := range cat.Entries() {
		targets := cat.NavTargets(d)
		keys := make([]string, 0, len(targets))
		for _, t := range targets {
			keys = append(keys, t.Key)
		}
		entries = append(entries, output.CatalogEntry{
			Key:     d.Key,
			Link:    d.Link,
			Path:    d.Path,
			Title:   d.Title,
			Nav:     string(d.Nav),
			NavKeys: keys,
		})
	}
	return c.printer(g).Catalog(entries)
}
