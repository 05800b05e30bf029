// Package artifact holds the in-memory build outputs handed from the render
// stages to the publisher.
package artifact

// NotFoundName is the output file name of the 404 fallback page.
const NotFoundName = "404.html"

// Page is one finished HTML document.
type Page struct {
	Path   string // output path relative to the deployment root
	Key    string // catalog key, empty for the 404 fallback
	Source string // source document path, empty for the 404 fallback
	HTML   []byte
}

// Asset is one static file for the assets subdirectory.
type Asset struct {
	Path     string // output path relative to the assets subdirectory
	Source   string
	Data     []byte
	Minified bool
}

// Set is everything a build publishes.
type Set struct {
	Pages  []Page
	Assets []Asset
}

// Bytes returns the total size of pages and assets.
func (s *Set) Bytes() (pages, assets int) {
	for _, p := range s.Pages {
		pages += len(p.HTML)
	}
	for _, a := range s.Assets {
		assets += len(a.Data)
	}
	return pages, assets
}
