package assemble

import (
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
)

// redirectScript builds the client-side fallback: one check per catalog entry
// comparing the request path with the entry's link paths and redirecting to its
// canonical path on a match.
func redirectScript(entries []catalog.Descriptor) (string, error) {
	var b strings.Builder
	b.WriteString("(function () {\n")
	b.WriteString("  var p = window.location.pathname;\n")
	for _, d := range entries {
		pretty := d.PrettyPaths()
		bare, slash, err := quote(pretty[0], pretty[1])
		if err != nil {
			return "", err
		}
		target, err := json.Marshal(d.Path)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  if (p === %s || p === %s) { window.location.replace(%s); return; }\n", bare, slash, target)
	}
	b.WriteString("})();")
	return b.String(), nil
}

func quote(a, b string) (string, string, error) {
	qa, err := json.Marshal(a)
	if err != nil {
		return "", "", err
	}
	qb, err := json.Marshal(b)
	if err != nil {
		return "", "", err
	}
	return string(qa), string(qb), nil
}
