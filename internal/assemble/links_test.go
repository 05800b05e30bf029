package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Descriptor{
		{Key: "Home", Link: "index", Path: "/", Title: "Home", Label: "Home", Nav: catalog.NavHome},
		{Key: "Nav", Link: "table-of-contents", Path: "/table-of-contents.html", Title: "Table of contents", Label: "Table of contents", Nav: catalog.NavIndex},
		{Key: "Meta", Link: "meta", Path: "/meta.html", Title: "Meta", Label: "Meta", Nav: catalog.NavPage},
		{Key: "Pgwm03", Link: "pgwm03", Path: "/pgwm03.html", Title: "pgwm 0.3", Label: "pgwm 0.3", Nav: catalog.NavPage},
	})
	require.NoError(t, err)
	return cat
}

func TestLinker_Rewrite(t *testing.T) {
	l := newLinker(testCatalog(t))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pretty path",
			in:   `<p>See <a href="/meta">meta</a>.</p>`,
			want: `<p>See <a href="/meta.html" class="self-link">meta</a>.</p>`,
		},
		{
			name: "pretty path with slash and fragment",
			in:   `<a href="/pgwm03/#install">x</a>`,
			want: `<a href="/pgwm03.html#install" class="self-link">x</a>`,
		},
		{
			name: "source document reference",
			in:   `<a href="../projects/Pgwm03.md">x</a>`,
			want: `<a href="/pgwm03.html" class="self-link">x</a>`,
		},
		{
			name: "existing class is extended",
			in:   `<a class="btn" href="/table-of-contents">toc</a>`,
			want: `<a class="btn self-link" href="/table-of-contents.html">toc</a>`,
		},
		{
			name: "home pretty path",
			in:   `<a href="/index">home</a>`,
			want: `<a href="/" class="self-link">home</a>`,
		},
		{
			name: "external links untouched",
			in:   `<a  href="https://example.com/meta" >ext</a><a href="#top">top</a>`,
			want: `<a  href="https://example.com/meta" >ext</a><a href="#top">top</a>`,
		},
		{
			name: "unknown path untouched",
			in:   `<a href='/other'>o</a>`,
			want: `<a href='/other'>o</a>`,
		},
		{
			name: "other markup byte identical",
			in:   "<pre><code class=\"language-rust\">if a &lt; b {\n  &gt;x\n}</code></pre>\n<!-- c --><br/>",
			want: "<pre><code class=\"language-rust\">if a &lt; b {\n  &gt;x\n}</code></pre>\n<!-- c --><br/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := l.rewrite([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestLinker_RewritePassesOtherContentThrough(t *testing.T) {
	l := newLinker(testCatalog(t))

	inputs := map[string]string{
		"stray less-than":       "a < b and c<d",
		"unfinished tag at end": "trailing <b",
		"unfinished anchor":     `see <a href="/meta"`,
		"heart":                 "x <3 y",
		"bare end tag opener":   "text</",
		"comment":               "<!-- <a href=\"/meta\">old</a> -->\n<p>x</p>",
		"unterminated comment":  "<p>x</p><!-- todo",
		"doctype":               "<!DOCTYPE html>\n<p>x</p>",
		"script raw text":       `<script>if (a<b) { x = "<a href='/meta'>"; }</script>`,
		"style raw text":        "<style>a > b { color: red }</style>",
		"pre with entities":     "<pre>&lt;a&gt; &amp; &#x27;</pre>",
		"unquoted attributes":   "<td class=x colspan=2>cell</td>",
		"external anchor":       `<a href="https://example.com/meta">ext</a>`,
		"fragment anchor":       `<a href="#meta">here</a>`,
		"anchor without href":   `<a name="top">top</a>`,
		"self-closing void":     "<br/><img src=\"/meta\" alt=x>",
		"uppercase unknown":     "<DIV DATA-X='1'>y</DIV>",
		"non-ascii text":        "café – naïve <em>ok</em>",
		"empty":                 "",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := l.rewrite([]byte(in))
			require.NoError(t, err)
			assert.Equal(t, in, string(got))
		})
	}
}
