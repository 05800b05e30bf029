package discovery

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/convert"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Descriptor{
		{Key: "Home", Link: "index", Path: "/", Nav: catalog.NavHome},
		{Key: "Nav", Link: "toc", Path: "/toc.html", Nav: catalog.NavIndex},
		{Key: "Meta", Link: "meta", Path: "/meta.html", Nav: catalog.NavPage},
	})
	require.NoError(t, err)
	return cat
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("# "+f), 0o644))
	}
	return root
}

type recordingSubmitter struct {
	submitted []string
}

func (r *recordingSubmitter) Submit(page, _ string) *convert.Job {
	r.submitted = append(r.submitted, page)
	return nil
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"Home.md":      "Home",
		"Meta.test.md": "Meta",
		"README":       "README",
		".hidden.md":   "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Stem(name), name)
	}
}

func TestDiscover_ClassifiesNestedTree(t *testing.T) {
	root := writeTree(t, "Home.md", "sub/Nav.md", "sub/deeper/Meta.markdown")
	sub := &recordingSubmitter{}

	pages, err := New(testCatalog(t), sub).Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	keys := make([]string, 0, len(pages))
	for _, p := range pages {
		keys = append(keys, p.Descriptor.Key)
		assert.FileExists(t, p.SourcePath)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"Home", "Meta", "Nav"}, keys)
	assert.Len(t, sub.submitted, 3, "every matched page starts a conversion")
}

func TestDiscover_StartsRealConversions(t *testing.T) {
	root := writeTree(t, "Home.md", "Nav.md", "Meta.md")
	conv := convert.NewStaticConverter(map[string]string{"Home.md": "h", "Nav.md": "n", "Meta.md": "m"})
	pool := convert.NewPool(context.Background(), conv)

	pages, err := New(testCatalog(t), pool).Discover(context.Background(), root)
	require.NoError(t, err)
	for _, p := range pages {
		require.NotNil(t, p.Job)
		assert.Equal(t, p.Descriptor.Key, p.Job.Page())
		_, err := p.Job.Wait(context.Background())
		require.NoError(t, err)
	}
	require.NoError(t, pool.Wait())
}

func TestDiscover_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		category errors.ErrorCategory
		mention  string
	}{
		{"unknown stem", []string{"Home.md", "Nav.md", "Meta.md", "unknown.md"}, errors.CategoryClassification, "unknown.md"},
		{"case sensitive keys", []string{"home.md", "Nav.md", "Meta.md"}, errors.CategoryClassification, "home.md"},
		{"missing source", []string{"Home.md", "Nav.md"}, errors.CategoryClassification, "Meta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files...)
			_, err := New(testCatalog(t), nil).Discover(context.Background(), root)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category), "got %v", err)
			assert.Contains(t, err.Error(), tt.mention)
		})
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "absent")
	_, err := New(testCatalog(t), nil).Discover(context.Background(), root)
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryDiscovery, classified.Category())
	assert.Equal(t, root, classified.Path())
}

func TestDiscover_StemCollisionWarns(t *testing.T) {
	root := writeTree(t, "Home.md", "Nav.md", "a/Meta.md", "b/Meta.md")
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	pages, err := New(testCatalog(t), nil).WithLogger(logger).Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, pages, 4)
	assert.Contains(t, logs.String(), "share a stem")
	assert.Contains(t, logs.String(), filepath.Join(root, "b", "Meta.md"))
}

func TestDiscover_Canceled(t *testing.T) {
	root := writeTree(t, "Home.md", "Nav.md", "Meta.md")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testCatalog(t), nil).Discover(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}
