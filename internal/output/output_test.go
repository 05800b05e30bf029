package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColorMode(t *testing.T) {
	tests := []struct {
		mode  string
		isTTY bool
		want  bool
	}{
		{"never", true, false},
		{"always", false, true},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColorMode(tt.mode, tt.isTTY))
		})
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestPrinter_BuildHuman(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	require.NoError(t, p.Build(BuildSummary{
		BuildID:   "b-1",
		OutputDir: "dist",
		Revision:  "abc123",
		Pages:     5,
		Assets:    3,
		PageBytes: 2048,
		Duration:  1500 * time.Millisecond,
		Warnings:  []string{"notify failed"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Published dist")
	assert.Contains(t, out, "5 (2.0 KiB)")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "Warning: notify failed")
	assert.NotContains(t, out, "\x1b[", "no escape codes without a TTY")
}

func TestPrinter_BuildJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, true, false).Build(BuildSummary{BuildID: "b-2", Pages: 2}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "b-2", got["build_id"])
	assert.InDelta(t, 2, got["pages"], 0)
}

func TestPrinter_CatalogTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, false).Catalog([]CatalogEntry{
		{Key: "Home", Link: "index", Path: "/", Nav: "home", NavKeys: []string{"Nav"}},
		{Key: "Meta", Link: "meta", Path: "/meta.html", Nav: "page", NavKeys: []string{"Home", "Nav"}},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "KEY"))
	assert.Contains(t, lines[2], "meta.html")
	assert.Contains(t, lines[2], "Home, Nav")
	assert.Equal(t, strings.Index(lines[0], "PATH"), strings.Index(lines[1], "/"))
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 KiB", humanBytes(1536))
	assert.Equal(t, "3.0 MiB", humanBytes(3*1024*1024))
}
