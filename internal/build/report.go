package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/inful/mdfp"
)

// ReportSchemaVersion is bumped on incompatible report changes.
const ReportSchemaVersion = 1

// Report is the machine-readable record of a published build.
type Report struct {
	SchemaVersion int           `json:"schema_version"`
	BuildID       string        `json:"build_id"`
	Revision      string        `json:"revision,omitempty"`
	OutputDir     string        `json:"output_dir"`
	DurationMS    int64         `json:"duration_ms"`
	Pages         []ReportEntry `json:"pages"`
	Assets        []ReportEntry `json:"assets"`
}

// ReportEntry describes one published file. Fingerprint depends only on content.
type ReportEntry struct {
	Path        string `json:"path"`
	Source      string `json:"source,omitempty"`
	Bytes       int    `json:"bytes"`
	Fingerprint string `json:"fingerprint"`
}

// NewReport summarizes res with entries sorted by output path.
func NewReport(res *Result) *Report {
	r := &Report{
		SchemaVersion: ReportSchemaVersion,
		BuildID:       res.BuildID,
		Revision:      res.Revision,
		OutputDir:     res.OutputDir,
		DurationMS:    res.Duration.Milliseconds(),
		Pages:         make([]ReportEntry, 0, len(res.Artifacts.Pages)),
		Assets:        make([]ReportEntry, 0, len(res.Artifacts.Assets)),
	}
	for _, p := range res.Artifacts.Pages {
		r.Pages = append(r.Pages, entry(p.Path, p.Source, p.HTML))
	}
	for _, a := range res.Artifacts.Assets {
		r.Assets = append(r.Assets, entry(a.Path, a.Source, a.Data))
	}
	sort.Slice(r.Pages, func(i, j int) bool { return r.Pages[i].Path < r.Pages[j].Path })
	sort.Slice(r.Assets, func(i, j int) bool { return r.Assets[i].Path < r.Assets[j].Path })
	return r
}

func entry(path, source string, data []byte) ReportEntry {
	return ReportEntry{
		Path:        path,
		Source:      source,
		Bytes:       len(data),
		Fingerprint: mdfp.CalculateFingerprintFromParts("", string(data)),
	}
}

// WriteReport writes r as indented JSON, creating the parent directory if needed.
func WriteReport(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write build report %s: %w", path, err)
	}
	return nil
}
