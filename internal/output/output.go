// Package output renders command results for humans (lipgloss styled when the
// output is a terminal) or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Printer handles formatted output to a writer.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// NewPrinter creates a printer. Colors are enabled only when isTTY is true.
func NewPrinter(writer io.Writer, jsonMode bool, isTTY bool) *Printer {
	styles := &Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		Bold:    lipgloss.NewStyle().Bold(true),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")), // Blue
		Muted:   lipgloss.NewStyle().Faint(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
	}
	if !isTTY {
		styles = &Styles{
			Success: lipgloss.NewStyle(),
			Warning: lipgloss.NewStyle(),
			Bold:    lipgloss.NewStyle(),
			Title:   lipgloss.NewStyle(),
			Muted:   lipgloss.NewStyle(),
			Key:     lipgloss.NewStyle(),
		}
	}
	return &Printer{w: writer, errW: writer, json: jsonMode, styles: styles}
}

// WithStderr sets a separate writer for warnings in human mode.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// BuildSummary describes a finished build.
type BuildSummary struct {
	BuildID    string        `json:"build_id"`
	OutputDir  string        `json:"output_dir"`
	Revision   string        `json:"revision,omitempty"`
	Pages      int           `json:"pages"`
	Assets     int           `json:"assets"`
	PageBytes  int           `json:"page_bytes"`
	AssetBytes int           `json:"asset_bytes"`
	Duration   time.Duration `json:"duration_ns"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// Build prints a build summary.
func (p *Printer) Build(s BuildSummary) error {
	if p.json {
		return p.WriteJSON(s)
	}
	p.line("%s %s", p.styles.Success.Render("Published"), p.styles.Bold.Render(s.OutputDir))
	p.field("pages", fmt.Sprintf("%d (%s)", s.Pages, humanBytes(s.PageBytes)))
	p.field("assets", fmt.Sprintf("%d (%s)", s.Assets, humanBytes(s.AssetBytes)))
	if s.Revision != "" {
		p.field("revision", s.Revision)
	}
	p.field("build", s.BuildID)
	p.field("took", s.Duration.Round(time.Millisecond).String())
	for _, w := range s.Warnings {
		p.Warn("%s", w)
	}
	return nil
}

// CheckSummary describes a successful validation run.
type CheckSummary struct {
	ConfigFile string `json:"config_file"`
	SourceDir  string `json:"source_dir"`
	Pages      int    `json:"pages"`
}

// Check prints the result of a check run.
func (p *Printer) Check(s CheckSummary) error {
	if p.json {
		return p.WriteJSON(s)
	}
	p.line("%s %s", p.styles.Success.Render("OK"), s.ConfigFile)
	p.field("sources", fmt.Sprintf("%d pages classified under %s", s.Pages, s.SourceDir))
	return nil
}

// CatalogEntry is one catalog row with its resolved navigation.
type CatalogEntry struct {
	Key     string   `json:"key"`
	Link    string   `json:"link"`
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Nav     string   `json:"nav"`
	NavKeys []string `json:"nav_targets"`
}

// Catalog prints the page catalog as an aligned table.
func (p *Printer) Catalog(entries []CatalogEntry) error {
	if p.json {
		return p.WriteJSON(entries)
	}
	rows := [][]string{{"KEY", "OUTPUT", "PATH", "NAV", "LINKS TO"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Link + ".html", e.Path, e.Nav, strings.Join(e.NavKeys, ", ")})
	}
	widths := make([]int, len(rows[0]))
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], len(c))
		}
	}
	for i, r := range rows {
		cells := make([]string, len(r))
		for j, c := range r {
			cells[j] = c + strings.Repeat(" ", widths[j]-len(c))
		}
		text := strings.TrimRight(strings.Join(cells, "  "), " ")
		if i == 0 {
			text = p.styles.Title.Render(text)
		}
		p.line("%s", text)
	}
	return nil
}

// Success prints a one-line success message.
func (p *Printer) Success(format string, args ...any) {
	if p.json {
		_ = p.WriteJSON(map[string]any{"message": fmt.Sprintf(format, args...)})
		return
	}
	p.line("%s", p.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning to the error writer. No-op in JSON mode.
func (p *Printer) Warn(format string, args ...any) {
	if p.json {
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), fmt.Sprintf(format, args...)))
}

// WriteJSON encodes data as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func (p *Printer) line(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format+"\n", args...))
}

func (p *Printer) field(key, value string) {
	p.line("  %s %s", p.styles.Key.Render(fmt.Sprintf("%-9s", key+":")), value)
}

func humanBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

// mustWrite ignores write errors to the terminal; there is nowhere better to report them.
func mustWrite(_ int, _ error) {}
