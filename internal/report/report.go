// Package report prints comparison results to the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/ats-scorer/internal/batch"
	"github.com/spigell/ats-scorer/internal/similarity"
)

// Format selects how the summary is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a configured format. An empty value selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %q (use table, json or yaml)", s)
	}
}

// UnmarshalText lets configuration decoders validate the format.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// SummaryHeaders are the summary table columns.
var SummaryHeaders = []string{"Resume file", "JD File", "Similarity", "Missing", "Common"}

const (
	resumeColumn = 40
	jobColumn    = 20
)

// Reporter renders rows. Per-pair lines and rankings are only printed for the
// table format; structured formats print the summary document alone.
type Reporter struct {
	w        io.Writer
	format   Format
	renderer *lipgloss.Renderer

	tiers  map[similarity.Tier]lipgloss.Style
	failed lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	title  lipgloss.Style
}

// New creates a Reporter writing to w. Colors are used only when color is
// set and w is a terminal that supports them.
func New(w io.Writer, format Format, color bool) *Reporter {
	renderer := lipgloss.NewRenderer(w)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		w:        w,
		format:   format,
		renderer: renderer,
		tiers: map[similarity.Tier]lipgloss.Style{
			similarity.TierStrong:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
			similarity.TierBorderline: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
			similarity.TierWeak:       renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		},
		failed: renderer.NewStyle().Foreground(lipgloss.Color("1")),
		header: renderer.NewStyle().Bold(true).Padding(0, 1),
		cell:   renderer.NewStyle().Padding(0, 1),
		title:  renderer.NewStyle().Bold(true).Underline(true),
	}
}

func (r *Reporter) Format() Format { return r.format }

// Pair prints one processed pair: identifiers, the colored rounded percentage
// with its tier, then missing and common terms.
func (r *Reporter) Pair(row batch.Row) {
	if r.format != FormatTable {
		return
	}

	prefix := fmt.Sprintf("Resume %s | %s = ", pad(row.ResumeName(), resumeColumn), pad(row.JobName(), jobColumn))

	if row.Failed() {
		fmt.Fprintln(r.w, prefix+r.failed.Render("error: "+row.Err.Error()))
		return
	}

	fmt.Fprintln(r.w, prefix+r.score(row.Result))
	fmt.Fprintf(r.w, "  missing (%d): %s\n", len(row.Result.Missing), joinTerms(row.Result.Missing))
	fmt.Fprintf(r.w, "  common (%d): %s\n", len(row.Result.Common), joinTerms(row.Result.Common))
}

// Detail prints the full term lists of one pair, one term per line.
func (r *Reporter) Detail(row batch.Row) {
	fmt.Fprintln(r.w, r.title.Render(row.ResumeName()+" vs "+row.JobName()))

	if row.Failed() {
		fmt.Fprintln(r.w, r.failed.Render("error: "+row.Err.Error()))
		return
	}

	fmt.Fprintln(r.w, "Similarity: "+r.score(row.Result))
	writeList(r.w, "Missing", row.Result.Missing)
	writeList(r.w, "Common", row.Result.Common)
}

// Summary renders every row in processing order.
func (r *Reporter) Summary(rows batch.Rows) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(newSummary(rows))
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(newSummary(rows)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(r.w, r.table(rows))
		return err
	}
}

// Ranking prints, per job description, the résumés ordered by similarity.
func (r *Reporter) Ranking(rows batch.Rows) {
	if r.format != FormatTable {
		return
	}

	for _, ranking := range Rank(rows) {
		fmt.Fprintln(r.w, r.title.Render("JD "+ranking.JobName()))
		for i, row := range ranking.Rows {
			fmt.Fprintf(r.w, "  %d. %s %s\n", i+1, pad(row.ResumeName(), resumeColumn), r.score(row.Result))
		}
	}
}

func (r *Reporter) table(rows batch.Rows) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.renderer.NewStyle()).
		Headers(SummaryHeaders...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		})

	for _, row := range rows {
		t.Row(SummaryRow(row)...)
	}

	return t.String()
}

func (r *Reporter) score(result *similarity.Result) string {
	tier := result.Tier()
	return r.tiers[tier].Render(strconv.Itoa(result.Rounded())+"%") + " [" + tier.String() + "]"
}

// SummaryRow returns the table cells for a row. Failed pairs show "error" as similarity.
func SummaryRow(row batch.Row) []string {
	if row.Failed() {
		return []string{row.ResumeName(), row.JobName(), "error", "-", "-"}
	}

	return []string{
		row.ResumeName(),
		row.JobName(),
		strconv.Itoa(row.Result.Rounded()) + "%",
		strconv.Itoa(row.MissingCount()),
		strconv.Itoa(row.CommonCount()),
	}
}

type summaryRow struct {
	Resume         string   `json:"resume" yaml:"resume"`
	JobDescription string   `json:"job_description" yaml:"job_description"`
	Similarity     float64  `json:"similarity" yaml:"similarity"`
	Tier           string   `json:"tier,omitempty" yaml:"tier,omitempty"`
	Missing        []string `json:"missing" yaml:"missing"`
	Common         []string `json:"common" yaml:"common"`
	Error          string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type summary struct {
	Pairs  int          `json:"pairs" yaml:"pairs"`
	Failed int          `json:"failed" yaml:"failed"`
	Rows   []summaryRow `json:"rows" yaml:"rows"`
}

func newSummary(rows batch.Rows) summary {
	out := summary{
		Pairs:  len(rows),
		Failed: rows.Failed(),
		Rows:   make([]summaryRow, 0, len(rows)),
	}

	for _, row := range rows {
		entry := summaryRow{
			Resume:         row.ResumeName(),
			JobDescription: row.JobName(),
			Missing:        []string{},
			Common:         []string{},
		}

		if row.Failed() {
			entry.Error = row.Err.Error()
		} else {
			entry.Similarity = math.Round(row.Result.Percentage*100) / 100
			entry.Tier = row.Result.Tier().String()
			entry.Missing = row.Result.Missing
			entry.Common = row.Result.Common
		}

		out.Rows = append(out.Rows, entry)
	}

	return out
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func joinTerms(terms []string) string {
	if len(terms) == 0 {
		return "-"
	}
	return strings.Join(terms, ", ")
}

func writeList(w io.Writer, label string, terms []string) {
	fmt.Fprintf(w, "%s (%d):\n", label, len(terms))
	for _, term := range terms {
		fmt.Fprintf(w, "  - %s\n", term)
	}
}
