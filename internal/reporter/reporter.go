package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// NoPairsLine is printed when no pair of files could be compared
const NoPairsLine = "No comparable file pairs found."

// ParseFormat converts a format name to an OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report generates a report from scan results
func (r *Reporter) Report(result *scanner.Result) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	case FormatSummary:
		return r.reportSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(result *scanner.Result) error {
	fmt.Fprintln(r.writer, styles.HeadingStyle.Render("=== Duplicate Scan Summary ==="))
	if result.Root != "" {
		fmt.Fprintf(r.writer, "Root: %s\n", result.Root)
	}
	fmt.Fprintf(r.writer, "Files Scanned: %d (%s)\n", result.Files, utils.FormatBytes(result.Bytes))
	fmt.Fprintf(r.writer, "Text Files Compared: %d\n", result.TextFiles)
	fmt.Fprintf(r.writer, "Duplicate Files: %d (%s reclaimable)\n", len(result.Duplicates), utils.FormatBytes(result.DuplicateBytes()))
	fmt.Fprintf(r.writer, "Similar Pairs: %d\n", len(result.Similarities))
	fmt.Fprintf(r.writer, "Duration: %s\n\n", result.Duration.Round(time.Millisecond))

	if err := r.reportTable(result); err != nil {
		return err
	}

	if summary := scanner.FormatErrorSummary(result.Warnings); summary != "" {
		fmt.Fprint(r.writer, styles.WarningStyle.Render(summary))
		fmt.Fprintln(r.writer)
	}

	return nil
}

// reportTable renders the duplicate and similarity tables followed by the
// highest-similarity line
func (r *Reporter) reportTable(result *scanner.Result) error {
	fmt.Fprintln(r.writer, styles.SectionStyle.Render("Duplicates"))
	if len(result.Duplicates) == 0 {
		fmt.Fprintln(r.writer, styles.MutedStyle.Render("No duplicate files found."))
	} else {
		fmt.Fprintln(r.writer, DuplicatesTable(result))
	}
	fmt.Fprintln(r.writer)

	fmt.Fprintln(r.writer, styles.SectionStyle.Render("Similarities"))
	if len(result.Similarities) == 0 {
		fmt.Fprintln(r.writer, styles.MutedStyle.Render("No similar files found."))
	} else {
		fmt.Fprintln(r.writer, SimilaritiesTable(result))
	}
	fmt.Fprintln(r.writer)

	fmt.Fprintln(r.writer, HighestSimilarityLine(result))
	return nil
}

// DuplicatesTable renders one row per duplicate pair
func DuplicatesTable(result *scanner.Result) string {
	t := newTable("File 1", "File 2")
	for _, d := range result.Duplicates {
		t.Row(filepath.Base(d.Anchor), filepath.Base(d.Duplicate))
	}
	return t.String()
}

// SimilaritiesTable renders one row per compared pair. The row holding the
// highest score is wrapped in ** markers and bold.
func SimilaritiesTable(result *scanner.Result) string {
	best, hasBest := result.MaxSimilarity()
	bestRow := -1

	t := newTable("File 1", "File 2", "Similarity Percentage")
	for i, p := range result.Similarities {
		a, b, pct := filepath.Base(p.A), filepath.Base(p.B), FormatPercent(p.Score)
		if hasBest && bestRow < 0 && p == best {
			bestRow = i
			a, b, pct = "**"+a+"**", "**"+b+"**", "**"+pct+"**"
		}
		t.Row(a, b, pct)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		return styles.TableCellStyle(row, bestRow)
	})

	return t.String()
}

// HighestSimilarityLine states the most similar pair, or that none exists
func HighestSimilarityLine(result *scanner.Result) string {
	best, ok := result.MaxSimilarity()
	if !ok {
		return NoPairsLine
	}
	return fmt.Sprintf("Highest similarity between files: %s and %s with %s similarity.",
		filepath.Base(best.A), filepath.Base(best.B), FormatPercent(best.Score))
}

// FormatPercent renders a score in [0,1] as a percentage with two decimals
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return styles.TableCellStyle(row, -1)
		})
}

type duplicateEntry struct {
	Anchor    string `json:"anchor" yaml:"anchor"`
	Duplicate string `json:"duplicate" yaml:"duplicate"`
	Hash      string `json:"hash" yaml:"hash"`
	Size      int64  `json:"size" yaml:"size"`
}

type groupEntry struct {
	Anchor  string   `json:"anchor" yaml:"anchor"`
	Members []string `json:"members" yaml:"members"`
	Hash    string   `json:"hash" yaml:"hash"`
	Size    int64    `json:"size" yaml:"size"`
}

type similarityEntry struct {
	FileA   string  `json:"file_a" yaml:"file_a"`
	FileB   string  `json:"file_b" yaml:"file_b"`
	Score   float64 `json:"score" yaml:"score"`
	Percent string  `json:"percent" yaml:"percent"`
}

type warningEntry struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
	Stage  string `json:"stage" yaml:"stage"`
	Error  string `json:"error" yaml:"error"`
}

// document is the machine-readable form of a Result
type document struct {
	ScanID             string            `json:"scan_id" yaml:"scan_id"`
	Root               string            `json:"root,omitempty" yaml:"root,omitempty"`
	Timestamp          string            `json:"timestamp" yaml:"timestamp"`
	Duration           string            `json:"duration" yaml:"duration"`
	TotalFiles         int               `json:"total_files" yaml:"total_files"`
	TextFiles          int               `json:"text_files" yaml:"text_files"`
	TotalSize          int64             `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string            `json:"total_size_formatted" yaml:"total_size_formatted"`
	Duplicates         []duplicateEntry  `json:"duplicates" yaml:"duplicates"`
	Groups             []groupEntry      `json:"groups" yaml:"groups"`
	Similarities       []similarityEntry `json:"similarities" yaml:"similarities"`
	MaxSimilarity      *similarityEntry  `json:"max_similarity" yaml:"max_similarity"`
	Warnings           []warningEntry    `json:"warnings" yaml:"warnings"`
}

func buildDocument(result *scanner.Result) document {
	doc := document{
		ScanID:             result.ScanID,
		Root:               result.Root,
		Timestamp:          result.Started.Format(time.RFC3339),
		Duration:           result.Duration.String(),
		TotalFiles:         result.Files,
		TextFiles:          result.TextFiles,
		TotalSize:          result.Bytes,
		TotalSizeFormatted: utils.FormatBytes(result.Bytes),
		Duplicates:         make([]duplicateEntry, 0, len(result.Duplicates)),
		Groups:             []groupEntry{},
		Similarities:       make([]similarityEntry, 0, len(result.Similarities)),
		Warnings:           make([]warningEntry, 0, len(result.Warnings)),
	}

	for _, d := range result.Duplicates {
		doc.Duplicates = append(doc.Duplicates, duplicateEntry(d))
	}
	for _, g := range result.Groups() {
		doc.Groups = append(doc.Groups, groupEntry(g))
	}
	for _, p := range result.Similarities {
		doc.Similarities = append(doc.Similarities, toSimilarityEntry(p))
	}
	if best, ok := result.MaxSimilarity(); ok {
		entry := toSimilarityEntry(best)
		doc.MaxSimilarity = &entry
	}
	for _, w := range result.Warnings {
		doc.Warnings = append(doc.Warnings, warningEntry{
			Path:   w.Path,
			Reason: w.Reason.String(),
			Stage:  string(w.Stage),
			Error:  fmt.Sprint(w.Original),
		})
	}

	return doc
}

func toSimilarityEntry(p scanner.SimilarityPair) similarityEntry {
	return similarityEntry{FileA: p.A, FileB: p.B, Score: p.Score, Percent: FormatPercent(p.Score)}
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(result *scanner.Result) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(result))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(result *scanner.Result) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildDocument(result))
}

// SaveToFile saves the report to a file
func SaveToFile(result *scanner.Result, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	if err := reporter.Report(result); err != nil {
		return err
	}
	return file.Close()
}
