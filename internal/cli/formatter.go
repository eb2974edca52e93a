package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/nao1215/markdown"

	"github.com/idelchi/imgsizecompress/internal/compress"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2

	// ReportTitle heads every table report.
	ReportTitle = "--- Compression Report ---"
)

//nolint:gochecknoglobals // Color helpers
var (
	cTitle   = color.New(color.Bold).SprintFunc()
	cSaved   = color.New(color.FgGreen, color.Bold).SprintFunc()
	cGrew    = color.New(color.FgYellow, color.Bold).SprintFunc()
	cInvalid = color.New(color.FgRed).SprintFunc()
)

// columns are the table headers, in display order.
//
//nolint:gochecknoglobals // Table layout
var columns = []string{"File", "Original", "Final", "Saved"}

// row renders the display cells of one metric.
func row(m compress.Metric) []string {
	return []string{
		m.Name,
		compress.FormatBytes(m.Original),
		compress.FormatBytes(m.Final),
		compress.FormatPercent(m.Percent()),
	}
}

// totalLine renders the summary line without color.
func totalLine(report *compress.Report) string {
	return fmt.Sprintf("TOTAL SPACE SAVED: %s (%s)",
		compress.FormatBytes(report.TotalSaved), compress.FormatKB(report.TotalSaved))
}

// PrintTable outputs the report as an aligned table followed by the total.
// The separator spans the table but is capped at maxWidth when maxWidth > 0,
// and never drops below the title width.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report *compress.Report, writer io.Writer, maxWidth int) error {
	var table bytes.Buffer

	w := tabwriter.NewWriter(&table, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, strings.Join(columns, "\t"))

	for _, m := range report.Metrics {
		fmt.Fprintln(w, strings.Join(row(m), "\t"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	width := utf8.RuneCountInString(ReportTitle)

	for _, line := range strings.Split(strings.TrimRight(table.String(), "\n"), "\n") {
		if n := utf8.RuneCountInString(strings.TrimRight(line, " ")); n > width {
			width = n
		}
	}

	if maxWidth > 0 && width > maxWidth {
		width = max(maxWidth, utf8.RuneCountInString(ReportTitle))
	}

	total := totalLine(report)

	switch {
	case math.IsNaN(report.TotalSaved):
		total = cInvalid(total)
	case report.TotalSaved < 0:
		total = cGrew(total)
	default:
		total = cSaved(total)
	}

	var out strings.Builder

	fmt.Fprintln(&out)
	fmt.Fprintln(&out, cTitle(ReportTitle))
	out.Write(table.Bytes())
	fmt.Fprintln(&out, strings.Repeat("-", width))
	fmt.Fprintln(&out, total)
	fmt.Fprintln(&out)

	_, err := io.WriteString(writer, out.String())

	return err
}

// jsonFile is the JSON view of one metric.
type jsonFile struct {
	Name     string `json:"name"`
	Original any    `json:"original"`
	Final    any    `json:"final"`
	Saved    any    `json:"saved"`
	Percent  any    `json:"percent_saved"`
}

// jsonReport is the JSON view of a report.
type jsonReport struct {
	Directory       string     `json:"directory"`
	Files           []jsonFile `json:"files"`
	TotalSaved      any        `json:"total_saved"`
	TotalSavedHuman string     `json:"total_saved_human"`
	TotalSavedKB    string     `json:"total_saved_kb"`
	PayloadBytes    int64      `json:"payload_bytes"`
	ElapsedMS       int64      `json:"elapsed_ms"`
}

// jsonNumber keeps finite values numeric and spells out the rest,
// since JSON has no NaN or Inf.
func jsonNumber(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}

	return f
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *compress.Report, writer io.Writer) error {
	view := jsonReport{
		Directory:       report.Directory,
		Files:           make([]jsonFile, 0, len(report.Metrics)),
		TotalSaved:      jsonNumber(report.TotalSaved),
		TotalSavedHuman: compress.FormatBytes(report.TotalSaved),
		TotalSavedKB:    compress.FormatKB(report.TotalSaved),
		PayloadBytes:    report.PayloadBytes,
		ElapsedMS:       report.Elapsed.Milliseconds(),
	}

	for _, m := range report.Metrics {
		view.Files = append(view.Files, jsonFile{
			Name:     m.Name,
			Original: jsonNumber(m.Original),
			Final:    jsonNumber(m.Final),
			Saved:    jsonNumber(m.Saved),
			Percent:  jsonNumber(m.Percent()),
		})
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintMarkdown outputs the report as a Markdown document.
func PrintMarkdown(report *compress.Report, writer io.Writer) error {
	md := markdown.NewMarkdown(writer)

	md.H1("Compression Report")
	md.PlainText("")

	if report.Directory != "" {
		md.PlainTextf("Directory: `%s`", report.Directory)
		md.PlainText("")
	}

	rows := make([][]string, 0, len(report.Metrics))
	for _, m := range report.Metrics {
		cells := row(m)
		cells[0] = strings.ReplaceAll(cells[0], "|", `\|`)
		rows = append(rows, cells)
	}

	md.Table(markdown.TableSet{
		Header: columns,
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText("**" + totalLine(report) + "**")

	return md.Build()
}
