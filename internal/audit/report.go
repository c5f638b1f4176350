package audit

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	reportTitleLineConstant       = "# OniKanji Flashcard Audit Report\n"
	reportDescriptionLineConstant = "This report audits each row for formatting, naturalness, furigana, multiple choice, and consistency.\n"
	reportLineSeparatorConstant   = "\n"
	reportHTMLTitleConstant       = "OniKanji Flashcard Audit Report"
)

// Report accumulates audit results in row order.
type Report struct {
	entries []string
}

// NewReport constructs an empty report.
func NewReport() *Report {
	return &Report{}
}

// Append adds a rendered result followed by a blank separator line.
func (report *Report) Append(renderedResult string) {
	report.entries = append(report.entries, renderedResult, "")
}

// EntryCount reports the number of appended results.
func (report *Report) EntryCount() int {
	return len(report.entries) / 2
}

// Markdown returns the two header lines followed by every entry.
func (report *Report) Markdown() string {
	lines := make([]string, 0, len(report.entries)+2)
	lines = append(lines, reportTitleLineConstant, reportDescriptionLineConstant)
	lines = append(lines, report.entries...)
	return strings.Join(lines, reportLineSeparatorConstant)
}

// HTML renders the markdown document as a standalone HTML page.
func (report *Report) HTML() string {
	documentParser := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: reportHTMLTitleConstant,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return string(markdown.ToHTML([]byte(report.Markdown()), documentParser, renderer))
}

// Render encodes the report in the requested format.
func (report *Report) Render(format ReportFormat) string {
	if format == ReportFormatHTML {
		return report.HTML()
	}
	return report.Markdown()
}
