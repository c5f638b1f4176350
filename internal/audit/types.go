package audit

import (
	"fmt"
	"strings"
)

// ReportFormat enumerates the supported report encodings.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatHTML     ReportFormat = "html"
)

const unsupportedReportFormatTemplateConstant = "unsupported report format %q (expected markdown or html)"

// ParseReportFormat interprets a textual report format. Blank values select markdown.
func ParseReportFormat(value string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", ReportFormatMarkdown, "md":
		return ReportFormatMarkdown, nil
	case ReportFormatHTML:
		return ReportFormatHTML, nil
	default:
		return "", fmt.Errorf(unsupportedReportFormatTemplateConstant, value)
	}
}

// RunState describes the progress of a full-file audit.
type RunState string

// Run states. RunStateFailed is terminal.
const (
	RunStateLoading   RunState = "loading"
	RunStateIterating RunState = "iterating"
	RunStateWriting   RunState = "writing"
	RunStateDone      RunState = "done"
	RunStateFailed    RunState = "failed"
)

// RowOptions selects the row audited by a single-row run.
type RowOptions struct {
	DatasetPath string
	RowIndex    int
}

// FileOptions configures a full-file run.
type FileOptions struct {
	DatasetPath    string
	ReportPath     string
	ReportFormat   ReportFormat
	ReadingColumns []string
}

// RunSummary reports what an audit run did.
type RunSummary struct {
	State        RunState
	RowCount     int
	AuditedRows  int
	SkippedRows  int
	FailedCalls  int
	ReportPath   string
	ReportLength int
}
