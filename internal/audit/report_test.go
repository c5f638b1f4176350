package audit_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/flashaudit/internal/audit"
)

const testCritiqueTableConstant = "| ID | Issue | Fix | Severity |\n|----|-------|-----|----------|\n| 442 氏 | Parenthetical in translation | Remove parentheses | Medium |"

func TestReportMarkdown(testInstance *testing.T) {
	report := audit.NewReport()
	require.Zero(testInstance, report.EntryCount())

	report.Append("first")
	report.Append("[ERROR: API call failed - timeout]")

	require.Equal(testInstance, 2, report.EntryCount())
	require.Equal(testInstance,
		"# OniKanji Flashcard Audit Report\n\nThis report audits each row for formatting, naturalness, furigana, multiple choice, and consistency.\n\nfirst\n\n[ERROR: API call failed - timeout]\n",
		report.Render(audit.ReportFormatMarkdown))
}

func TestReportHTML(testInstance *testing.T) {
	report := audit.NewReport()
	report.Append(testCritiqueTableConstant)

	document := report.Render(audit.ReportFormatHTML)

	require.True(testInstance, strings.HasPrefix(document, "<!DOCTYPE html>"))
	require.Contains(testInstance, document, "<title>OniKanji Flashcard Audit Report</title>")
	require.Contains(testInstance, document, "OniKanji Flashcard Audit Report</h1>")
	require.Contains(testInstance, document, "<table>")
	require.Contains(testInstance, document, "Remove parentheses")
}

func TestParseReportFormat(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedFormat audit.ReportFormat
		expectError    bool
	}{
		{name: "blank", value: "", expectedFormat: audit.ReportFormatMarkdown},
		{name: "markdown", value: " Markdown ", expectedFormat: audit.ReportFormatMarkdown},
		{name: "md_alias", value: "md", expectedFormat: audit.ReportFormatMarkdown},
		{name: "html", value: "HTML", expectedFormat: audit.ReportFormatHTML},
		{name: "unsupported", value: "pdf", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			format, parseError := audit.ParseReportFormat(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedFormat, format)
		})
	}
}

func TestPresenters(testInstance *testing.T) {
	plainOutput := &bytes.Buffer{}
	require.NoError(testInstance, audit.PlainPresenter{}.Present(plainOutput, testCritiqueTableConstant))
	require.Equal(testInstance, "\n"+testCritiqueTableConstant+"\n\n", plainOutput.String())

	presenter, presenterError := audit.NewMarkdownPresenter("notty", 120)
	require.NoError(testInstance, presenterError)

	renderedOutput := &bytes.Buffer{}
	require.NoError(testInstance, presenter.Present(renderedOutput, testCritiqueTableConstant))
	require.Contains(testInstance, renderedOutput.String(), "Remove")
}
