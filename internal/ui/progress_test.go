package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/flashaudit/internal/ui"
)

func TestProgressFormatterMessages(testInstance *testing.T) {
	formatter := ui.ProgressFormatter{}

	testCases := []struct {
		name            string
		message         string
		expectedMessage string
	}{
		{name: "loading", message: formatter.BuildDatasetLoadingMessage("cards.csv"), expectedMessage: "🚀 Loading dataset cards.csv..."},
		{name: "loaded", message: formatter.BuildDatasetLoadedMessage(3), expectedMessage: "✅ Loaded 3 rows. Starting audit..."},
		{name: "missing", message: formatter.BuildDatasetMissingMessage("absent.csv"), expectedMessage: "❌ File not found: absent.csv"},
		{name: "unreadable", message: formatter.BuildDatasetUnreadableMessage(errors.New("bad quote")), expectedMessage: "❌ Error reading dataset: bad quote"},
		{name: "unreadable_without_error", message: formatter.BuildDatasetUnreadableMessage(nil), expectedMessage: "❌ Error reading dataset: unknown error"},
		{name: "auditing", message: formatter.BuildRowAuditingMessage("442", "氏"), expectedMessage: "🔍 Auditing Row 442 (氏)..."},
		{name: "skipped", message: formatter.BuildRowSkippedMessage("442"), expectedMessage: "⏩ Skipping Row 442: All readings are None."},
		{name: "invalid_index", message: formatter.BuildRowIndexInvalidMessage(99), expectedMessage: "❌ Row index 99 is not in the dataset."},
		{name: "single_row", message: formatter.BuildSingleRowAuditingMessage(10), expectedMessage: "🔍 Auditing a single row (10)..."},
		{name: "single_row_completed", message: formatter.BuildSingleRowCompletedMessage(10), expectedMessage: "✅ Audit for row 10 complete."},
		{name: "report_saved", message: formatter.BuildReportSavedMessage("audit_report.md"), expectedMessage: "\n✅ Audit complete! Report saved to: audit_report.md"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, testCase.message)
		})
	}
}

func TestConsoleProgressReporterRoutesMessages(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	reporter := ui.NewConsoleProgressReporter(outputBuffer, errorBuffer)

	reporter.DatasetLoading("cards.csv")
	reporter.RowAuditing("1", "一")
	reporter.RowSkipped("1")
	reporter.DatasetMissing("absent.csv")
	reporter.RowIndexInvalid(-1)

	require.Equal(testInstance, "🚀 Loading dataset cards.csv...\n🔍 Auditing Row 1 (一)...\n⏩ Skipping Row 1: All readings are None.\n", outputBuffer.String())
	require.Equal(testInstance, "❌ File not found: absent.csv\n❌ Row index -1 is not in the dataset.\n", errorBuffer.String())
}

func TestConsoleProgressReporterDiscardsWithoutWriters(testInstance *testing.T) {
	reporter := ui.NewConsoleProgressReporter(nil, nil)
	require.NotPanics(testInstance, func() {
		reporter.ReportSaved("audit_report.md")
		reporter.DatasetUnreadable(errors.New("boom"))
	})
}
