package ui

import (
	"fmt"
	"io"
)

const (
	datasetLoadingMessageTemplateConstant     = "🚀 Loading dataset %s..."
	datasetLoadedMessageTemplateConstant      = "✅ Loaded %d rows. Starting audit..."
	datasetMissingMessageTemplateConstant     = "❌ File not found: %s"
	datasetUnreadableMessageTemplateConstant  = "❌ Error reading dataset: %s"
	rowAuditingMessageTemplateConstant        = "🔍 Auditing Row %s (%s)..."
	rowSkippedMessageTemplateConstant         = "⏩ Skipping Row %s: All readings are None."
	rowIndexInvalidMessageTemplateConstant    = "❌ Row index %d is not in the dataset."
	singleRowAuditingMessageTemplateConstant  = "🔍 Auditing a single row (%d)..."
	singleRowCompletedMessageTemplateConstant = "✅ Audit for row %d complete."
	reportSavedMessageTemplateConstant        = "\n✅ Audit complete! Report saved to: %s"
	unknownFailureMessageConstant             = "unknown error"
	lineTemplateConstant                      = "%s\n"
)

// ProgressFormatter builds human-readable messages for audit lifecycle events.
type ProgressFormatter struct{}

// BuildDatasetLoadingMessage formats the message announcing a dataset load.
func (formatter ProgressFormatter) BuildDatasetLoadingMessage(datasetPath string) string {
	return fmt.Sprintf(datasetLoadingMessageTemplateConstant, datasetPath)
}

// BuildDatasetLoadedMessage formats the message reporting the loaded row count.
func (formatter ProgressFormatter) BuildDatasetLoadedMessage(rowCount int) string {
	return fmt.Sprintf(datasetLoadedMessageTemplateConstant, rowCount)
}

// BuildDatasetMissingMessage formats the message for a dataset path that does not exist.
func (formatter ProgressFormatter) BuildDatasetMissingMessage(datasetPath string) string {
	return fmt.Sprintf(datasetMissingMessageTemplateConstant, datasetPath)
}

// BuildDatasetUnreadableMessage formats the message for a dataset that could not be parsed.
func (formatter ProgressFormatter) BuildDatasetUnreadableMessage(failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(datasetUnreadableMessageTemplateConstant, failureMessage)
}

// BuildRowAuditingMessage formats the message announcing a row audit.
func (formatter ProgressFormatter) BuildRowAuditingMessage(identifier string, display string) string {
	return fmt.Sprintf(rowAuditingMessageTemplateConstant, identifier, display)
}

// BuildRowSkippedMessage formats the message for a row without readings.
func (formatter ProgressFormatter) BuildRowSkippedMessage(identifier string) string {
	return fmt.Sprintf(rowSkippedMessageTemplateConstant, identifier)
}

// BuildRowIndexInvalidMessage formats the message for an index outside the dataset.
func (formatter ProgressFormatter) BuildRowIndexInvalidMessage(rowIndex int) string {
	return fmt.Sprintf(rowIndexInvalidMessageTemplateConstant, rowIndex)
}

// BuildSingleRowAuditingMessage formats the message announcing a single-row audit.
func (formatter ProgressFormatter) BuildSingleRowAuditingMessage(rowIndex int) string {
	return fmt.Sprintf(singleRowAuditingMessageTemplateConstant, rowIndex)
}

// BuildSingleRowCompletedMessage formats the message closing a single-row audit.
func (formatter ProgressFormatter) BuildSingleRowCompletedMessage(rowIndex int) string {
	return fmt.Sprintf(singleRowCompletedMessageTemplateConstant, rowIndex)
}

// BuildReportSavedMessage formats the message closing a full-file audit.
func (formatter ProgressFormatter) BuildReportSavedMessage(reportPath string) string {
	return fmt.Sprintf(reportSavedMessageTemplateConstant, reportPath)
}

// ConsoleProgressReporter prints progress to the output writer and failures to the error writer.
type ConsoleProgressReporter struct {
	outputWriter io.Writer
	errorWriter  io.Writer
	formatter    ProgressFormatter
}

// NewConsoleProgressReporter constructs a reporter. Nil writers discard their messages.
func NewConsoleProgressReporter(outputWriter io.Writer, errorWriter io.Writer) *ConsoleProgressReporter {
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if errorWriter == nil {
		errorWriter = io.Discard
	}
	return &ConsoleProgressReporter{outputWriter: outputWriter, errorWriter: errorWriter, formatter: ProgressFormatter{}}
}

// DatasetLoading announces a dataset load.
func (reporter *ConsoleProgressReporter) DatasetLoading(datasetPath string) {
	reporter.printOutput(reporter.formatter.BuildDatasetLoadingMessage(datasetPath))
}

// DatasetLoaded reports the loaded row count.
func (reporter *ConsoleProgressReporter) DatasetLoaded(rowCount int) {
	reporter.printOutput(reporter.formatter.BuildDatasetLoadedMessage(rowCount))
}

// DatasetMissing reports a dataset path that does not exist.
func (reporter *ConsoleProgressReporter) DatasetMissing(datasetPath string) {
	reporter.printError(reporter.formatter.BuildDatasetMissingMessage(datasetPath))
}

// DatasetUnreadable reports a dataset that could not be parsed.
func (reporter *ConsoleProgressReporter) DatasetUnreadable(failure error) {
	reporter.printError(reporter.formatter.BuildDatasetUnreadableMessage(failure))
}

// RowAuditing announces a row audit.
func (reporter *ConsoleProgressReporter) RowAuditing(identifier string, display string) {
	reporter.printOutput(reporter.formatter.BuildRowAuditingMessage(identifier, display))
}

// RowSkipped reports a row without readings.
func (reporter *ConsoleProgressReporter) RowSkipped(identifier string) {
	reporter.printOutput(reporter.formatter.BuildRowSkippedMessage(identifier))
}

// RowIndexInvalid reports an index outside the dataset.
func (reporter *ConsoleProgressReporter) RowIndexInvalid(rowIndex int) {
	reporter.printError(reporter.formatter.BuildRowIndexInvalidMessage(rowIndex))
}

// SingleRowAuditing announces a single-row audit.
func (reporter *ConsoleProgressReporter) SingleRowAuditing(rowIndex int) {
	reporter.printOutput(reporter.formatter.BuildSingleRowAuditingMessage(rowIndex))
}

// SingleRowCompleted closes a single-row audit.
func (reporter *ConsoleProgressReporter) SingleRowCompleted(rowIndex int) {
	reporter.printOutput(reporter.formatter.BuildSingleRowCompletedMessage(rowIndex))
}

// ReportSaved closes a full-file audit.
func (reporter *ConsoleProgressReporter) ReportSaved(reportPath string) {
	reporter.printOutput(reporter.formatter.BuildReportSavedMessage(reportPath))
}

func (reporter *ConsoleProgressReporter) printOutput(message string) {
	fmt.Fprintf(reporter.outputWriter, lineTemplateConstant, message)
}

func (reporter *ConsoleProgressReporter) printError(message string) {
	fmt.Fprintf(reporter.errorWriter, lineTemplateConstant, message)
}
