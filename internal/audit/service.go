package audit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/flashaudit/internal/dataset"
	"github.com/temirov/flashaudit/internal/throttle"
	"github.com/temirov/flashaudit/internal/ui"
)

const (
	reportFilePermissionsConstant       = 0o644
	reportWriteErrorTemplateConstant    = "unable to write report %s: %w"
	pauseErrorTemplateConstant          = "audit interrupted after row %d: %w"
	presentErrorTemplateConstant        = "unable to print audit result: %w"
	missingLoaderMessageConstant        = "dataset loader not configured"
	missingFormatterMessageConstant     = "prompt formatter not configured"
	missingClientMessageConstant        = "completion client not configured"
	logMessageDatasetLoadFailedConstant = "dataset could not be loaded"
	logMessageDatasetLoadedConstant     = "dataset loaded"
	logMessageRowLookupFailedConstant   = "row index outside dataset"
	logMessageRowSkippedConstant        = "row skipped"
	logMessageRowAuditedConstant        = "row audited"
	logMessageCompletionFailedConstant  = "completion failed; recording error sentinel"
	logMessageReportWrittenConstant     = "report written"
	logMessageReportWriteFailedConstant = "report write failed"
	logMessagePromptFailedConstant      = "prompt rendering failed"
	logFieldDatasetConstant             = "dataset"
	logFieldReportConstant              = "report"
	logFieldRowIndexConstant            = "row_index"
	logFieldRowCountConstant            = "row_count"
	logFieldIdentifierConstant          = "kanji_id"
	logFieldSuccessConstant             = "success"
	logFieldStateConstant               = "state"
	logFieldAuditedRowsConstant         = "audited_rows"
	logFieldSkippedRowsConstant         = "skipped_rows"
	logFieldFailedCallsConstant         = "failed_calls"
	logFieldReportFormatConstant        = "report_format"
	logFieldReportBytesConstant         = "report_bytes"
	logFieldReadingColumnsConstant      = "reading_columns"
)

var (
	errMissingLoader    = errors.New(missingLoaderMessageConstant)
	errMissingFormatter = errors.New(missingFormatterMessageConstant)
	errMissingClient    = errors.New(missingClientMessageConstant)
)

// Dependencies groups the collaborators of a Service. Loader, Formatter, and Client are required.
type Dependencies struct {
	Loader     DatasetLoader
	Normalizer RowNormalizer
	Formatter  PromptFormatter
	Client     CompletionClient
	Throttle   throttle.Throttle
	FileSystem FileSystem
	Presenter  ResultPresenter
	Progress   ProgressReporter
	Logger     *zap.Logger
}

// Service runs single-row and full-file audits.
type Service struct {
	loader       DatasetLoader
	normalizer   RowNormalizer
	formatter    PromptFormatter
	client       CompletionClient
	throttle     throttle.Throttle
	fileSystem   FileSystem
	presenter    ResultPresenter
	progress     ProgressReporter
	logger       *zap.Logger
	outputWriter io.Writer
	errorWriter  io.Writer
}

// NewService constructs a Service. Optional dependencies fall back to production implementations.
func NewService(dependencies Dependencies, outputWriter io.Writer, errorWriter io.Writer) (*Service, error) {
	if dependencies.Loader == nil {
		return nil, errMissingLoader
	}
	if dependencies.Formatter == nil {
		return nil, errMissingFormatter
	}
	if dependencies.Client == nil {
		return nil, errMissingClient
	}

	service := &Service{
		loader:       dependencies.Loader,
		normalizer:   dependencies.Normalizer,
		formatter:    dependencies.Formatter,
		client:       dependencies.Client,
		throttle:     dependencies.Throttle,
		fileSystem:   dependencies.FileSystem,
		presenter:    dependencies.Presenter,
		progress:     dependencies.Progress,
		logger:       dependencies.Logger,
		outputWriter: outputWriter,
		errorWriter:  errorWriter,
	}
	if service.normalizer == nil {
		service.normalizer = dataset.NewNormalizer()
	}
	if service.throttle == nil {
		service.throttle = throttle.NewIntervalThrottle(throttle.DefaultInterval, nil)
	}
	if service.fileSystem == nil {
		service.fileSystem = OSFileSystem{}
	}
	if service.presenter == nil {
		service.presenter = PlainPresenter{}
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	if service.outputWriter == nil {
		service.outputWriter = io.Discard
	}
	if service.errorWriter == nil {
		service.errorWriter = io.Discard
	}
	if service.progress == nil {
		service.progress = ui.NewConsoleProgressReporter(service.outputWriter, service.errorWriter)
	}
	return service, nil
}

// AuditRow audits the row at options.RowIndex and prints the result. Dataset and lookup failures are
// reported to the error writer and end the run without an error.
func (service *Service) AuditRow(executionContext context.Context, options RowOptions) (RunSummary, error) {
	summary := RunSummary{State: RunStateLoading}

	loadedDataset, loaded := service.loadDataset(options.DatasetPath)
	if !loaded {
		summary.State = RunStateFailed
		return summary, nil
	}
	summary.RowCount = loadedDataset.Len()

	row, lookupError := loadedDataset.Row(options.RowIndex)
	if lookupError != nil {
		service.progress.RowIndexInvalid(options.RowIndex)
		service.logger.Error(logMessageRowLookupFailedConstant,
			zap.Int(logFieldRowIndexConstant, options.RowIndex),
			zap.Int(logFieldRowCountConstant, summary.RowCount),
			zap.Error(lookupError),
		)
		summary.State = RunStateFailed
		return summary, nil
	}

	summary.State = RunStateIterating
	service.progress.SingleRowAuditing(options.RowIndex)

	renderedResult, successful, auditError := service.auditRow(executionContext, service.normalizer.Normalize(row))
	if auditError != nil {
		summary.State = RunStateFailed
		return summary, auditError
	}
	summary.AuditedRows = 1
	if !successful {
		summary.FailedCalls = 1
	}

	if presentError := service.presenter.Present(service.outputWriter, renderedResult); presentError != nil {
		summary.State = RunStateFailed
		return summary, fmt.Errorf(presentErrorTemplateConstant, presentError)
	}
	service.progress.SingleRowCompleted(options.RowIndex)

	summary.State = RunStateDone
	return summary, nil
}

// AuditFile audits every row of the dataset, skipping rows whose reading columns are all missing,
// and writes the collected results to options.ReportPath in a single write.
func (service *Service) AuditFile(executionContext context.Context, options FileOptions) (RunSummary, error) {
	summary := RunSummary{State: RunStateLoading, ReportPath: options.ReportPath}
	readingColumns := options.ReadingColumns
	if len(readingColumns) == 0 {
		readingColumns = DefaultReadingColumns
	}

	loadedDataset, loaded := service.loadDataset(options.DatasetPath)
	if !loaded {
		summary.State = RunStateFailed
		return summary, nil
	}
	summary.RowCount = loadedDataset.Len()
	service.progress.DatasetLoaded(summary.RowCount)

	summary.State = RunStateIterating
	report := NewReport()
	for _, row := range loadedDataset.Rows() {
		normalizedRow := service.normalizer.Normalize(row)
		identifier, display := normalizedRow.Identifier()
		service.progress.RowAuditing(identifier, display)

		if normalizedRow.AllMissing(readingColumns) {
			service.progress.RowSkipped(identifier)
			service.logger.Debug(logMessageRowSkippedConstant,
				zap.Int(logFieldRowIndexConstant, row.Position()),
				zap.String(logFieldIdentifierConstant, identifier),
				zap.Strings(logFieldReadingColumnsConstant, readingColumns),
			)
			summary.SkippedRows++
			continue
		}

		renderedResult, successful, auditError := service.auditRow(executionContext, normalizedRow)
		if auditError != nil {
			summary.State = RunStateFailed
			return summary, auditError
		}
		report.Append(renderedResult)
		summary.AuditedRows++
		if !successful {
			summary.FailedCalls++
		}

		if pauseError := service.throttle.Pause(executionContext); pauseError != nil {
			summary.State = RunStateFailed
			return summary, fmt.Errorf(pauseErrorTemplateConstant, row.Position(), pauseError)
		}
	}

	summary.State = RunStateWriting
	document := report.Render(options.ReportFormat)
	if writeError := service.fileSystem.WriteFile(options.ReportPath, []byte(document), reportFilePermissionsConstant); writeError != nil {
		service.logger.Error(logMessageReportWriteFailedConstant,
			zap.String(logFieldReportConstant, options.ReportPath),
			zap.Error(writeError),
		)
		summary.State = RunStateFailed
		return summary, fmt.Errorf(reportWriteErrorTemplateConstant, options.ReportPath, writeError)
	}
	summary.ReportLength = len(document)

	summary.State = RunStateDone
	service.logger.Info(logMessageReportWrittenConstant,
		zap.String(logFieldReportConstant, options.ReportPath),
		zap.String(logFieldReportFormatConstant, string(options.ReportFormat)),
		zap.Int(logFieldReportBytesConstant, summary.ReportLength),
		zap.Int(logFieldAuditedRowsConstant, summary.AuditedRows),
		zap.Int(logFieldSkippedRowsConstant, summary.SkippedRows),
		zap.Int(logFieldFailedCallsConstant, summary.FailedCalls),
		zap.String(logFieldStateConstant, string(summary.State)),
	)
	service.progress.ReportSaved(options.ReportPath)
	return summary, nil
}

func (service *Service) loadDataset(datasetPath string) (*dataset.Dataset, bool) {
	service.progress.DatasetLoading(datasetPath)

	loadedDataset, loadError := service.loader.Load(datasetPath)
	if loadError != nil {
		if errors.Is(loadError, dataset.ErrDatasetNotFound) {
			service.progress.DatasetMissing(datasetPath)
		} else {
			service.progress.DatasetUnreadable(loadError)
		}
		service.logger.Error(logMessageDatasetLoadFailedConstant,
			zap.String(logFieldDatasetConstant, datasetPath),
			zap.Error(loadError),
		)
		return nil, false
	}

	service.logger.Info(logMessageDatasetLoadedConstant,
		zap.String(logFieldDatasetConstant, datasetPath),
		zap.Int(logFieldRowCountConstant, loadedDataset.Len()),
	)
	return loadedDataset, true
}

func (service *Service) auditRow(executionContext context.Context, normalizedRow dataset.NormalizedRow) (string, bool, error) {
	identifier, _ := normalizedRow.Identifier()

	renderedPrompt, formatError := service.formatter.Format(normalizedRow)
	if formatError != nil {
		service.logger.Error(logMessagePromptFailedConstant,
			zap.Int(logFieldRowIndexConstant, normalizedRow.Position),
			zap.String(logFieldIdentifierConstant, identifier),
			zap.Error(formatError),
		)
		return "", false, formatError
	}

	result := service.client.Complete(executionContext, renderedPrompt)
	if !result.Successful() {
		service.logger.Warn(logMessageCompletionFailedConstant,
			zap.Int(logFieldRowIndexConstant, normalizedRow.Position),
			zap.String(logFieldIdentifierConstant, identifier),
			zap.Error(result.Failure()),
		)
	} else {
		service.logger.Debug(logMessageRowAuditedConstant,
			zap.Int(logFieldRowIndexConstant, normalizedRow.Position),
			zap.String(logFieldIdentifierConstant, identifier),
			zap.Bool(logFieldSuccessConstant, true),
		)
	}
	return result.Render(), result.Successful(), nil
}
