package audit

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/temirov/flashaudit/internal/completion"
	"github.com/temirov/flashaudit/internal/dataset"
)

// DatasetLoader reads a complete dataset from a path.
type DatasetLoader interface {
	Load(path string) (*dataset.Dataset, error)
}

// RowNormalizer converts raw rows into normalized rows.
type RowNormalizer interface {
	Normalize(row dataset.Row) dataset.NormalizedRow
}

// PromptFormatter renders a normalized row into a prompt.
type PromptFormatter interface {
	Format(row dataset.NormalizedRow) (string, error)
}

// CompletionClient submits prompts to the completion service.
type CompletionClient interface {
	Complete(executionContext context.Context, prompt string) completion.Result
}

// ResultPresenter writes a single audit result to the console.
type ResultPresenter interface {
	Present(writer io.Writer, text string) error
}

// ProgressReporter tells the operator how a run is progressing.
type ProgressReporter interface {
	DatasetLoading(datasetPath string)
	DatasetLoaded(rowCount int)
	DatasetMissing(datasetPath string)
	DatasetUnreadable(failure error)
	RowAuditing(identifier string, display string)
	RowSkipped(identifier string)
	RowIndexInvalid(rowIndex int)
	SingleRowAuditing(rowIndex int)
	SingleRowCompleted(rowIndex int)
	ReportSaved(reportPath string)
}

// FileSystem persists reports.
type FileSystem interface {
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// OSFileSystem writes files through the os package.
type OSFileSystem struct{}

// WriteFile writes data to path, creating or truncating it.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}
