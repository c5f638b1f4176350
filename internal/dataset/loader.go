package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	tsvExtensionConstant               = ".tsv"
	xlsxExtensionConstant              = ".xlsx"
	utf8ByteOrderMarkConstant          = "\uFEFF"
	tabDelimiterAliasConstant          = "tab"
	escapedTabDelimiterAliasConstant   = `\t`
	datasetOpenErrorTemplateConstant   = "unable to open dataset %s: %w"
	datasetParseErrorTemplateConstant  = "unable to parse dataset %s: %w"
	workbookSheetErrorTemplateConstant = "unable to read sheet %q of %s: %w"
	workbookEmptyErrorTemplateConstant = "workbook %s has no sheets"
	headerMissingErrorTemplateConstant = "dataset %s has no header row"
	duplicateColumnErrorTemplate       = "dataset %s repeats column %q"
	blankColumnErrorTemplateConstant   = "dataset %s has a blank column name at position %d"
	recordWidthErrorTemplateConstant   = "record %d has %d fields but the header has %d"
	invalidDelimiterErrorTemplate      = "delimiter %q must be a single character"
	datasetNotFoundErrorTemplate       = "%w: %s"
)

// ErrDatasetNotFound reports that the dataset path does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// LoaderOptions tunes how dataset files are parsed.
type LoaderOptions struct {
	// Delimiter overrides the delimiter derived from the file extension. Accepts a single
	// character, "tab", or `\t`.
	Delimiter string
	// SheetName selects the workbook sheet; the first sheet is used when blank.
	SheetName string
}

// FileLoader reads datasets from delimited text files and XLSX workbooks.
type FileLoader struct {
	options LoaderOptions
}

// NewFileLoader constructs a FileLoader with the provided options.
func NewFileLoader(options LoaderOptions) *FileLoader {
	return &FileLoader{options: options}
}

// Load reads the complete dataset at path. Missing files yield an error wrapping ErrDatasetNotFound.
func (loader *FileLoader) Load(path string) (*Dataset, error) {
	if _, statError := os.Stat(path); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, fmt.Errorf(datasetNotFoundErrorTemplate, ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf(datasetOpenErrorTemplateConstant, path, statError)
	}

	var (
		header    []string
		records   [][]string
		readError error
	)
	if strings.EqualFold(filepath.Ext(path), xlsxExtensionConstant) {
		header, records, readError = loader.readWorkbook(path)
	} else {
		header, records, readError = loader.readDelimited(path)
	}
	if readError != nil {
		return nil, readError
	}

	columns, columnsError := normalizeHeader(path, header)
	if columnsError != nil {
		return nil, columnsError
	}

	for recordIndex, record := range records {
		if len(record) > len(columns) {
			return nil, fmt.Errorf(datasetParseErrorTemplateConstant, path, fmt.Errorf(recordWidthErrorTemplateConstant, recordIndex, len(record), len(columns)))
		}
	}

	return NewDataset(path, columns, records), nil
}

func (loader *FileLoader) readDelimited(path string) ([]string, [][]string, error) {
	delimiter, delimiterError := loader.resolveDelimiter(path)
	if delimiterError != nil {
		return nil, nil, delimiterError
	}

	file, openError := os.Open(path)
	if openError != nil {
		return nil, nil, fmt.Errorf(datasetOpenErrorTemplateConstant, path, openError)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, headerError := reader.Read()
	if headerError != nil {
		if errors.Is(headerError, io.EOF) {
			return nil, nil, fmt.Errorf(headerMissingErrorTemplateConstant, path)
		}
		return nil, nil, fmt.Errorf(datasetParseErrorTemplateConstant, path, headerError)
	}

	records, recordsError := reader.ReadAll()
	if recordsError != nil {
		return nil, nil, fmt.Errorf(datasetParseErrorTemplateConstant, path, recordsError)
	}

	return header, records, nil
}

func (loader *FileLoader) readWorkbook(path string) ([]string, [][]string, error) {
	workbook, openError := excelize.OpenFile(path)
	if openError != nil {
		return nil, nil, fmt.Errorf(datasetOpenErrorTemplateConstant, path, openError)
	}
	defer workbook.Close()

	sheetName := strings.TrimSpace(loader.options.SheetName)
	if len(sheetName) == 0 {
		sheetNames := workbook.GetSheetList()
		if len(sheetNames) == 0 {
			return nil, nil, fmt.Errorf(workbookEmptyErrorTemplateConstant, path)
		}
		sheetName = sheetNames[0]
	}

	rows, rowsError := workbook.GetRows(sheetName)
	if rowsError != nil {
		return nil, nil, fmt.Errorf(workbookSheetErrorTemplateConstant, sheetName, path, rowsError)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf(headerMissingErrorTemplateConstant, path)
	}

	return rows[0], rows[1:], nil
}

func (loader *FileLoader) resolveDelimiter(path string) (rune, error) {
	configuredDelimiter := loader.options.Delimiter
	if configuredDelimiter == "\t" {
		return '\t', nil
	}

	trimmedDelimiter := strings.TrimSpace(configuredDelimiter)
	switch strings.ToLower(trimmedDelimiter) {
	case "":
		if strings.EqualFold(filepath.Ext(path), tsvExtensionConstant) {
			return '\t', nil
		}
		return ',', nil
	case tabDelimiterAliasConstant, escapedTabDelimiterAliasConstant:
		return '\t', nil
	}

	if utf8.RuneCountInString(trimmedDelimiter) != 1 {
		return 0, fmt.Errorf(invalidDelimiterErrorTemplate, configuredDelimiter)
	}
	delimiter, _ := utf8.DecodeRuneInString(trimmedDelimiter)
	return delimiter, nil
}

func normalizeHeader(path string, header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf(headerMissingErrorTemplateConstant, path)
	}

	columns := make([]string, 0, len(header))
	seenColumns := make(map[string]struct{}, len(header))
	for columnIndex, rawColumn := range header {
		if columnIndex == 0 {
			rawColumn = strings.TrimPrefix(rawColumn, utf8ByteOrderMarkConstant)
		}
		column := strings.TrimSpace(rawColumn)
		if len(column) == 0 {
			return nil, fmt.Errorf(blankColumnErrorTemplateConstant, path, columnIndex)
		}
		if _, duplicate := seenColumns[column]; duplicate {
			return nil, fmt.Errorf(duplicateColumnErrorTemplate, path, column)
		}
		seenColumns[column] = struct{}{}
		columns = append(columns, column)
	}
	return columns, nil
}
