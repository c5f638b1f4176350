package dataset

import "fmt"

const (
	// MissingValueMarker replaces absent, empty, and null-equivalent cell values after normalization.
	MissingValueMarker = "None"
	// IdentifierColumn names the column holding the flashcard identifier.
	IdentifierColumn = "kanjiID"
	// DisplayColumn names the column holding the character under audit.
	DisplayColumn = "kanji"
	// UnknownIdentifierLabel labels rows without an identifier column.
	UnknownIdentifierLabel = "Unknown"
	// UnknownDisplayLabel labels rows without a display column.
	UnknownDisplayLabel = "N/A"

	rowIndexErrorTemplateConstant = "row index %d is not in the dataset (rows: %d)"
)

// Row is one record of the source dataset keyed by column name.
// Cells missing from a short record are reported as absent.
type Row struct {
	position int
	columns  []string
	values   map[string]string
}

// NewRow builds a Row at the given zero-based position from the header columns and the record cells.
func NewRow(position int, columns []string, cells []string) Row {
	values := make(map[string]string, len(cells))
	for cellIndex, cell := range cells {
		if cellIndex >= len(columns) {
			break
		}
		values[columns[cellIndex]] = cell
	}
	return Row{position: position, columns: columns, values: values}
}

// Position reports the zero-based position of the row within its dataset.
func (row Row) Position() int {
	return row.position
}

// Columns returns the column names in header order.
func (row Row) Columns() []string {
	duplicatedColumns := make([]string, len(row.columns))
	copy(duplicatedColumns, row.columns)
	return duplicatedColumns
}

// Value returns the raw cell value for the column and whether the record supplied it.
func (row Row) Value(column string) (string, bool) {
	value, present := row.values[column]
	return value, present
}

// Field is a single normalized column value.
type Field struct {
	Name  string
	Value string
}

// NormalizedRow maps every column of a Row to a non-empty string in header order.
type NormalizedRow struct {
	Position int
	Fields   []Field
}

// Value returns the normalized value of the column and whether the column exists.
func (row NormalizedRow) Value(column string) (string, bool) {
	for _, field := range row.Fields {
		if field.Name == column {
			return field.Value, true
		}
	}
	return "", false
}

// ValueOrDefault returns the normalized value of the column, or fallback when the column does not exist.
func (row NormalizedRow) ValueOrDefault(column string, fallback string) string {
	if value, exists := row.Value(column); exists {
		return value
	}
	return fallback
}

// Identifier returns the flashcard identifier and display character used to label the row.
func (row NormalizedRow) Identifier() (string, string) {
	return row.ValueOrDefault(IdentifierColumn, UnknownIdentifierLabel), row.ValueOrDefault(DisplayColumn, UnknownDisplayLabel)
}

// AllMissing reports whether every listed column normalizes to MissingValueMarker.
// Columns absent from the row count as missing. An empty column list is never all missing.
func (row NormalizedRow) AllMissing(columns []string) bool {
	if len(columns) == 0 {
		return false
	}
	for _, column := range columns {
		if row.ValueOrDefault(column, MissingValueMarker) != MissingValueMarker {
			return false
		}
	}
	return true
}

// Dataset is a fully loaded table of rows addressed by zero-based position.
type Dataset struct {
	Source  string
	Columns []string
	rows    []Row
}

// NewDataset assembles a dataset from its header and data records.
func NewDataset(source string, columns []string, records [][]string) *Dataset {
	rows := make([]Row, 0, len(records))
	for recordIndex, record := range records {
		rows = append(rows, NewRow(recordIndex, columns, record))
	}
	return &Dataset{Source: source, Columns: columns, rows: rows}
}

// Len reports the number of data rows.
func (dataset *Dataset) Len() int {
	return len(dataset.rows)
}

// Rows returns the rows in their original order.
func (dataset *Dataset) Rows() []Row {
	duplicatedRows := make([]Row, len(dataset.rows))
	copy(duplicatedRows, dataset.rows)
	return duplicatedRows
}

// Row returns the row at the zero-based index or a RowIndexError.
func (dataset *Dataset) Row(index int) (Row, error) {
	if index < 0 || index >= len(dataset.rows) {
		return Row{}, RowIndexError{Index: index, RowCount: len(dataset.rows)}
	}
	return dataset.rows[index], nil
}

// RowIndexError reports a lookup outside the dataset bounds.
type RowIndexError struct {
	Index    int
	RowCount int
}

// Error describes the failed lookup.
func (indexError RowIndexError) Error() string {
	return fmt.Sprintf(rowIndexErrorTemplateConstant, indexError.Index, indexError.RowCount)
}
