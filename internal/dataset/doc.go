// Package dataset loads flashcard datasets into memory and normalizes their rows.
//
// A Dataset is read in full from a delimited text file (CSV or TSV) or from an
// XLSX workbook. Rows keep the header's column order; Normalizer turns a Row
// into a NormalizedRow where every column carries a trimmed string or the
// MissingValueMarker.
package dataset
