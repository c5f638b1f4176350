package dataset

import "strings"

// defaultNullLiterals mirrors the cell texts that tabular readers conventionally treat as null.
var defaultNullLiterals = []string{
	"",
	"#N/A",
	"#N/A N/A",
	"#NA",
	"-1.#IND",
	"-1.#QNAN",
	"-NaN",
	"-nan",
	"1.#IND",
	"1.#QNAN",
	"<NA>",
	"N/A",
	"NA",
	"NULL",
	"NaN",
	"None",
	"n/a",
	"nan",
	"null",
}

// Normalizer converts raw rows into normalized rows.
type Normalizer struct {
	nullLiterals map[string]struct{}
}

// NewNormalizer constructs a Normalizer recognizing the conventional null literals.
func NewNormalizer() Normalizer {
	return NewNormalizerWithNullLiterals(defaultNullLiterals)
}

// NewNormalizerWithNullLiterals constructs a Normalizer recognizing the supplied null literals.
// The empty string is always treated as null.
func NewNormalizerWithNullLiterals(nullLiterals []string) Normalizer {
	literalSet := make(map[string]struct{}, len(nullLiterals)+1)
	literalSet[""] = struct{}{}
	for _, literal := range nullLiterals {
		literalSet[strings.TrimSpace(literal)] = struct{}{}
	}
	return Normalizer{nullLiterals: literalSet}
}

// Normalize maps every column of the row to its trimmed value, substituting MissingValueMarker
// for absent cells and null literals.
func (normalizer Normalizer) Normalize(row Row) NormalizedRow {
	columns := row.columns
	fields := make([]Field, 0, len(columns))
	for _, column := range columns {
		fields = append(fields, Field{Name: column, Value: normalizer.normalizeValue(row.Value(column))})
	}
	return NormalizedRow{Position: row.position, Fields: fields}
}

func (normalizer Normalizer) normalizeValue(rawValue string, present bool) string {
	if !present {
		return MissingValueMarker
	}
	trimmedValue := strings.TrimSpace(rawValue)
	if _, isNull := normalizer.nullLiterals[trimmedValue]; isNull {
		return MissingValueMarker
	}
	return trimmedValue
}
