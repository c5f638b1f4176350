package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/temirov/flashaudit/internal/dataset"
)

const (
	// RowDataKey names the template value holding the rendered field block.
	RowDataKey = "row_data"

	emptyTemplateMessageConstant   = "prompt template is empty"
	templateNameConstant           = "audit_prompt"
	missingKeyOptionConstant       = "missingkey=error"
	fieldLineTemplateConstant      = "%s: %s"
	fieldLineSeparatorConstant     = "\n"
	templateParseErrorTemplate     = "unable to parse prompt template: %w"
	templateExecutionErrorTemplate = "unable to render prompt for row %d: %w"
	templateFileReadErrorTemplate  = "unable to read prompt template %s: %w"
	emptyTemplateFileErrorTemplate = "prompt template %s: %w"
)

// ErrEmptyTemplate reports a blank prompt template.
var ErrEmptyTemplate = errors.New(emptyTemplateMessageConstant)

//go:embed audit_prompt.tmpl
var defaultTemplateText string

// DefaultTemplate returns the embedded audit prompt template.
func DefaultTemplate() string {
	return defaultTemplateText
}

// Formatter renders prompts from a parsed template.
type Formatter struct {
	template *template.Template
}

// NewFormatter parses templateText. Rendering fails when the template references a value the row cannot supply.
func NewFormatter(templateText string) (*Formatter, error) {
	if len(strings.TrimSpace(templateText)) == 0 {
		return nil, fmt.Errorf(templateParseErrorTemplate, ErrEmptyTemplate)
	}

	parsedTemplate, parseError := template.New(templateNameConstant).Option(missingKeyOptionConstant).Parse(templateText)
	if parseError != nil {
		return nil, fmt.Errorf(templateParseErrorTemplate, parseError)
	}
	return &Formatter{template: parsedTemplate}, nil
}

// DefaultFormatter returns a Formatter for the embedded template.
func DefaultFormatter() (*Formatter, error) {
	return NewFormatter(defaultTemplateText)
}

// LoadFormatter parses the template stored at templatePath, or the embedded template when the path is blank.
func LoadFormatter(templatePath string) (*Formatter, error) {
	trimmedPath := strings.TrimSpace(templatePath)
	if len(trimmedPath) == 0 {
		return DefaultFormatter()
	}

	templateBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(templateFileReadErrorTemplate, trimmedPath, readError)
	}
	if len(strings.TrimSpace(string(templateBytes))) == 0 {
		return nil, fmt.Errorf(emptyTemplateFileErrorTemplate, trimmedPath, ErrEmptyTemplate)
	}
	return NewFormatter(string(templateBytes))
}

// Format renders the prompt for a normalized row.
func (formatter *Formatter) Format(row dataset.NormalizedRow) (string, error) {
	var builder strings.Builder
	if executionError := formatter.template.Execute(&builder, templateData(row)); executionError != nil {
		return "", fmt.Errorf(templateExecutionErrorTemplate, row.Position, executionError)
	}
	return builder.String(), nil
}

// FormatFieldBlock renders the row as "column: value" lines in column order.
func FormatFieldBlock(row dataset.NormalizedRow) string {
	lines := make([]string, 0, len(row.Fields))
	for _, field := range row.Fields {
		lines = append(lines, fmt.Sprintf(fieldLineTemplateConstant, field.Name, field.Value))
	}
	return strings.Join(lines, fieldLineSeparatorConstant)
}

func templateData(row dataset.NormalizedRow) map[string]string {
	data := make(map[string]string, len(row.Fields)+1)
	for _, field := range row.Fields {
		data[field.Name] = field.Value
	}
	identifier, display := row.Identifier()
	data[dataset.IdentifierColumn] = identifier
	data[dataset.DisplayColumn] = display
	data[RowDataKey] = FormatFieldBlock(row)
	return data
}
