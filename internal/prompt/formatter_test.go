package prompt_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/flashaudit/internal/dataset"
	"github.com/temirov/flashaudit/internal/prompt"
)

const testSubtestNameTemplateConstant = "%d_%s"

func newNormalizedRow(columns []string, cells []string) dataset.NormalizedRow {
	return dataset.NewNormalizer().Normalize(dataset.NewRow(0, columns, cells))
}

func TestFormatFieldBlock(testInstance *testing.T) {
	testCases := []struct {
		name          string
		columns       []string
		cells         []string
		expectedBlock string
	}{
		{
			name:          "column_order_preserved",
			columns:       []string{"kanjiID", "kanji", "onyomiReadingOne"},
			cells:         []string{"442", "氏", "シ"},
			expectedBlock: "kanjiID: 442\nkanji: 氏\nonyomiReadingOne: シ",
		},
		{
			name:          "missing_values_rendered_as_none",
			columns:       []string{"kanjiID", "meaning"},
			cells:         []string{"7"},
			expectedBlock: "kanjiID: 7\nmeaning: None",
		},
		{
			name:          "no_columns",
			expectedBlock: "",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedBlock, prompt.FormatFieldBlock(newNormalizedRow(testCase.columns, testCase.cells)))
		})
	}
}

func TestFormatterFormat(testInstance *testing.T) {
	testCases := []struct {
		name           string
		templateText   string
		columns        []string
		cells          []string
		expectedPrompt string
		expectError    bool
	}{
		{
			name:           "row_data_and_identifiers",
			templateText:   "Row {{.kanjiID}} ({{.kanji}})\n{{.row_data}}",
			columns:        []string{"kanjiID", "kanji"},
			cells:          []string{"442", "氏"},
			expectedPrompt: "Row 442 (氏)\nkanjiID: 442\nkanji: 氏",
		},
		{
			name:           "identifier_defaults",
			templateText:   "{{.kanjiID}}/{{.kanji}}",
			columns:        []string{"meaning"},
			cells:          []string{"clan"},
			expectedPrompt: "Unknown/N/A",
		},
		{
			name:           "arbitrary_column_reference",
			templateText:   "reading={{.onyomiReadingOne}}",
			columns:        []string{"onyomiReadingOne"},
			cells:          []string{""},
			expectedPrompt: "reading=None",
		},
		{
			name:         "unknown_column_reference",
			templateText: "{{.kunyomiReadingOne}}",
			columns:      []string{"kanjiID"},
			cells:        []string{"1"},
			expectError:  true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			formatter, formatterError := prompt.NewFormatter(testCase.templateText)
			require.NoError(testInstance, formatterError)

			renderedPrompt, formatError := formatter.Format(newNormalizedRow(testCase.columns, testCase.cells))
			if testCase.expectError {
				require.Error(testInstance, formatError)
				return
			}
			require.NoError(testInstance, formatError)
			require.Equal(testInstance, testCase.expectedPrompt, renderedPrompt)
		})
	}
}

func TestFormatterIsDeterministic(testInstance *testing.T) {
	formatter, formatterError := prompt.DefaultFormatter()
	require.NoError(testInstance, formatterError)

	row := newNormalizedRow([]string{"kanjiID", "kanji", "onyomiReadingOne"}, []string{"442", "氏", "シ"})
	firstPrompt, firstError := formatter.Format(row)
	require.NoError(testInstance, firstError)
	secondPrompt, secondError := formatter.Format(row)
	require.NoError(testInstance, secondError)

	require.Equal(testInstance, firstPrompt, secondPrompt)
	require.Contains(testInstance, firstPrompt, "Row 442: 氏")
	require.Contains(testInstance, firstPrompt, "kanjiID: 442\nkanji: 氏\nonyomiReadingOne: シ")
	require.True(testInstance, strings.HasPrefix(firstPrompt, "## **Flashcard Audit Prompt"))
}

func TestNewFormatterRejectsInvalidTemplates(testInstance *testing.T) {
	_, emptyError := prompt.NewFormatter("  \n ")
	require.True(testInstance, errors.Is(emptyError, prompt.ErrEmptyTemplate))

	_, syntaxError := prompt.NewFormatter("{{.row_data")
	require.Error(testInstance, syntaxError)
}

func TestLoadFormatter(testInstance *testing.T) {
	defaultFormatter, defaultError := prompt.LoadFormatter(" ")
	require.NoError(testInstance, defaultError)
	require.NotNil(testInstance, defaultFormatter)

	templateDirectory := testInstance.TempDir()
	customTemplatePath := filepath.Join(templateDirectory, "custom.tmpl")
	require.NoError(testInstance, os.WriteFile(customTemplatePath, []byte("Audit {{.kanji}}"), 0o600))

	customFormatter, customError := prompt.LoadFormatter(customTemplatePath)
	require.NoError(testInstance, customError)
	renderedPrompt, formatError := customFormatter.Format(newNormalizedRow([]string{"kanji"}, []string{"民"}))
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, "Audit 民", renderedPrompt)

	blankTemplatePath := filepath.Join(templateDirectory, "blank.tmpl")
	require.NoError(testInstance, os.WriteFile(blankTemplatePath, []byte("\n"), 0o600))
	_, blankError := prompt.LoadFormatter(blankTemplatePath)
	require.ErrorIs(testInstance, blankError, prompt.ErrEmptyTemplate)

	_, missingError := prompt.LoadFormatter(filepath.Join(templateDirectory, "absent.tmpl"))
	require.Error(testInstance, missingError)
}
