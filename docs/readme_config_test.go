package docs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/flashaudit/cmd/cli"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	configurationTypeConstant        = "yaml"
	readmeSnippetTestNameConstant    = "readme_audit_configuration"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	unexpectedSectionMessageTemplate = "unexpected top-level section %s"
)

var expectedTopLevelSections = map[string]struct{}{
	"common": {},
	"tools":  {},
}

func TestReadmeAuditConfigurationParses(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	testCases := []struct {
		name          string
		configuration string
	}{
		{
			name:          readmeSnippetTestNameConstant,
			configuration: snippetContent,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			var document map[string]any
			require.NoError(subtest, yaml.Unmarshal([]byte(testCase.configuration), &document))
			for sectionName := range document {
				_, expected := expectedTopLevelSections[sectionName]
				require.Truef(subtest, expected, unexpectedSectionMessageTemplate, sectionName)
			}

			viperInstance := viper.New()
			viperInstance.SetConfigType(configurationTypeConstant)
			require.NoError(subtest, viperInstance.ReadConfig(bytes.NewReader([]byte(testCase.configuration))))

			var applicationConfiguration cli.ApplicationConfiguration
			require.NoError(subtest, viperInstance.Unmarshal(&applicationConfiguration))

			auditConfiguration := applicationConfiguration.Tools.Audit
			require.Equal(subtest, "console", applicationConfiguration.Common.LogFormat)
			require.Equal(subtest, "./data/raw/kunyomiKanjiListNew.csv", auditConfiguration.Dataset)
			require.Equal(subtest, []string{"kunyomiReadingOne", "kunyomiReadingTwo", "kunyomiReadingThree"}, auditConfiguration.ReadingColumns)
			require.Equal(subtest, time.Second, auditConfiguration.Interval)
			require.Equal(subtest, 2*time.Minute, auditConfiguration.Service.Timeout)
			require.Equal(subtest, "DeepSeek-V3-0324", auditConfiguration.Service.Model)
			require.InDelta(subtest, 0.2, auditConfiguration.Service.Temperature, 1e-9)
			require.Equal(subtest, 1024, auditConfiguration.Service.MaxTokens)
		})
	}
}

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}
