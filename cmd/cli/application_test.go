package cli_test

import (
	"bytes"
	"testing"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/flashaudit/cmd/cli"
	"github.com/temirov/flashaudit/internal/audit"
)

const (
	testCommonSectionKeyConstant = "common"
	testToolsSectionKeyConstant  = "tools"
	testAuditSectionKeyConstant  = "audit"
)

func TestEmbeddedDefaultConfigurationMatchesAuditDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, audit.DefaultCommandConfiguration(), configuration.Tools.Audit)
}

func TestEmbeddedDefaultConfigurationDecodesWithMapstructure(testInstance *testing.T) {
	configurationData, _ := cli.EmbeddedDefaultConfiguration()

	var document map[string]any
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &document))
	require.Contains(testInstance, document, testCommonSectionKeyConstant)
	require.Contains(testInstance, document, testToolsSectionKeyConstant)

	toolsSection, toolsIsMap := document[testToolsSectionKeyConstant].(map[string]any)
	require.True(testInstance, toolsIsMap)
	auditSection, auditIsMap := toolsSection[testAuditSectionKeyConstant].(map[string]any)
	require.True(testInstance, auditIsMap)

	var configuration audit.CommandConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &configuration,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(auditSection))

	require.Equal(testInstance, time.Second, configuration.Interval)
	require.Equal(testInstance, 2*time.Minute, configuration.Service.Timeout)
	require.Equal(testInstance, "env:API_KEY", configuration.Service.TokenSource)
	require.Equal(testInstance, []string{"onyomiReadingOne", "onyomiReadingTwo", "onyomiReadingThree"}, configuration.ReadingColumns)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, firstCopy)
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
}
