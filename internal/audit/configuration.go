package audit

import (
	"strings"
	"time"

	"github.com/temirov/flashaudit/internal/completion"
	"github.com/temirov/flashaudit/internal/throttle"
)

const (
	defaultDatasetPathConstant     = "./data/raw/kunyomiKanjiListNew.csv"
	defaultReportPathConstant      = "audit_report.md"
	defaultTokenSourceConstant     = "env:API_KEY"
	defaultPresenterStyleConstant  = AutoPresenterStyle
	readingColumnOneConstant       = "onyomiReadingOne"
	readingColumnTwoConstant       = "onyomiReadingTwo"
	readingColumnThreeConstant     = "onyomiReadingThree"
	configurationKeyDataset        = "dataset"
	configurationKeyReport         = "report"
	configurationKeyReportFormat   = "report_format"
	configurationKeyRenderMarkdown = "render_markdown"
	configurationKeyRenderStyle    = "render_style"
	configurationKeyReadingColumns = "reading_columns"
	configurationKeyPromptTemplate = "prompt_template"
	configurationKeyDelimiter      = "delimiter"
	configurationKeySheet          = "sheet"
	configurationKeyInterval       = "interval"
	configurationKeyServiceBaseURL = "service.base_url"
	configurationKeyServiceModel   = "service.model"
	configurationKeyServiceTemp    = "service.temperature"
	configurationKeyServiceTokens  = "service.max_tokens"
	configurationKeyServiceToken   = "service.token_source"
	configurationKeyServiceTimeout = "service.timeout"
)

// DefaultReadingColumns lists the columns whose uniform absence skips a row.
var DefaultReadingColumns = []string{readingColumnOneConstant, readingColumnTwoConstant, readingColumnThreeConstant}

// ServiceConfiguration describes the completion endpoint.
type ServiceConfiguration struct {
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	TokenSource string        `mapstructure:"token_source"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	Dataset        string               `mapstructure:"dataset"`
	Report         string               `mapstructure:"report"`
	ReportFormat   string               `mapstructure:"report_format"`
	RenderMarkdown bool                 `mapstructure:"render_markdown"`
	RenderStyle    string               `mapstructure:"render_style"`
	ReadingColumns []string             `mapstructure:"reading_columns"`
	PromptTemplate string               `mapstructure:"prompt_template"`
	Delimiter      string               `mapstructure:"delimiter"`
	Sheet          string               `mapstructure:"sheet"`
	Interval       time.Duration        `mapstructure:"interval"`
	Service        ServiceConfiguration `mapstructure:"service"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Dataset:        defaultDatasetPathConstant,
		Report:         defaultReportPathConstant,
		ReportFormat:   string(ReportFormatMarkdown),
		RenderMarkdown: false,
		RenderStyle:    defaultPresenterStyleConstant,
		ReadingColumns: append([]string{}, DefaultReadingColumns...),
		PromptTemplate: "",
		Delimiter:      "",
		Sheet:          "",
		Interval:       throttle.DefaultInterval,
		Service: ServiceConfiguration{
			BaseURL:     completion.DefaultBaseURL,
			Model:       completion.DefaultModel,
			Temperature: completion.DefaultTemperature,
			MaxTokens:   completion.DefaultMaxTokens,
			TokenSource: defaultTokenSourceConstant,
			Timeout:     completion.DefaultTimeout,
		},
	}
}

// DefaultConfigurationValues flattens DefaultCommandConfiguration into configuration keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	values := map[string]any{
		configurationKeyDataset:        defaults.Dataset,
		configurationKeyReport:         defaults.Report,
		configurationKeyReportFormat:   defaults.ReportFormat,
		configurationKeyRenderMarkdown: defaults.RenderMarkdown,
		configurationKeyRenderStyle:    defaults.RenderStyle,
		configurationKeyReadingColumns: defaults.ReadingColumns,
		configurationKeyPromptTemplate: defaults.PromptTemplate,
		configurationKeyDelimiter:      defaults.Delimiter,
		configurationKeySheet:          defaults.Sheet,
		configurationKeyInterval:       defaults.Interval,
		configurationKeyServiceBaseURL: defaults.Service.BaseURL,
		configurationKeyServiceModel:   defaults.Service.Model,
		configurationKeyServiceTemp:    defaults.Service.Temperature,
		configurationKeyServiceTokens:  defaults.Service.MaxTokens,
		configurationKeyServiceToken:   defaults.Service.TokenSource,
		configurationKeyServiceTimeout: defaults.Service.Timeout,
	}

	trimmedPrefix := strings.Trim(strings.TrimSpace(prefix), ".")
	if len(trimmedPrefix) == 0 {
		return values
	}
	prefixedValues := make(map[string]any, len(values))
	for key, value := range values {
		prefixedValues[trimmedPrefix+"."+key] = value
	}
	return prefixedValues
}

// sanitize trims configuration values and restores defaults for blank entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Dataset = valueOrDefault(configuration.Dataset, defaults.Dataset)
	sanitized.Report = valueOrDefault(configuration.Report, defaults.Report)
	sanitized.ReportFormat = valueOrDefault(configuration.ReportFormat, defaults.ReportFormat)
	sanitized.RenderStyle = valueOrDefault(configuration.RenderStyle, defaults.RenderStyle)
	sanitized.PromptTemplate = strings.TrimSpace(configuration.PromptTemplate)
	sanitized.Sheet = strings.TrimSpace(configuration.Sheet)
	sanitized.ReadingColumns = sanitizeColumns(configuration.ReadingColumns)
	if len(sanitized.ReadingColumns) == 0 {
		sanitized.ReadingColumns = defaults.ReadingColumns
	}
	if sanitized.Interval < 0 {
		sanitized.Interval = 0
	}

	sanitized.Service.BaseURL = valueOrDefault(configuration.Service.BaseURL, defaults.Service.BaseURL)
	sanitized.Service.Model = valueOrDefault(configuration.Service.Model, defaults.Service.Model)
	sanitized.Service.TokenSource = valueOrDefault(configuration.Service.TokenSource, defaults.Service.TokenSource)
	if sanitized.Service.MaxTokens <= 0 {
		sanitized.Service.MaxTokens = defaults.Service.MaxTokens
	}
	if sanitized.Service.Timeout <= 0 {
		sanitized.Service.Timeout = defaults.Service.Timeout
	}

	return sanitized
}

func (configuration ServiceConfiguration) completionConfiguration() completion.Configuration {
	return completion.Configuration{
		BaseURL:     configuration.BaseURL,
		Model:       configuration.Model,
		Temperature: configuration.Temperature,
		MaxTokens:   configuration.MaxTokens,
		Timeout:     configuration.Timeout,
	}
}

func valueOrDefault(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}

func sanitizeColumns(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
