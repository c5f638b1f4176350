package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/flashaudit/internal/completion"
	"github.com/temirov/flashaudit/internal/credentials"
	"github.com/temirov/flashaudit/internal/dataset"
	"github.com/temirov/flashaudit/internal/prompt"
	"github.com/temirov/flashaudit/internal/throttle"
	pathutils "github.com/temirov/flashaudit/internal/utils/path"
)

const (
	commandUseConstant                  = "audit"
	commandShortDescriptionConstant     = "Audit flashcard rows with a text-generation service"
	commandLongDescriptionConstant      = "audit renders flashcard dataset rows into prompts, submits them to an OpenAI-compatible completion endpoint, and prints or collects the critiques."
	fileCommandUseConstant              = "file"
	fileCommandShortDescription         = "Audit every row and write a report"
	fileCommandLongDescription          = "file audits every row of the dataset, skipping rows whose reading columns are all empty, and writes the collected critiques to the report path."
	rowCommandUseConstant               = "row <index>"
	rowCommandShortDescription          = "Audit a single row and print the result"
	rowCommandLongDescription           = "row audits the dataset row at the zero-based index and prints the critique without writing a report."
	flagDatasetName                     = "dataset"
	flagDatasetDescription              = "Path to the flashcard dataset (.csv, .tsv, or .xlsx)"
	flagReportName                      = "report"
	flagReportDescription               = "Path of the report written by a full-file audit"
	flagReportFormatName                = "report-format"
	flagReportFormatDescription         = "Report encoding (markdown or html)"
	flagRenderName                      = "render"
	flagRenderDescription               = "Render the single-row result as terminal markdown"
	rowIndexParseErrorTemplate          = "row index must be an integer: %q"
	credentialUnavailableMessage        = "credential unavailable; requests will be sent without one"
	credentialSourceErrorTemplate       = "invalid token source: %w"
	commandExecutionErrorTemplate       = "audit failed: %w"
	logMessageCommandConfiguredConstant = "audit configured"
	logFieldTokenSourceConstant         = "token_source"
	logFieldModelConstant               = "model"
	logFieldBaseURLConstant             = "base_url"
	logFieldIntervalConstant            = "interval"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the audit command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Loader                DatasetLoader
	Client                CompletionClient
	HTTPClient            completion.HTTPClient
	CredentialResolver    credentials.Resolver
	Throttle              throttle.Throttle
	FileSystem            FileSystem
	Presenter             ResultPresenter
}

// Build constructs the audit command with its file and row subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	command.PersistentFlags().String(flagDatasetName, "", flagDatasetDescription)

	fileCommand := &cobra.Command{
		Use:   fileCommandUseConstant,
		Short: fileCommandShortDescription,
		Long:  fileCommandLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runFile,
	}
	fileCommand.Flags().String(flagReportName, "", flagReportDescription)
	fileCommand.Flags().String(flagReportFormatName, "", flagReportFormatDescription)

	rowCommand := &cobra.Command{
		Use:   rowCommandUseConstant,
		Short: rowCommandShortDescription,
		Long:  rowCommandLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runRow,
	}
	rowCommand.Flags().Bool(flagRenderName, false, flagRenderDescription)

	command.AddCommand(fileCommand, rowCommand)
	return command, nil
}

func (builder *CommandBuilder) runFile(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)

	reportFormat, formatError := ParseReportFormat(configuration.ReportFormat)
	if formatError != nil {
		return formatError
	}

	service, serviceError := builder.buildService(command, configuration, PlainPresenter{})
	if serviceError != nil {
		return serviceError
	}

	_, auditError := service.AuditFile(command.Context(), FileOptions{
		DatasetPath:    configuration.Dataset,
		ReportPath:     configuration.Report,
		ReportFormat:   reportFormat,
		ReadingColumns: configuration.ReadingColumns,
	})
	if auditError != nil {
		return fmt.Errorf(commandExecutionErrorTemplate, auditError)
	}
	return nil
}

func (builder *CommandBuilder) runRow(command *cobra.Command, arguments []string) error {
	rowIndex, parseError := strconv.Atoi(strings.TrimSpace(arguments[0]))
	if parseError != nil {
		return fmt.Errorf(rowIndexParseErrorTemplate, arguments[0])
	}

	configuration := builder.resolveConfiguration(command)
	presenter, presenterError := builder.resolvePresenter(configuration)
	if presenterError != nil {
		return presenterError
	}

	service, serviceError := builder.buildService(command, configuration, presenter)
	if serviceError != nil {
		return serviceError
	}

	_, auditError := service.AuditRow(command.Context(), RowOptions{
		DatasetPath: configuration.Dataset,
		RowIndex:    rowIndex,
	})
	if auditError != nil {
		return fmt.Errorf(commandExecutionErrorTemplate, auditError)
	}
	return nil
}

func (builder *CommandBuilder) buildService(command *cobra.Command, configuration CommandConfiguration, presenter ResultPresenter) (*Service, error) {
	logger := builder.resolveLogger()

	formatter, formatterError := prompt.LoadFormatter(configuration.PromptTemplate)
	if formatterError != nil {
		return nil, formatterError
	}

	client, clientError := builder.resolveClient(command, configuration, logger)
	if clientError != nil {
		return nil, clientError
	}

	logger.Debug(logMessageCommandConfiguredConstant,
		zap.String(logFieldDatasetConstant, configuration.Dataset),
		zap.String(logFieldReportConstant, configuration.Report),
		zap.String(logFieldBaseURLConstant, configuration.Service.BaseURL),
		zap.String(logFieldModelConstant, configuration.Service.Model),
		zap.Duration(logFieldIntervalConstant, configuration.Interval),
	)

	return NewService(Dependencies{
		Loader:     builder.resolveLoader(configuration),
		Normalizer: dataset.NewNormalizer(),
		Formatter:  formatter,
		Client:     client,
		Throttle:   builder.resolveThrottle(configuration),
		FileSystem: builder.FileSystem,
		Presenter:  presenter,
		Logger:     logger,
	}, command.OutOrStdout(), command.ErrOrStderr())
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(flagDatasetName) {
		configuration.Dataset, _ = command.Flags().GetString(flagDatasetName)
	}
	if flag := command.Flags().Lookup(flagReportName); flag != nil && flag.Changed {
		configuration.Report = flag.Value.String()
	}
	if flag := command.Flags().Lookup(flagReportFormatName); flag != nil && flag.Changed {
		configuration.ReportFormat = flag.Value.String()
	}
	if flag := command.Flags().Lookup(flagRenderName); flag != nil && flag.Changed {
		configuration.RenderMarkdown, _ = command.Flags().GetBool(flagRenderName)
	}

	sanitized := configuration.sanitize()
	homeExpander := pathutils.NewHomeExpander()
	sanitized.Dataset = homeExpander.Resolve(sanitized.Dataset)
	sanitized.Report = homeExpander.Resolve(sanitized.Report)
	sanitized.PromptTemplate = homeExpander.Resolve(sanitized.PromptTemplate)
	return sanitized
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveLoader(configuration CommandConfiguration) DatasetLoader {
	if builder.Loader != nil {
		return builder.Loader
	}
	return dataset.NewFileLoader(dataset.LoaderOptions{
		Delimiter: configuration.Delimiter,
		SheetName: configuration.Sheet,
	})
}

func (builder *CommandBuilder) resolveThrottle(configuration CommandConfiguration) throttle.Throttle {
	if builder.Throttle != nil {
		return builder.Throttle
	}
	return throttle.NewIntervalThrottle(configuration.Interval, nil)
}

func (builder *CommandBuilder) resolvePresenter(configuration CommandConfiguration) (ResultPresenter, error) {
	if builder.Presenter != nil {
		return builder.Presenter, nil
	}
	if !configuration.RenderMarkdown {
		return PlainPresenter{}, nil
	}
	return NewMarkdownPresenter(configuration.RenderStyle, 0)
}

func (builder *CommandBuilder) resolveClient(command *cobra.Command, configuration CommandConfiguration, logger *zap.Logger) (CompletionClient, error) {
	if builder.Client != nil {
		return builder.Client, nil
	}

	source, sourceError := credentials.ParseSource(configuration.Service.TokenSource)
	if sourceError != nil {
		return nil, fmt.Errorf(credentialSourceErrorTemplate, sourceError)
	}

	resolver := builder.CredentialResolver
	if resolver == nil {
		resolver = credentials.NewResolver(nil, nil)
	}

	credential, resolveError := resolver.Resolve(command.Context(), source)
	if resolveError != nil {
		logger.Warn(credentialUnavailableMessage,
			zap.String(logFieldTokenSourceConstant, configuration.Service.TokenSource),
			zap.Error(resolveError),
		)
		credential = ""
	}

	return completion.NewClient(configuration.Service.completionConfiguration(), credential, builder.HTTPClient, logger), nil
}
