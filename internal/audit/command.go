package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/utils"
	flagutils "github.com/temirov/itamaudit/internal/utils/flags"
	pathutils "github.com/temirov/itamaudit/internal/utils/path"
)

const (
	commandUseConstant                       = "audit <inventory-file>"
	commandShortDescriptionConstant          = "Flag discrepancies in a facility inventory export"
	commandLongDescriptionConstant           = "audit reads a CSV or XLSX facility inventory, selects records with defective designators, duplicates, or missing fields, and writes an annotated report with a YAML run summary."
	missingInventoryFileErrorMessageConstant = "exactly one inventory file must be provided"
	commandExecutionErrorTemplateConstant    = "audit failed: %w"
	reasonFormatParseErrorTemplateConstant   = "invalid reason format: %w"
	outputDirectoryFlagNameConstant          = "output-dir"
	outputDirectoryFlagDescriptionConstant   = "Directory for the annotated report (defaults to the inventory file directory)"
	headerRowFlagNameConstant                = "header-row"
	headerRowFlagDescriptionConstant         = "1-based row holding the column headers"
	sheetFlagNameConstant                    = "sheet"
	sheetFlagDescriptionConstant             = "Workbook sheet to read (defaults to the active sheet)"
	reasonFormatFlagNameConstant             = "reason-format"
	reasonFormatFlagDescriptionConstant      = "reason rendering in the report"
	reservedPrefixesFlagNameConstant         = "reserved-prefixes"
	reservedPrefixesFlagDescriptionConstant  = "Designator prefixes exempt from the monitor inclusion filter"
	summaryFlagNameConstant                  = "summary"
	summaryFlagDescriptionConstant           = "Write the YAML run summary next to the report"
	logMessageAuditCompletedConstant         = "audit completed"
	logMessageConfigurationFileConstant      = "audit configuration file"
	logFieldConfigurationFileConstant        = "config_file"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	LoaderResolver        LoaderResolver
	FileSystem            FileSystem
	Clock                 Clock
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the cobra command for inventory audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(outputDirectoryFlagNameConstant, "", outputDirectoryFlagDescriptionConstant)
	command.Flags().Int(headerRowFlagNameConstant, defaults.HeaderRow, headerRowFlagDescriptionConstant)
	command.Flags().String(sheetFlagNameConstant, "", sheetFlagDescriptionConstant)
	command.Flags().String(
		reasonFormatFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(defaults.ReasonFormat, discrepancy.ReasonFormatChoices(), reasonFormatFlagDescriptionConstant),
	)
	command.Flags().StringSlice(reservedPrefixesFlagNameConstant, nil, reservedPrefixesFlagDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, summaryFlagNameConstant, defaults.WriteSummary, summaryFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	if configurationFile, available := utils.NewCommandContextAccessor().LoadedConfigurationFile(command.Context()); available {
		logger.Debug(logMessageConfigurationFileConstant, zap.String(logFieldConfigurationFileConstant, configurationFile))
	}
	service := NewService(builder.LoaderResolver, builder.FileSystem, builder.Clock, logger)

	result, runError := service.Run(command.Context(), options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	logger.Debug(logMessageAuditCompletedConstant, zap.String(logFieldOutputPathConstant, result.OutputPath))
	_, printError := fmt.Fprintln(command.OutOrStdout(), result.OutputPath)
	return printError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (CommandOptions, error) {
	if len(arguments) != 1 || len(strings.TrimSpace(arguments[0])) == 0 {
		if helpError := builder.displayCommandHelp(command); helpError != nil {
			return CommandOptions{}, helpError
		}
		return CommandOptions{}, errors.New(missingInventoryFileErrorMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	expander := builder.resolveHomeExpander()

	outputDirectoryValue := configuration.OutputDirectory
	if command.Flags().Changed(outputDirectoryFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(outputDirectoryFlagNameConstant)
		if flagError != nil {
			return CommandOptions{}, flagError
		}
		outputDirectoryValue = strings.TrimSpace(flagValue)
	}

	headerRowValue := configuration.HeaderRow
	if command.Flags().Changed(headerRowFlagNameConstant) {
		flagValue, flagError := command.Flags().GetInt(headerRowFlagNameConstant)
		if flagError != nil {
			return CommandOptions{}, flagError
		}
		headerRowValue = flagValue
	}

	sheetValue := configuration.Sheet
	if command.Flags().Changed(sheetFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(sheetFlagNameConstant)
		if flagError != nil {
			return CommandOptions{}, flagError
		}
		sheetValue = strings.TrimSpace(flagValue)
	}

	reasonFormatValue := configuration.ReasonFormat
	if command.Flags().Changed(reasonFormatFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(reasonFormatFlagNameConstant)
		if flagError != nil {
			return CommandOptions{}, flagError
		}
		reasonFormatValue = flagValue
	}
	reasonFormat, reasonFormatError := discrepancy.ParseReasonFormat(reasonFormatValue)
	if reasonFormatError != nil {
		return CommandOptions{}, fmt.Errorf(reasonFormatParseErrorTemplateConstant, reasonFormatError)
	}

	reservedPrefixes := configuration.ReservedPrefixes
	if command.Flags().Changed(reservedPrefixesFlagNameConstant) {
		flagValues, flagError := command.Flags().GetStringSlice(reservedPrefixesFlagNameConstant)
		if flagError != nil {
			return CommandOptions{}, flagError
		}
		reservedPrefixes = sanitizePrefixes(flagValues)
	}

	writeSummary := configuration.WriteSummary
	if command.Flags().Changed(summaryFlagNameConstant) {
		flagValue, flagError := command.Flags().GetBool(summaryFlagNameConstant)
		if flagError != nil {
			return CommandOptions{}, flagError
		}
		writeSummary = flagValue
	}

	return CommandOptions{
		InputPath:        expander.Expand(strings.TrimSpace(arguments[0])),
		OutputDirectory:  expander.Expand(outputDirectoryValue),
		HeaderRow:        headerRowValue,
		SheetName:        sheetValue,
		ReasonFormat:     reasonFormat,
		ReservedPrefixes: reservedPrefixes,
		WriteSummary:     writeSummary,
	}, nil
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

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander != nil {
		return builder.HomeExpander
	}
	return pathutils.NewHomeExpander()
}

func (builder *CommandBuilder) displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
