package audit_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/itamaudit/internal/audit"
	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/inventory"
	pathutils "github.com/temirov/itamaudit/internal/utils/path"
)

const (
	auditMissingInventoryErrorMessageConstant = "exactly one inventory file must be provided"
	auditWhitespaceArgumentConstant           = "   "
	auditNoArgumentsSubtestNameConstant       = "no_arguments"
	auditWhitespaceArgumentSubtestConstant    = "whitespace_argument"
	auditTooManyArgumentsSubtestConstant      = "too_many_arguments"
	auditOutputDirectoryFlagConstant          = "--output-dir"
	auditReasonFormatFlagConstant             = "--reason-format"
	auditHeaderRowFlagConstant                = "--header-row"
	auditSummaryDisabledFlagConstant          = "--summary=no"
	auditTildeInventoryArgumentConstant       = "~/floor3.csv"
	auditInvalidReasonFormatConstant          = "verbose"
)

func newTestCommandBuilder(configuration audit.CommandConfiguration) audit.CommandBuilder {
	return audit.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() audit.CommandConfiguration { return configuration },
		Clock:                 newFixedClock(),
	}
}

func executeAuditCommand(testInstance *testing.T, builder audit.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandBuilderDisplaysHelpWhenInventoryMissing(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: auditNoArgumentsSubtestNameConstant, arguments: []string{}},
		{name: auditWhitespaceArgumentSubtestConstant, arguments: []string{auditWhitespaceArgumentConstant}},
		{name: auditTooManyArgumentsSubtestConstant, arguments: []string{"floor3.csv", "floor4.csv"}},
	}

	for testCaseIndex, testCase := range testCases {
		testCase := testCase
		testInstance.Run(fmt.Sprintf(testServiceSubtestTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			subTest.Parallel()

			output, executionError := executeAuditCommand(subTest, newTestCommandBuilder(audit.DefaultCommandConfiguration()), testCase.arguments)
			require.Error(subTest, executionError)
			require.Equal(subTest, auditMissingInventoryErrorMessageConstant, executionError.Error())
			require.Contains(subTest, output, "audit <inventory-file>")
		})
	}
}

func TestCommandBuilderUsesConfigurationDefaults(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	configuredOutputDirectory := testInstance.TempDir()
	inventoryPath := writeInventoryFixture(testInstance, inputDirectory, testHeaderRowConstant, testInventoryDataRows)

	configuration := audit.DefaultCommandConfiguration()
	configuration.OutputDirectory = configuredOutputDirectory

	output, executionError := executeAuditCommand(testInstance, newTestCommandBuilder(configuration), []string{inventoryPath})
	require.NoError(testInstance, executionError)

	expectedOutputPath := filepath.Join(configuredOutputDirectory, testExpectedOutputFileNameConstant)
	require.Equal(testInstance, expectedOutputPath+"\n", output)
	require.FileExists(testInstance, expectedOutputPath)
	require.FileExists(testInstance, expectedOutputPath+testSummarySuffixConstant)
}

func TestCommandBuilderFlagsOverrideConfiguration(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	configuredOutputDirectory := testInstance.TempDir()
	flagOutputDirectory := testInstance.TempDir()
	inventoryPath := writeInventoryFixture(testInstance, inputDirectory, testHeaderRowConstant, testInventoryDataRows)

	configuration := audit.DefaultCommandConfiguration()
	configuration.OutputDirectory = configuredOutputDirectory
	configuration.HeaderRow = 7

	output, executionError := executeAuditCommand(testInstance, newTestCommandBuilder(configuration), []string{
		auditOutputDirectoryFlagConstant, flagOutputDirectory,
		auditReasonFormatFlagConstant, string(discrepancy.ReasonFormatLabel),
		auditHeaderRowFlagConstant, "2",
		auditSummaryDisabledFlagConstant,
		inventoryPath,
	})
	require.NoError(testInstance, executionError)

	expectedOutputPath := filepath.Join(flagOutputDirectory, testExpectedOutputFileNameConstant)
	require.Equal(testInstance, expectedOutputPath+"\n", output)
	require.NoFileExists(testInstance, filepath.Join(configuredOutputDirectory, testExpectedOutputFileNameConstant))
	require.NoFileExists(testInstance, expectedOutputPath+testSummarySuffixConstant)

	rows := readReportRows(testInstance, expectedOutputPath)
	require.Len(testInstance, rows, 4)
	firstRow := rows[1]
	require.Contains(testInstance, firstRow, discrepancy.ReasonInvalidDesignator.Label())
}

func TestCommandBuilderRejectsInvalidReasonFormat(testInstance *testing.T) {
	configuration := audit.DefaultCommandConfiguration()
	configuration.ReasonFormat = auditInvalidReasonFormatConstant

	_, executionError := executeAuditCommand(testInstance, newTestCommandBuilder(configuration), []string{"floor3.csv"})
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "invalid reason format")
}

func TestCommandBuilderExpandsTildeInventoryPath(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	writeInventoryFixture(testInstance, homeDirectory, testHeaderRowConstant, testInventoryDataRows)

	builder := newTestCommandBuilder(audit.DefaultCommandConfiguration())
	builder.HomeExpander = pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return homeDirectory, nil
	})

	output, executionError := executeAuditCommand(testInstance, builder, []string{auditTildeInventoryArgumentConstant})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, filepath.Join(homeDirectory, testExpectedOutputFileNameConstant)+"\n", output)
}

func TestCommandBuilderSurfacesSchemaErrors(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	inventoryPath := writeInventoryFixture(testInstance, workingDirectory, testHeaderRowWithoutLocation, testInventoryDataRows[:1])

	_, executionError := executeAuditCommand(testInstance, newTestCommandBuilder(audit.DefaultCommandConfiguration()), []string{inventoryPath})
	require.Error(testInstance, executionError)

	var schemaError *inventory.SchemaError
	require.True(testInstance, errors.As(executionError, &schemaError))

	entries, readError := os.ReadDir(workingDirectory)
	require.NoError(testInstance, readError)
	require.Len(testInstance, entries, 1)
}
