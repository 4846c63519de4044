package audit_test

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/itamaudit/internal/audit"
	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/inventory"
	"github.com/temirov/itamaudit/internal/spreadsheet"
)

const (
	testInventoryFileNameConstant      = "floor3.csv"
	testExpectedOutputFileNameConstant = "floor3_143005.csv"
	testExpectedCopyFileNameConstant   = "floor3_143005_copy1.csv"
	testSummarySuffixConstant          = ".summary.yaml"
	testTitleRowConstant               = "Facility Inventory Export,,,"
	testHeaderRowConstant              = "ID,Flr Pln D,Flr Pln N,Flr Pln L,Department,Type,WS_Mon_Make_1,WS_Mon_Mod_1,WS_Mon_Size_1,PRNT_Type,Network Pntr IP,PRNT_Queue_Name,PRNT_Make,PRNT_Model,EPIC_LOC"
	testHeaderRowWithoutLocation       = "ID,Flr Pln D,Flr Pln N,Flr Pln L,Department,Type,WS_Mon_Make_1,WS_Mon_Mod_1,WS_Mon_Size_1,PRNT_Type,Network Pntr IP,PRNT_Queue_Name,PRNT_Make,PRNT_Model"
	testServiceSubtestTemplateConstant = "%d_%s"
)

var testInventoryDataRows = []string{
	"A-100,WOW18,N-1,L-1,Radiology,Workstation,Dell,P2419H,24,,,,,,Clinic",
	"A-101,W5,N-5,L-5,Radiology,Workstation,Dell,P2419H,24,,,,,,Clinic",
	"A-102,W5,N-5,L-6,Cardiology,Workstation,Dell,P2419H,24,,,,,,Clinic",
	"A-103,W9,N-9,L-9,Radiology,Workstation,Dell,P2419H,24,,,,,,Clinic",
}

type fixedClock struct {
	moment time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.moment
}

func newFixedClock() fixedClock {
	return fixedClock{moment: time.Date(2026, time.October, 19, 14, 30, 5, 0, time.UTC)}
}

func writeInventoryFixture(testInstance *testing.T, directory string, headerRow string, dataRows []string) string {
	testInstance.Helper()
	lines := append([]string{testTitleRowConstant, headerRow}, dataRows...)
	inventoryPath := filepath.Join(directory, testInventoryFileNameConstant)
	require.NoError(testInstance, os.WriteFile(inventoryPath, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return inventoryPath
}

func readReportRows(testInstance *testing.T, reportPath string) [][]string {
	testInstance.Helper()
	reportFile, openError := os.Open(reportPath)
	require.NoError(testInstance, openError)
	defer reportFile.Close()

	rows, readError := csv.NewReader(reportFile).ReadAll()
	require.NoError(testInstance, readError)
	return rows
}

func TestServiceRunWritesAnnotatedReportAndSummary(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	outputDirectory := filepath.Join(testInstance.TempDir(), "reports")
	inventoryPath := writeInventoryFixture(testInstance, inputDirectory, testHeaderRowConstant, testInventoryDataRows)

	service := audit.NewService(nil, nil, newFixedClock(), nil)
	result, runError := service.Run(context.Background(), audit.CommandOptions{
		InputPath:        inventoryPath,
		OutputDirectory:  outputDirectory,
		HeaderRow:        2,
		ReasonFormat:     discrepancy.ReasonFormatCode,
		ReservedPrefixes: discrepancy.DefaultReservedPrefixes(),
		WriteSummary:     true,
	})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, filepath.Join(outputDirectory, testExpectedOutputFileNameConstant), result.OutputPath)
	require.Equal(testInstance, result.OutputPath+testSummarySuffixConstant, result.SummaryPath)

	rows := readReportRows(testInstance, result.OutputPath)
	require.Len(testInstance, rows, 4)
	require.Equal(testInstance, append(strings.Split(testHeaderRowConstant, ","), spreadsheet.AnnotatedColumns()...), rows[0])

	expectedAnnotations := [][]string{
		{"A-100", "1", string(discrepancy.ReasonInvalidDesignator), "", "LOW"},
		{"A-101", "2", string(discrepancy.ReasonDuplicateDesignatorNewFloorPlan), "A-102", "LOW"},
		{"A-102", "3", string(discrepancy.ReasonDuplicateDesignatorNewFloorPlan), "A-101", "LOW"},
	}
	for rowIndex, expected := range expectedAnnotations {
		row := rows[rowIndex+1]
		annotations := row[len(row)-len(spreadsheet.AnnotatedColumns()):]
		require.Equal(testInstance, expected[0], row[0])
		require.Equal(testInstance, expected[1:], annotations[:4])
	}

	require.Equal(testInstance, 4, result.Summary.RecordCount)
	require.Equal(testInstance, 3, result.Summary.FlaggedCount)
	require.Equal(testInstance, "utf-8", result.Summary.Encoding)
	require.Equal(testInstance, discrepancy.SelectionCounts{InvalidDesignators: 1, Duplicates: 2}, result.Summary.Selections)

	summaryContent, readError := os.ReadFile(result.SummaryPath)
	require.NoError(testInstance, readError)
	var decodedSummary map[string]any
	require.NoError(testInstance, yaml.Unmarshal(summaryContent, &decodedSummary))
	require.Equal(testInstance, 4, decodedSummary["record_count"])
	require.Equal(testInstance, 3, decodedSummary["flagged_count"])
	require.Equal(testInstance, result.OutputPath, decodedSummary["output"])
	require.Equal(testInstance, result.Summary.RunID, decodedSummary["run_id"])
	require.Len(testInstance, result.Summary.RunID, 36)
}

func TestServiceRunSchemaErrorWritesNothing(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	outputDirectory := filepath.Join(testInstance.TempDir(), "reports")
	inventoryPath := writeInventoryFixture(testInstance, inputDirectory, testHeaderRowWithoutLocation, nil)

	service := audit.NewService(nil, nil, newFixedClock(), nil)
	_, runError := service.Run(context.Background(), audit.CommandOptions{
		InputPath:       inventoryPath,
		OutputDirectory: outputDirectory,
		HeaderRow:       2,
		WriteSummary:    true,
	})
	require.Error(testInstance, runError)

	var schemaError *inventory.SchemaError
	require.True(testInstance, errors.As(runError, &schemaError))
	require.Equal(testInstance, []string{inventory.HeaderEpicLocation}, schemaError.MissingHeaders)

	_, statError := os.Stat(outputDirectory)
	require.True(testInstance, errors.Is(statError, os.ErrNotExist))
}

func TestServiceRunAppendsCopySuffix(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	inventoryPath := writeInventoryFixture(testInstance, workingDirectory, testHeaderRowConstant, testInventoryDataRows)
	existingReportPath := filepath.Join(workingDirectory, testExpectedOutputFileNameConstant)
	require.NoError(testInstance, os.WriteFile(existingReportPath, []byte("previous\n"), 0o600))

	service := audit.NewService(nil, nil, newFixedClock(), nil)
	result, runError := service.Run(context.Background(), audit.CommandOptions{
		InputPath: inventoryPath,
		HeaderRow: 2,
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, filepath.Join(workingDirectory, testExpectedCopyFileNameConstant), result.OutputPath)
	require.Empty(testInstance, result.SummaryPath)

	previousContent, readError := os.ReadFile(existingReportPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "previous\n", string(previousContent))

	_, statError := os.Stat(result.OutputPath + testSummarySuffixConstant)
	require.True(testInstance, errors.Is(statError, os.ErrNotExist))
}

func TestServiceRunReportsInputFailures(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	inventoryPath := writeInventoryFixture(testInstance, workingDirectory, testHeaderRowConstant, testInventoryDataRows)

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	testCases := []struct {
		name             string
		executionContext context.Context
		options          audit.CommandOptions
	}{
		{name: "missing_input_path", executionContext: context.Background(), options: audit.CommandOptions{HeaderRow: 2}},
		{name: "unsupported_extension", executionContext: context.Background(), options: audit.CommandOptions{InputPath: filepath.Join(workingDirectory, "floor3.ods"), HeaderRow: 2}},
		{name: "missing_file", executionContext: context.Background(), options: audit.CommandOptions{InputPath: filepath.Join(workingDirectory, "absent.csv"), HeaderRow: 2}},
		{name: "header_row_beyond_table", executionContext: context.Background(), options: audit.CommandOptions{InputPath: inventoryPath, HeaderRow: 40}},
		{name: "cancelled_context", executionContext: cancelledContext, options: audit.CommandOptions{InputPath: inventoryPath, HeaderRow: 2}},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testServiceSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			service := audit.NewService(nil, nil, newFixedClock(), nil)
			_, runError := service.Run(testCase.executionContext, testCase.options)
			require.Error(testInstance, runError)

			_, statError := os.Stat(filepath.Join(workingDirectory, testExpectedOutputFileNameConstant))
			require.True(testInstance, errors.Is(statError, os.ErrNotExist))
		})
	}
}

func TestServiceRunRecordsMalformedRows(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	dataRows := append([]string{"A-099"}, testInventoryDataRows...)
	inventoryPath := writeInventoryFixture(testInstance, workingDirectory, testHeaderRowConstant, dataRows)

	service := audit.NewService(nil, nil, newFixedClock(), nil)
	result, runError := service.Run(context.Background(), audit.CommandOptions{
		InputPath:    inventoryPath,
		HeaderRow:    2,
		WriteSummary: true,
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 4, result.Summary.RecordCount)
	require.Len(testInstance, result.Summary.RowErrors, 1)
	require.Equal(testInstance, 3, result.Summary.RowErrors[0].RowNumber)
}
