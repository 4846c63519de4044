package inventory_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/itamaudit/internal/inventory"
)

const (
	recordSubtestNameTemplateConstant = "%d_%s"
	testRemoteLocationConstant        = "Remote - Home Office"
)

func testHeaders() []string {
	return append([]string{inventory.HeaderIdentifier}, inventory.RequiredHeaders...)
}

func testRow(rowNumber int, values map[string]string) inventory.RawRow {
	headers := testHeaders()
	cells := make([]string, len(headers))
	for columnIndex, header := range headers {
		cells[columnIndex] = values[header]
	}
	return inventory.RawRow{Number: rowNumber, Cells: cells}
}

func TestNewHeaderIndexReportsMissingHeaders(testInstance *testing.T) {
	testCases := []struct {
		name            string
		headers         []string
		expectedMissing []string
	}{
		{
			name:            "complete_header_row",
			headers:         testHeaders(),
			expectedMissing: nil,
		},
		{
			name:            "padded_header_names",
			headers:         []string{" Flr Pln D ", "Flr Pln N", "Flr Pln L", "Department", "Type", "WS_Mon_Make_1", "WS_Mon_Mod_1", "WS_Mon_Size_1", "PRNT_Type", "Network Pntr IP", "PRNT_Queue_Name", "PRNT_Make", "PRNT_Model", "EPIC_LOC\t"},
			expectedMissing: nil,
		},
		{
			name:            "designator_and_epic_missing",
			headers:         []string{"Flr Pln N", "Flr Pln L", "Department", "Type", "WS_Mon_Make_1", "WS_Mon_Mod_1", "WS_Mon_Size_1", "PRNT_Type", "Network Pntr IP", "PRNT_Queue_Name", "PRNT_Make", "PRNT_Model"},
			expectedMissing: []string{inventory.HeaderDesignator, inventory.HeaderEpicLocation},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(recordSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			headerIndex, indexError := inventory.NewHeaderIndex(testCase.headers)
			if len(testCase.expectedMissing) == 0 {
				require.NoError(testInstance, indexError)
				designatorColumn, exists := headerIndex.Column(inventory.HeaderDesignator)
				require.True(testInstance, exists)
				require.GreaterOrEqual(testInstance, designatorColumn, 0)
				return
			}

			var schemaError *inventory.SchemaError
			require.True(testInstance, errors.As(indexError, &schemaError))
			require.Equal(testInstance, testCase.expectedMissing, schemaError.MissingHeaders)
			require.Contains(testInstance, schemaError.Error(), inventory.HeaderDesignator)
		})
	}
}

func TestNewRecordTypesCells(testInstance *testing.T) {
	headerIndex, indexError := inventory.NewHeaderIndex(testHeaders())
	require.NoError(testInstance, indexError)

	record, recordError := inventory.NewRecord(headerIndex, 4, testRow(9, map[string]string{
		inventory.HeaderIdentifier:   "A-100",
		inventory.HeaderDesignator:   "  W204 ",
		inventory.HeaderFloorPlanNew: "FP1",
		inventory.HeaderFloorPlanOld: "   ",
		inventory.HeaderDepartment:   "IT",
		inventory.HeaderType:         "Workstation",
		inventory.HeaderEpicLocation: testRemoteLocationConstant,
	}))
	require.NoError(testInstance, recordError)

	require.Equal(testInstance, 4, record.Index)
	require.Equal(testInstance, 9, record.RowNumber)
	require.Equal(testInstance, "A-100", record.ID)
	require.Equal(testInstance, "W204", record.Designator.String())
	require.True(testInstance, record.FloorPlanNew.IsPresent())
	require.True(testInstance, record.FloorPlanOld.IsAbsent())
	require.True(testInstance, record.MonitorMake.IsAbsent())
	require.Equal(testInstance, inventory.DeviceTypeWorkstation, record.DeviceType)
	require.True(testInstance, record.EpicLocation.ContainsFold("REMOTE"))
	require.Len(testInstance, record.Cells, len(testHeaders()))
}

func TestNewRecordSynthesizesIdentifier(testInstance *testing.T) {
	headerIndex, indexError := inventory.NewHeaderIndex(inventory.RequiredHeaders)
	require.NoError(testInstance, indexError)

	record, recordError := inventory.NewRecord(headerIndex, 0, inventory.RawRow{Number: 3, Cells: []string{"P12"}})
	require.NoError(testInstance, recordError)
	require.Equal(testInstance, "row-3", record.ID)
	require.True(testInstance, record.Department.IsAbsent())
	require.Len(testInstance, record.Cells, len(inventory.RequiredHeaders))
}

func TestBuildRecordsAccumulatesMalformedRows(testInstance *testing.T) {
	headers := []string{inventory.HeaderIdentifier, inventory.HeaderType}
	headers = append(headers, inventory.RequiredHeaders...)
	headerIndex, indexError := inventory.NewHeaderIndex(headers)
	require.NoError(testInstance, indexError)

	rows := []inventory.RawRow{
		{Number: 3, Cells: []string{"1", "Laptop", "L10"}},
		{Number: 4, Cells: []string{"2", "Laptop"}},
		{Number: 5, Cells: []string{"", " ", ""}},
		{Number: 6, Cells: []string{"3", "Printer", "P1"}},
	}

	records, rowErrors := inventory.BuildRecords(headerIndex, rows)
	require.Len(testInstance, records, 2)
	require.Equal(testInstance, 0, records[0].Index)
	require.Equal(testInstance, 1, records[1].Index)
	require.Equal(testInstance, 6, records[1].RowNumber)
	require.Equal(testInstance, inventory.DeviceTypePrinter, records[1].DeviceType)

	require.Len(testInstance, rowErrors, 1)
	require.Equal(testInstance, 4, rowErrors[0].RowNumber)
	require.Contains(testInstance, rowErrors[0].Error(), inventory.HeaderDesignator)
}

func TestParseDeviceType(testInstance *testing.T) {
	testCases := []struct {
		rawType  string
		expected inventory.DeviceType
	}{
		{rawType: "Workstation", expected: inventory.DeviceTypeWorkstation},
		{rawType: " desktop ", expected: inventory.DeviceTypeWorkstation},
		{rawType: "LAPTOP", expected: inventory.DeviceTypeLaptop},
		{rawType: "Network Printer", expected: inventory.DeviceTypePrinter},
		{rawType: "Scanner", expected: inventory.DeviceTypeOther},
		{rawType: "", expected: inventory.DeviceTypeOther},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(recordSubtestNameTemplateConstant, testCaseIndex, testCase.rawType), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, inventory.ParseDeviceType(testCase.rawType))
		})
	}
}

func TestCensusCountsDesignatorFamilies(testInstance *testing.T) {
	records := []inventory.Record{
		{Designator: inventory.Present("L1"), DeviceType: inventory.DeviceTypeWorkstation},
		{Designator: inventory.Present("WOW18"), DeviceType: inventory.DeviceTypeWorkstation},
		{Designator: inventory.Present("w204"), DeviceType: inventory.DeviceTypeWorkstation},
		{Designator: inventory.Present("P3"), DeviceType: inventory.DeviceTypePrinter},
		{Designator: inventory.Present("S7"), DeviceType: inventory.DeviceTypePrinter},
		{Designator: inventory.Present("P9"), DeviceType: inventory.DeviceTypeOther},
		{Designator: inventory.Absent(), DeviceType: inventory.DeviceTypePrinter},
	}

	require.Equal(testInstance, inventory.DeviceCensus{
		Laptops:              1,
		WorkstationsOnWheels: 1,
		Workstations:         1,
		Printers:             1,
		SpecialtyPrinters:    1,
	}, inventory.Census(records))
}
