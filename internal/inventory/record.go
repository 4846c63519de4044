package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// DeviceType classifies a record by the capability implied by its Type column.
type DeviceType string

// Supported device types.
const (
	DeviceTypeWorkstation DeviceType = "workstation"
	DeviceTypeLaptop      DeviceType = "laptop"
	DeviceTypePrinter     DeviceType = "printer"
	DeviceTypeOther       DeviceType = "other"
)

const (
	deviceTypePrinterKeywordConstant      = "printer"
	deviceTypeDesktopKeywordConstant      = "desktop"
	synthesizedIdentifierTemplateConstant = "row-%d"
)

// ParseDeviceType derives the device type from free-text Type values.
func ParseDeviceType(rawType string) DeviceType {
	normalized := strings.ToLower(strings.TrimSpace(rawType))
	switch {
	case strings.Contains(normalized, deviceTypePrinterKeywordConstant):
		return DeviceTypePrinter
	case normalized == string(DeviceTypeLaptop):
		return DeviceTypeLaptop
	case normalized == string(DeviceTypeWorkstation), normalized == deviceTypeDesktopKeywordConstant:
		return DeviceTypeWorkstation
	default:
		return DeviceTypeOther
	}
}

// Record is one typed inventory row. Records are read-only once built.
type Record struct {
	Index     int
	RowNumber int
	ID        string

	Designator   Field
	Department   Field
	FloorPlanNew Field
	FloorPlanOld Field
	DeviceType   DeviceType

	MonitorMake  Field
	MonitorModel Field
	MonitorSize  Field

	PrinterType      Field
	PrinterIP        Field
	PrinterQueueName Field
	PrinterMake      Field
	PrinterModel     Field

	EpicLocation Field

	Cells []string
}

// RawRow is one spreadsheet row before typing.
type RawRow struct {
	Number int
	Cells  []string
}

// IsBlank reports whether every cell in the row is blank.
func (row RawRow) IsBlank() bool {
	for _, cell := range row.Cells {
		if len(strings.TrimSpace(cell)) > 0 {
			return false
		}
	}
	return true
}

// NewRecord types a raw row using the header index. The row must reach the
// designator column; every other missing cell becomes an absent field.
func NewRecord(index HeaderIndex, position int, row RawRow) (Record, error) {
	designatorColumn, _ := index.Column(HeaderDesignator)
	if designatorColumn >= len(row.Cells) {
		return Record{}, &MalformedRowError{
			RowNumber: row.Number,
			Reason:    fmt.Sprintf(missingColumnReasonTemplateConstant, HeaderDesignator, len(row.Cells)),
		}
	}

	cell := func(header string) Field {
		column, exists := index.Column(header)
		if !exists || column >= len(row.Cells) {
			return Absent()
		}
		return FieldFromCell(row.Cells[column])
	}

	identifier := cell(HeaderIdentifier).String()
	if len(identifier) == 0 {
		identifier = fmt.Sprintf(synthesizedIdentifierTemplateConstant, row.Number)
	}

	paddedCells := make([]string, max(index.Width(), len(row.Cells)))
	copy(paddedCells, row.Cells)

	return Record{
		Index:            position,
		RowNumber:        row.Number,
		ID:               identifier,
		Designator:       cell(HeaderDesignator),
		Department:       cell(HeaderDepartment),
		FloorPlanNew:     cell(HeaderFloorPlanNew),
		FloorPlanOld:     cell(HeaderFloorPlanOld),
		DeviceType:       ParseDeviceType(cell(HeaderType).String()),
		MonitorMake:      cell(HeaderMonitorMake),
		MonitorModel:     cell(HeaderMonitorModel),
		MonitorSize:      cell(HeaderMonitorSize),
		PrinterType:      cell(HeaderPrinterType),
		PrinterIP:        cell(HeaderPrinterIP),
		PrinterQueueName: cell(HeaderPrinterQueueName),
		PrinterMake:      cell(HeaderPrinterMake),
		PrinterModel:     cell(HeaderPrinterModel),
		EpicLocation:     cell(HeaderEpicLocation),
		Cells:            paddedCells,
	}, nil
}

// BuildRecords types every non-blank row. Malformed rows are excluded and
// returned alongside the records; Index values stay consecutive.
func BuildRecords(index HeaderIndex, rows []RawRow) ([]Record, []*MalformedRowError) {
	records := make([]Record, 0, len(rows))
	var rowErrors []*MalformedRowError

	for _, row := range rows {
		if row.IsBlank() {
			continue
		}
		record, recordError := NewRecord(index, len(records), row)
		if recordError != nil {
			var malformedRowError *MalformedRowError
			if errors.As(recordError, &malformedRowError) {
				rowErrors = append(rowErrors, malformedRowError)
				continue
			}
			rowErrors = append(rowErrors, &MalformedRowError{RowNumber: row.Number, Reason: recordError.Error()})
			continue
		}
		records = append(records, record)
	}

	return records, rowErrors
}
