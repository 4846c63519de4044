package inventory

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Column headers recognized in facility inventory exports.
const (
	HeaderIdentifier       = "ID"
	HeaderDesignator       = "Flr Pln D"
	HeaderFloorPlanNew     = "Flr Pln N"
	HeaderFloorPlanOld     = "Flr Pln L"
	HeaderDepartment       = "Department"
	HeaderType             = "Type"
	HeaderMonitorMake      = "WS_Mon_Make_1"
	HeaderMonitorModel     = "WS_Mon_Mod_1"
	HeaderMonitorSize      = "WS_Mon_Size_1"
	HeaderPrinterType      = "PRNT_Type"
	HeaderPrinterIP        = "Network Pntr IP"
	HeaderPrinterQueueName = "PRNT_Queue_Name"
	HeaderPrinterMake      = "PRNT_Make"
	HeaderPrinterModel     = "PRNT_Model"
	HeaderEpicLocation     = "EPIC_LOC"
)

const (
	schemaErrorTemplateConstant         = "inventory header row is missing required columns: %s"
	malformedRowErrorTemplateConstant   = "row %d is malformed: %s"
	missingColumnReasonTemplateConstant = "column %q is absent (row has %d cells)"
	headerListSeparatorConstant         = ", "
)

// RequiredHeaders lists the columns the discrepancy rules read.
var RequiredHeaders = []string{
	HeaderDesignator,
	HeaderFloorPlanNew,
	HeaderFloorPlanOld,
	HeaderDepartment,
	HeaderType,
	HeaderMonitorMake,
	HeaderMonitorModel,
	HeaderMonitorSize,
	HeaderPrinterType,
	HeaderPrinterIP,
	HeaderPrinterQueueName,
	HeaderPrinterMake,
	HeaderPrinterModel,
	HeaderEpicLocation,
}

// SchemaError reports required headers absent from the designated header row.
type SchemaError struct {
	MissingHeaders []string
}

// Error describes the missing headers.
func (schemaError *SchemaError) Error() string {
	return fmt.Sprintf(schemaErrorTemplateConstant, strings.Join(schemaError.MissingHeaders, headerListSeparatorConstant))
}

// MalformedRowError reports a row lacking a structurally required column.
type MalformedRowError struct {
	RowNumber int
	Reason    string
}

// Error describes the malformed row.
func (rowError *MalformedRowError) Error() string {
	return fmt.Sprintf(malformedRowErrorTemplateConstant, rowError.RowNumber, rowError.Reason)
}

// HeaderIndex maps normalized header names to zero-based column positions.
type HeaderIndex struct {
	headers  []string
	position map[string]int
}

// NewHeaderIndex builds an index from the header row and validates required headers.
// Repeated header names resolve to their first column.
func NewHeaderIndex(headers []string) (HeaderIndex, error) {
	normalizedHeaders := make([]string, len(headers))
	positions := make(map[string]int, len(headers))
	for columnIndex, header := range headers {
		normalizedHeader := normalizeHeader(header)
		normalizedHeaders[columnIndex] = normalizedHeader
		if len(normalizedHeader) == 0 {
			continue
		}
		if _, exists := positions[normalizedHeader]; exists {
			continue
		}
		positions[normalizedHeader] = columnIndex
	}

	var missingHeaders []string
	for _, requiredHeader := range RequiredHeaders {
		if _, exists := positions[requiredHeader]; !exists {
			missingHeaders = append(missingHeaders, requiredHeader)
		}
	}
	if len(missingHeaders) > 0 {
		return HeaderIndex{}, &SchemaError{MissingHeaders: missingHeaders}
	}

	return HeaderIndex{headers: normalizedHeaders, position: positions}, nil
}

// Headers returns the normalized header row in column order.
func (index HeaderIndex) Headers() []string {
	return append([]string{}, index.headers...)
}

// Width returns the number of columns in the header row.
func (index HeaderIndex) Width() int {
	return len(index.headers)
}

// Column returns the zero-based column for a header name.
func (index HeaderIndex) Column(header string) (int, bool) {
	column, exists := index.position[normalizeHeader(header)]
	return column, exists
}

func normalizeHeader(header string) string {
	return strings.TrimSpace(norm.NFC.String(header))
}
