package spreadsheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/itamaudit/internal/inventory"
)

const (
	csvExtensionConstant                 = ".csv"
	xlsxExtensionConstant                = ".xlsx"
	xlsmExtensionConstant                = ".xlsm"
	unsupportedExtensionTemplateConstant = "unsupported inventory file extension %q"
	headerRowOutOfRangeTemplateConstant  = "header row %d is outside the %d loaded rows"
	headerRowNotPositiveTemplateConstant = "header row must be positive, got %d"
)

// Table holds every loaded row, header row included, with 1-based row numbers.
type Table struct {
	Rows     []inventory.RawRow
	Encoding string
}

// Loader reads an inventory export into a Table.
type Loader interface {
	Load(executionContext context.Context, filePath string) (Table, error)
}

// LoaderOptions configures loaders built by LoaderForPath.
type LoaderOptions struct {
	SheetName string
}

// LoaderForPath selects a loader from the file extension.
func LoaderForPath(filePath string, options LoaderOptions) (Loader, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case csvExtensionConstant:
		return NewCSVLoader(), nil
	case xlsxExtensionConstant, xlsmExtensionConstant:
		return NewXLSXLoader(options.SheetName), nil
	default:
		return nil, fmt.Errorf(unsupportedExtensionTemplateConstant, filepath.Ext(filePath))
	}
}

// SplitHeader returns the header row and the data rows that follow it.
// Rows above the header row are discarded.
func (table Table) SplitHeader(headerRowNumber int) ([]string, []inventory.RawRow, error) {
	if headerRowNumber < 1 {
		return nil, nil, fmt.Errorf(headerRowNotPositiveTemplateConstant, headerRowNumber)
	}
	for position, row := range table.Rows {
		if row.Number != headerRowNumber {
			continue
		}
		dataRows := append([]inventory.RawRow{}, table.Rows[position+1:]...)
		return append([]string{}, row.Cells...), dataRows, nil
	}
	return nil, nil, fmt.Errorf(headerRowOutOfRangeTemplateConstant, headerRowNumber, len(table.Rows))
}
