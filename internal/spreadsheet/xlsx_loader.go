package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/temirov/itamaudit/internal/inventory"
)

const (
	xlsxOpenErrorTemplateConstant     = "failed to open workbook %s: %w"
	xlsxReadErrorTemplateConstant     = "failed to read sheet %q of workbook %s: %w"
	xlsxMissingSheetTemplateConstant  = "workbook %s has no sheet named %q"
	xlsxEmptyWorkbookTemplateConstant = "workbook %s contains no sheets"
	xlsxEmptySheetTemplateConstant    = "sheet %q of workbook %s contains no rows"
	xlsxEncodingConstant              = "xlsx"
)

// XLSXLoader reads a single sheet from an Excel workbook.
type XLSXLoader struct {
	SheetName string
}

// NewXLSXLoader constructs a loader for the named sheet; an empty name selects
// the workbook's active sheet.
func NewXLSXLoader(sheetName string) *XLSXLoader {
	return &XLSXLoader{SheetName: strings.TrimSpace(sheetName)}
}

// Load reads every row of the selected sheet. Rows are padded to the widest row
// so trailing blank cells survive.
func (loader *XLSXLoader) Load(executionContext context.Context, filePath string) (loadedTable Table, loadError error) {
	if contextError := executionContext.Err(); contextError != nil {
		return Table{}, contextError
	}

	workbook, openError := excelize.OpenFile(filePath)
	if openError != nil {
		return Table{}, fmt.Errorf(xlsxOpenErrorTemplateConstant, filePath, openError)
	}
	defer func() {
		loadError = errors.Join(loadError, workbook.Close())
	}()

	sheetName, sheetError := loader.resolveSheet(workbook, filePath)
	if sheetError != nil {
		return Table{}, sheetError
	}

	rows, readError := workbook.GetRows(sheetName)
	if readError != nil {
		return Table{}, fmt.Errorf(xlsxReadErrorTemplateConstant, sheetName, filePath, readError)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf(xlsxEmptySheetTemplateConstant, sheetName, filePath)
	}

	widestRow := 0
	for _, cells := range rows {
		widestRow = max(widestRow, len(cells))
	}

	table := Table{Encoding: xlsxEncodingConstant, Rows: make([]inventory.RawRow, 0, len(rows))}
	for position, cells := range rows {
		paddedCells := make([]string, widestRow)
		copy(paddedCells, cells)
		table.Rows = append(table.Rows, inventory.RawRow{Number: position + 1, Cells: paddedCells})
	}
	return table, nil
}

func (loader *XLSXLoader) resolveSheet(workbook *excelize.File, filePath string) (string, error) {
	sheetNames := workbook.GetSheetList()
	if len(sheetNames) == 0 {
		return "", fmt.Errorf(xlsxEmptyWorkbookTemplateConstant, filePath)
	}

	if len(loader.SheetName) == 0 {
		activeSheetName := workbook.GetSheetName(workbook.GetActiveSheetIndex())
		if len(activeSheetName) == 0 {
			return sheetNames[0], nil
		}
		return activeSheetName, nil
	}

	for _, sheetName := range sheetNames {
		if strings.EqualFold(sheetName, loader.SheetName) {
			return sheetName, nil
		}
	}
	return "", fmt.Errorf(xlsxMissingSheetTemplateConstant, filePath, loader.SheetName)
}
