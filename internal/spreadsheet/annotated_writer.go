package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/temirov/itamaudit/internal/discrepancy"
)

// Appended report columns.
const (
	ColumnUniqueIdentifier = "Unique Identifier"
	ColumnReasons          = "Reasons to Correct Entry"
	ColumnDuplicateOf      = "Duplicate Of ID"
	ColumnSeverity         = "Severity"
	ColumnHighlightColor   = "Highlight Color"
)

const (
	annotatedHeaderWriteErrorTemplateConstant = "failed to write report header: %w"
	annotatedRowWriteErrorTemplateConstant    = "failed to write report row %d: %w"
	annotatedFlushErrorTemplateConstant       = "failed to flush report: %w"
)

// AnnotatedColumns lists the columns appended after the inventory headers.
func AnnotatedColumns() []string {
	return []string{
		ColumnUniqueIdentifier,
		ColumnReasons,
		ColumnDuplicateOf,
		ColumnSeverity,
		ColumnHighlightColor,
	}
}

// AnnotatedCSVWriter serializes flagged records with their original cells and
// the annotation columns.
type AnnotatedCSVWriter struct {
	ReasonFormat discrepancy.ReasonFormat
}

// Write emits the header row followed by one row per flagged record in report order.
func (writer AnnotatedCSVWriter) Write(destination io.Writer, headers []string, report discrepancy.Report) error {
	csvWriter := csv.NewWriter(destination)

	headerRow := append(append([]string{}, headers...), AnnotatedColumns()...)
	if writeError := csvWriter.Write(headerRow); writeError != nil {
		return fmt.Errorf(annotatedHeaderWriteErrorTemplateConstant, writeError)
	}

	for _, flagged := range report.Records {
		if writeError := csvWriter.Write(writer.formatRow(len(headers), flagged)); writeError != nil {
			return fmt.Errorf(annotatedRowWriteErrorTemplateConstant, flagged.RowNumber, writeError)
		}
	}

	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(annotatedFlushErrorTemplateConstant, flushError)
	}
	return nil
}

func (writer AnnotatedCSVWriter) formatRow(headerWidth int, flagged discrepancy.FlaggedRecord) []string {
	row := make([]string, headerWidth, headerWidth+len(AnnotatedColumns()))
	copy(row, flagged.Cells)

	reasonFormat := writer.ReasonFormat
	if len(reasonFormat) == 0 {
		reasonFormat = discrepancy.ReasonFormatCode
	}

	duplicateOf := ""
	if flagged.HasDuplicateOf {
		duplicateOf = flagged.DuplicateOfID
	}

	return append(row,
		strconv.Itoa(flagged.UniqueIdentifier),
		flagged.Reasons.Join(reasonFormat),
		duplicateOf,
		flagged.Severity.String(),
		flagged.Severity.HighlightColor(),
	)
}
