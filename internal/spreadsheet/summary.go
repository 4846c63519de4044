package spreadsheet

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/inventory"
)

const (
	summaryEncodeErrorTemplateConstant = "failed to encode run summary: %w"
	summaryCloseErrorTemplateConstant  = "failed to finalize run summary: %w"
	summaryIndentConstant              = 2
)

// RowErrorSummary identifies a row excluded from the audit.
type RowErrorSummary struct {
	RowNumber int    `yaml:"row"`
	Message   string `yaml:"message"`
}

// RunSummary describes one audit run for the YAML sidecar.
type RunSummary struct {
	RunID           string                      `yaml:"run_id"`
	InputPath       string                      `yaml:"input"`
	OutputPath      string                      `yaml:"output"`
	Encoding        string                      `yaml:"encoding"`
	HeaderRow       int                         `yaml:"header_row"`
	RecordCount     int                         `yaml:"record_count"`
	FlaggedCount    int                         `yaml:"flagged_count"`
	Selections      discrepancy.SelectionCounts `yaml:"selections"`
	Severities      discrepancy.SeverityCounts  `yaml:"severities"`
	DuplicateGroups int                         `yaml:"duplicate_groups"`
	Census          inventory.DeviceCensus      `yaml:"census"`
	SequenceGaps    []discrepancy.SequenceGap   `yaml:"sequence_gaps,omitempty"`
	RowErrors       []RowErrorSummary           `yaml:"row_errors,omitempty"`
}

// NewRowErrorSummaries converts malformed-row errors for the summary.
func NewRowErrorSummaries(rowErrors []*inventory.MalformedRowError) []RowErrorSummary {
	summaries := make([]RowErrorSummary, 0, len(rowErrors))
	for _, rowError := range rowErrors {
		summaries = append(summaries, RowErrorSummary{RowNumber: rowError.RowNumber, Message: rowError.Reason})
	}
	return summaries
}

// WriteRunSummary encodes the summary as YAML.
func WriteRunSummary(destination io.Writer, summary RunSummary) error {
	encoder := yaml.NewEncoder(destination)
	encoder.SetIndent(summaryIndentConstant)
	if encodeError := encoder.Encode(summary); encodeError != nil {
		return fmt.Errorf(summaryEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(summaryCloseErrorTemplateConstant, closeError)
	}
	return nil
}
