package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/inventory"
	"github.com/temirov/itamaudit/internal/spreadsheet"
)

const (
	missingInputPathErrorMessageConstant  = "inventory file path is required"
	loaderResolutionErrorTemplateConstant = "unable to select loader for %s: %w"
	loadErrorTemplateConstant             = "unable to load inventory %s: %w"
	headerRowErrorTemplateConstant        = "unable to locate header row: %w"
	schemaErrorTemplateConstant           = "inventory %s failed schema validation: %w"
	outputDirectoryErrorTemplateConstant  = "unable to prepare output directory %s: %w"
	outputPathErrorTemplateConstant       = "unable to choose output path in %s: %w"
	outputCreateErrorTemplateConstant     = "unable to create %s: %w"
	outputWriteErrorTemplateConstant      = "unable to write %s: %w"
	outputTimestampLayoutConstant         = "150405"
	outputFileTemplateConstant            = "%s_%s%s"
	outputCopyFileTemplateConstant        = "%s_%s_copy%d%s"
	outputExtensionConstant               = ".csv"
	summarySuffixConstant                 = ".summary.yaml"
	maximumOutputCopiesConstant           = 1000
	logMessageLoadedConstant              = "inventory loaded"
	logMessageRowErrorsConstant           = "inventory rows excluded"
	logMessageRowErrorDetailConstant      = "inventory row excluded"
	logMessageSelectionsConstant          = "discrepancy selection complete"
	logMessageSequenceGapConstant         = "designator sequence gap"
	logMessageReportWrittenConstant       = "discrepancy report written"
	logFieldInputPathConstant             = "input_path"
	logFieldEncodingConstant              = "encoding"
	logFieldHeaderRowConstant             = "header_row"
	logFieldRecordCountConstant           = "record_count"
	logFieldRowErrorCountConstant         = "row_error_count"
	logFieldRowNumberConstant             = "row_number"
	logFieldReasonConstant                = "reason"
	logFieldInvalidCountConstant          = "invalid_designators"
	logFieldDuplicateCountConstant        = "duplicates"
	logFieldMissingFloorPlanCountConstant = "missing_new_floor_plan"
	logFieldInclusionCountConstant        = "inclusion_filter"
	logFieldFlaggedCountConstant          = "flagged_count"
	logFieldFloorPlanConstant             = "floor_plan"
	logFieldPrefixConstant                = "prefix"
	logFieldMissingNumbersConstant        = "missing"
	logFieldOutputPathConstant            = "output_path"
	logFieldSummaryPathConstant           = "summary_path"
	logFieldHighSeverityCountConstant     = "high_severity"
	logFieldRunIdentifierConstant         = "run_id"
)

var errOutputCopiesExhausted = errors.New("too many existing report copies")

// Service coordinates loading, assembling, and writing one discrepancy report.
type Service struct {
	loaderResolver LoaderResolver
	fileSystem     FileSystem
	clock          Clock
	logger         *zap.Logger
}

// NewService constructs a Service using the provided dependencies. Nil
// dependencies fall back to the spreadsheet loaders, the OS filesystem, the
// system clock, and a no-op logger.
func NewService(loaderResolver LoaderResolver, fileSystem FileSystem, clock Clock, logger *zap.Logger) *Service {
	if loaderResolver == nil {
		loaderResolver = spreadsheet.LoaderForPath
	}
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loaderResolver: loaderResolver,
		fileSystem:     fileSystem,
		clock:          clock,
		logger:         logger,
	}
}

// Run executes one audit. A schema error aborts before any file is created.
// The summary sidecar is written only when options.WriteSummary is set.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (RunResult, error) {
	inputPath := strings.TrimSpace(options.InputPath)
	if len(inputPath) == 0 {
		return RunResult{}, errors.New(missingInputPathErrorMessageConstant)
	}

	loader, loaderError := service.loaderResolver(inputPath, spreadsheet.LoaderOptions{SheetName: options.SheetName})
	if loaderError != nil {
		return RunResult{}, fmt.Errorf(loaderResolutionErrorTemplateConstant, inputPath, loaderError)
	}

	table, loadError := loader.Load(executionContext, inputPath)
	if loadError != nil {
		return RunResult{}, fmt.Errorf(loadErrorTemplateConstant, inputPath, loadError)
	}

	headers, dataRows, headerError := table.SplitHeader(options.HeaderRow)
	if headerError != nil {
		return RunResult{}, fmt.Errorf(headerRowErrorTemplateConstant, headerError)
	}

	headerIndex, schemaError := inventory.NewHeaderIndex(headers)
	if schemaError != nil {
		return RunResult{}, fmt.Errorf(schemaErrorTemplateConstant, inputPath, schemaError)
	}

	runIdentifier := uuid.NewString()
	records, rowErrors := inventory.BuildRecords(headerIndex, dataRows)
	service.logger.Info(
		logMessageLoadedConstant,
		zap.String(logFieldRunIdentifierConstant, runIdentifier),
		zap.String(logFieldInputPathConstant, inputPath),
		zap.String(logFieldEncodingConstant, table.Encoding),
		zap.Int(logFieldHeaderRowConstant, options.HeaderRow),
		zap.Int(logFieldRecordCountConstant, len(records)),
	)
	service.logRowErrors(rowErrors)

	if contextError := executionContext.Err(); contextError != nil {
		return RunResult{}, contextError
	}

	report := discrepancy.NewAssembler(options.ReservedPrefixes).Assemble(records)
	service.logger.Info(
		logMessageSelectionsConstant,
		zap.Int(logFieldInvalidCountConstant, report.SelectionCounts.InvalidDesignators),
		zap.Int(logFieldDuplicateCountConstant, report.SelectionCounts.Duplicates),
		zap.Int(logFieldMissingFloorPlanCountConstant, report.SelectionCounts.MissingNewFloorPlan),
		zap.Int(logFieldInclusionCountConstant, report.SelectionCounts.InclusionFilter),
		zap.Int(logFieldFlaggedCountConstant, len(report.Records)),
	)

	sequenceGaps := discrepancy.FindSequenceGaps(records)
	for _, gap := range sequenceGaps {
		service.logger.Debug(
			logMessageSequenceGapConstant,
			zap.String(logFieldFloorPlanConstant, gap.FloorPlan),
			zap.String(logFieldPrefixConstant, gap.Prefix),
			zap.Ints(logFieldMissingNumbersConstant, gap.Missing),
		)
	}

	if contextError := executionContext.Err(); contextError != nil {
		return RunResult{}, contextError
	}

	outputDirectory := strings.TrimSpace(options.OutputDirectory)
	if len(outputDirectory) == 0 {
		outputDirectory = filepath.Dir(inputPath)
	}
	if mkdirError := service.fileSystem.MkdirAll(outputDirectory, outputDirectoryPermissionsConstant); mkdirError != nil {
		return RunResult{}, fmt.Errorf(outputDirectoryErrorTemplateConstant, outputDirectory, mkdirError)
	}

	outputPath, pathError := service.resolveOutputPath(outputDirectory, inputPath)
	if pathError != nil {
		return RunResult{}, fmt.Errorf(outputPathErrorTemplateConstant, outputDirectory, pathError)
	}

	reportWriter := spreadsheet.AnnotatedCSVWriter{ReasonFormat: options.ReasonFormat}
	if writeError := service.writeFile(outputPath, func(file io.Writer) error {
		return reportWriter.Write(file, headers, report)
	}); writeError != nil {
		return RunResult{}, writeError
	}

	summary := spreadsheet.RunSummary{
		RunID:           runIdentifier,
		InputPath:       inputPath,
		OutputPath:      outputPath,
		Encoding:        table.Encoding,
		HeaderRow:       options.HeaderRow,
		RecordCount:     len(records),
		FlaggedCount:    len(report.Records),
		Selections:      report.SelectionCounts,
		Severities:      report.SeverityCounts,
		DuplicateGroups: len(report.Groups.Groups()),
		Census:          inventory.Census(records),
		SequenceGaps:    sequenceGaps,
		RowErrors:       spreadsheet.NewRowErrorSummaries(rowErrors),
	}
	summaryPath := ""
	if options.WriteSummary {
		summaryPath = outputPath + summarySuffixConstant
		if writeError := service.writeFile(summaryPath, func(file io.Writer) error {
			return spreadsheet.WriteRunSummary(file, summary)
		}); writeError != nil {
			return RunResult{}, writeError
		}
	}

	service.logger.Info(
		logMessageReportWrittenConstant,
		zap.String(logFieldRunIdentifierConstant, runIdentifier),
		zap.String(logFieldOutputPathConstant, outputPath),
		zap.String(logFieldSummaryPathConstant, summaryPath),
		zap.Int(logFieldFlaggedCountConstant, len(report.Records)),
		zap.Int(logFieldHighSeverityCountConstant, report.SeverityCounts.High),
	)

	return RunResult{OutputPath: outputPath, SummaryPath: summaryPath, Summary: summary, Report: report}, nil
}

func (service *Service) logRowErrors(rowErrors []*inventory.MalformedRowError) {
	if len(rowErrors) == 0 {
		return
	}
	service.logger.Warn(logMessageRowErrorsConstant, zap.Int(logFieldRowErrorCountConstant, len(rowErrors)))
	for _, rowError := range rowErrors {
		service.logger.Debug(
			logMessageRowErrorDetailConstant,
			zap.Int(logFieldRowNumberConstant, rowError.RowNumber),
			zap.String(logFieldReasonConstant, rowError.Reason),
		)
	}
}

// resolveOutputPath names the report <input base>_<HHMMSS>.csv and appends
// _copy<N> until the name is unused.
func (service *Service) resolveOutputPath(outputDirectory string, inputPath string) (string, error) {
	inputBase := filepath.Base(inputPath)
	inputStem := strings.TrimSuffix(inputBase, filepath.Ext(inputBase))
	timestamp := service.clock.Now().Format(outputTimestampLayoutConstant)

	candidate := filepath.Join(outputDirectory, fmt.Sprintf(outputFileTemplateConstant, inputStem, timestamp, outputExtensionConstant))
	for copyNumber := 1; copyNumber <= maximumOutputCopiesConstant; copyNumber++ {
		_, statError := service.fileSystem.Stat(candidate)
		if errors.Is(statError, fs.ErrNotExist) {
			return candidate, nil
		}
		if statError != nil {
			return "", statError
		}
		candidate = filepath.Join(outputDirectory, fmt.Sprintf(outputCopyFileTemplateConstant, inputStem, timestamp, copyNumber, outputExtensionConstant))
	}
	return "", errOutputCopiesExhausted
}

func (service *Service) writeFile(filePath string, write func(file io.Writer) error) error {
	file, createError := service.fileSystem.CreateExclusive(filePath)
	if createError != nil {
		return fmt.Errorf(outputCreateErrorTemplateConstant, filePath, createError)
	}

	writeError := write(file)
	closeError := file.Close()
	if combinedError := errors.Join(writeError, closeError); combinedError != nil {
		_ = service.fileSystem.Remove(filePath)
		return fmt.Errorf(outputWriteErrorTemplateConstant, filePath, combinedError)
	}
	return nil
}
