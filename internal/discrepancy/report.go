package discrepancy

import (
	"strings"

	"github.com/temirov/itamaudit/internal/inventory"
)

// Selection names a pass that picks records for the report.
type Selection string

// Selection passes in priority order.
const (
	SelectionInvalidDesignator   Selection = "invalid_designator"
	SelectionDuplicate           Selection = "duplicate"
	SelectionMissingNewFloorPlan Selection = "missing_new_floor_plan"
	SelectionInclusionFilter     Selection = "inclusion_filter"
)

// DefaultReservedPrefixes lists designator prefixes exempt from the inclusion filter.
func DefaultReservedPrefixes() []string {
	return []string{"P", "S"}
}

// FlaggedRecord is a selected record annotated with its reasons and severity.
type FlaggedRecord struct {
	inventory.Record
	UniqueIdentifier int
	Reasons          ReasonSet
	DuplicateOfID    string
	HasDuplicateOf   bool
	Severity         SeverityTier
	Selections       []Selection
}

// SelectionCounts reports how many records each pass selected before deduplication.
type SelectionCounts struct {
	InvalidDesignators  int `yaml:"invalid_designators"`
	Duplicates          int `yaml:"duplicates"`
	MissingNewFloorPlan int `yaml:"missing_new_floor_plan"`
	InclusionFilter     int `yaml:"inclusion_filter"`
}

// SeverityCounts reports how many flagged records landed in each tier.
type SeverityCounts struct {
	Low    int `yaml:"low"`
	Medium int `yaml:"medium"`
	High   int `yaml:"high"`
}

// Report is the annotated output of one run.
type Report struct {
	Records         []FlaggedRecord
	SelectionCounts SelectionCounts
	SeverityCounts  SeverityCounts
	Groups          DuplicateGroups
}

// Assembler merges every selection pass into a Report.
type Assembler struct {
	ReservedPrefixes []string
	Schemes          []KeyScheme
}

// NewAssembler constructs an assembler with the default key schemes. Blank
// reserved prefixes fall back to the defaults.
func NewAssembler(reservedPrefixes []string) Assembler {
	sanitizedPrefixes := make([]string, 0, len(reservedPrefixes))
	for _, prefix := range reservedPrefixes {
		trimmedPrefix := strings.TrimSpace(prefix)
		if len(trimmedPrefix) == 0 {
			continue
		}
		sanitizedPrefixes = append(sanitizedPrefixes, trimmedPrefix)
	}
	if len(sanitizedPrefixes) == 0 {
		sanitizedPrefixes = DefaultReservedPrefixes()
	}
	return Assembler{ReservedPrefixes: sanitizedPrefixes, Schemes: DefaultKeySchemes()}
}

// Assemble selects defective records, deduplicates them in first-seen order,
// and annotates each with reasons, duplicate back-reference, and severity.
// Records must be in Index order.
func (assembler Assembler) Assemble(records []inventory.Record) Report {
	schemes := assembler.Schemes
	if len(schemes) == 0 {
		schemes = DefaultKeySchemes()
	}
	reservedPrefixes := assembler.ReservedPrefixes
	if len(reservedPrefixes) == 0 {
		reservedPrefixes = DefaultReservedPrefixes()
	}

	groups := FindDuplicateGroups(records, schemes)
	recordsByIndex := make(map[int]inventory.Record, len(records))
	for _, record := range records {
		recordsByIndex[record.Index] = record
	}

	var selectionOrder []int
	selectionsByIndex := make(map[int][]Selection)
	selectIndex := func(recordIndex int, selection Selection) {
		existing, seen := selectionsByIndex[recordIndex]
		if !seen {
			selectionOrder = append(selectionOrder, recordIndex)
		}
		for _, recorded := range existing {
			if recorded == selection {
				return
			}
		}
		selectionsByIndex[recordIndex] = append(existing, selection)
	}

	counts := SelectionCounts{}

	for _, record := range records {
		if !IsValidDesignator(record) {
			counts.InvalidDesignators++
			selectIndex(record.Index, SelectionInvalidDesignator)
		}
	}

	for _, scheme := range schemes {
		for _, member := range groups.Members(scheme.Name) {
			counts.Duplicates++
			selectIndex(member, SelectionDuplicate)
		}
	}

	for _, record := range records {
		if record.FloorPlanNew.IsAbsent() {
			counts.MissingNewFloorPlan++
			selectIndex(record.Index, SelectionMissingNewFloorPlan)
		}
	}

	for _, record := range records {
		if needsInclusion(record, reservedPrefixes) {
			counts.InclusionFilter++
			selectIndex(record.Index, SelectionInclusionFilter)
		}
	}

	tally := NewTally()
	report := Report{
		Records:         make([]FlaggedRecord, 0, len(selectionOrder)),
		SelectionCounts: counts,
		Groups:          groups,
	}

	for outputPosition, recordIndex := range selectionOrder {
		record := recordsByIndex[recordIndex]
		reasons := Evaluate(record, groups.Membership(recordIndex))
		if reasons.Len() == 0 {
			reasons.Add(ReasonUnknown)
		}

		severity := SeverityLow
		for range reasons.Tags() {
			severity = tally.Flag(recordIndex)
		}

		duplicateOfID, hasDuplicateOf := groups.PartnerOf(recordIndex)

		report.Records = append(report.Records, FlaggedRecord{
			Record:           record,
			UniqueIdentifier: outputPosition + 1,
			Reasons:          reasons,
			DuplicateOfID:    duplicateOfID,
			HasDuplicateOf:   hasDuplicateOf,
			Severity:         severity,
			Selections:       selectionsByIndex[recordIndex],
		})

		switch severity {
		case SeverityMedium:
			report.SeverityCounts.Medium++
		case SeverityHigh:
			report.SeverityCounts.High++
		default:
			report.SeverityCounts.Low++
		}
	}

	return report
}

func needsInclusion(record inventory.Record, reservedPrefixes []string) bool {
	if record.Designator.HasPrefix(reservedPrefixes...) {
		return false
	}
	if MatchesStrictFormat(record.Designator) {
		return false
	}
	return record.MonitorMake.IsAbsent() || record.MonitorModel.IsAbsent()
}
